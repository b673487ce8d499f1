// Package main is the hijri command-line tool: offline date conversion and
// month grids using the same engine as the calendar server.
package main

import (
	"log/slog"
	"os"

	"github.com/keyxmakerx/campuscal/cmd/hijri/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}
