package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/campuscal/internal/config"
)

func TestNewRedis_Disabled(t *testing.T) {
	client, err := NewRedis(context.Background(), config.RedisConfig{})
	if err != nil || client != nil {
		t.Fatalf("expected nil, nil without a URL, got %v, %v", client, err)
	}
}

func TestNewRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("expected value in miniredis, got %q", got)
	}
}

func TestNewRedis_BadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), config.RedisConfig{URL: "mysql://nope"}); err == nil {
		t.Fatal("expected error for a non-redis URL")
	}
}

func TestPing_GivesUpWhenContextEnds(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := ping(ctx, client, 20*time.Millisecond); err == nil {
		t.Fatal("expected ping to fail against a stopped server")
	}
}
