// Package sanitize strips markup from user-supplied event text. Event titles
// and descriptions are plain text in JSON, iCal feeds and export files, so
// any HTML a client or an imported calendar slips in is removed before it is
// stored.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy. StrictPolicy allows no elements
// at all and drops the contents of script and style blocks.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// maxPasses bounds the strip/unescape loop in Text.
const maxPasses = 8

// Text removes every HTML tag from input and returns plain text. bluemonday
// escapes the entities it leaves behind; they are unescaped again so a title
// like "Q&A session" round-trips unchanged. Unescaping can surface markup
// that was entity-encoded ("&lt;b&gt;"), so passes repeat until the output
// stops changing. Text(Text(s)) == Text(s).
func Text(input string) string {
	out := input
	for i := 0; i < maxPasses && out != ""; i++ {
		next := html.UnescapeString(getPolicy().Sanitize(out))
		if next == out {
			return out
		}
		out = next
	}
	if strings.ContainsAny(out, "<>") {
		// Still unstable after maxPasses: drop the angle brackets so no
		// markup survives.
		out = strings.NewReplacer("<", "", ">", "").Replace(out)
	}
	return out
}
