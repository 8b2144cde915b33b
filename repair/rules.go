// Package repair rewrites malformed markup textually, before and after
// structural parsing.
//
// All patterns compile with Go's RE2 engine, so matching time is linear in
// the input length regardless of how adversarial the input is.
package repair

import (
	"regexp"

	"github.com/vishalsodani/decruft"
)

// defaultRules is ordered. The tag-shape rules (3 and 4) assume scripts are
// already gone; script bodies routinely contain text like "a <b" that would
// otherwise be "repaired".
var defaultRules = []decruft.Rule{
	{
		Description: "javascript",
		Pattern:     regexp.MustCompile(`(?is)<script.*?</script[^>]*>`),
		Replacement: "",
	},
	{
		Description: "double double-quoted attributes",
		Pattern:     regexp.MustCompile(`(="[^"]+")"+`),
		Replacement: "${1}",
	},
	{
		Description: "unclosed tags",
		Pattern:     regexp.MustCompile(`(<[a-zA-Z]+[^>]*)(<[a-zA-Z]+[^<>]*>)`),
		Replacement: "${1}>${2}",
	},
	{
		Description: "unclosed (numerical) attribute values",
		Pattern:     regexp.MustCompile(`(<[^>]*[a-zA-Z]+\s*=\s*"[0-9]+)( [a-zA-Z]+="\w+"|/?>)`),
		Replacement: `${1}"${2}`,
	},
}

// DefaultRules returns the standard repair table in application order.
// The returned slice is a copy; the compiled patterns are shared and safe
// for concurrent use.
func DefaultRules() []decruft.Rule {
	rules := make([]decruft.Rule, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}
