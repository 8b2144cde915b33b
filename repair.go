package decruft

import "regexp"

// Rule is a named textual rewrite applied to markup before parsing.
// Rules are immutable and live in ordered tables: a rule may assume that
// every rule before it in the table has already run.
type Rule struct {
	Description string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply substitutes every non-overlapping match of the pattern in one pass.
// Replacement uses regexp.Expand template syntax (${1}).
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

// Repairer fixes known classes of malformed markup in decoded text.
type Repairer interface {
	// Repair applies each rule of its table exactly once, in order.
	// Returns EEXHAUSTED if the input exceeds the configured size bound.
	Repair(text string) (string, error)
}

// AttributeStripper removes nuisance presentational attributes from
// serialized markup.
type AttributeStripper interface {
	// StripAttributes removes width, height, style, *color and background*
	// attributes from every tag, iterating to a fixed point.
	// Returns EEXHAUSTED if the iteration bound is exceeded.
	StripAttributes(markup string) (string, error)
}

// MarkupVerifier checks that a cleaned fragment still matches the
// structure of the fragment it was derived from.
type MarkupVerifier interface {
	// Verify returns ECLEANSING if cleaned does not reparse into the same
	// element structure as raw.
	Verify(raw, cleaned string) error
}
