package repair

import (
	"regexp"
	"strings"

	"github.com/vishalsodani/decruft"
)

// Grammar fragments for a start tag. Anchoring every attribute before and
// after the nuisance one to this grammar keeps text inside quoted values,
// and text outside tags, from ever matching.
const (
	tagName   = `[a-zA-Z][^\s/>]*`
	attrValue = `(?:"[^"]*"|'[^']*'|[^\s"'>]+)`
	attribute = `[^\s"'=<>/]+(?:\s*=\s*` + attrValue + `)?`

	// Nuisance attributes interfere with layout in feed readers.
	nuisanceName = `(?i:width|height|style|[-a-z]*color|background[-a-z]*)`
)

// nuisancePattern matches a start tag holding at least one nuisance
// attribute. The lazy prefix selects the first one; group 1 is everything
// before it, group 2 everything after it.
var nuisancePattern = regexp.MustCompile(
	`<(` + tagName + `(?:\s+` + attribute + `)*?)` +
		`\s+` + nuisanceName + `\s*=\s*` + attrValue +
		`((?:\s+` + attribute + `)*\s*/?)>`,
)

// Ensure AttributeStripper implements decruft.AttributeStripper at compile time.
var _ decruft.AttributeStripper = (*AttributeStripper)(nil)

// AttributeStripper removes nuisance attributes from serialized markup.
type AttributeStripper struct {
	maxIterations int
}

// AttributeOption configures an AttributeStripper.
type AttributeOption func(*AttributeStripper)

// WithMaxIterations caps the number of substitution passes below the
// default bound derived from the input.
func WithMaxIterations(n int) AttributeOption {
	return func(s *AttributeStripper) {
		s.maxIterations = n
	}
}

// NewAttributeStripper creates a new AttributeStripper.
func NewAttributeStripper(opts ...AttributeOption) *AttributeStripper {
	s := &AttributeStripper{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StripAttributes removes every nuisance attribute from every tag.
// Each pass removes the first remaining nuisance attribute of each tag, so
// a tag with N of them takes N passes.
func (s *AttributeStripper) StripAttributes(markup string) (string, error) {
	out, _, err := s.strip(markup)
	return out, err
}

func (s *AttributeStripper) strip(markup string) (string, int, error) {
	// Every pass removes at least one "=", which bounds the passes.
	limit := strings.Count(markup, "=")
	if s.maxIterations > 0 && s.maxIterations < limit {
		limit = s.maxIterations
	}

	for passes := 0; ; passes++ {
		if !nuisancePattern.MatchString(markup) {
			return markup, passes, nil
		}
		if passes >= limit {
			return markup, passes, decruft.Errorf(decruft.EEXHAUSTED,
				"attribute stripping exceeded %d passes", limit)
		}
		next := nuisancePattern.ReplaceAllString(markup, "<${1}${2}>")
		if len(next) >= len(markup) {
			return markup, passes, decruft.Errorf(decruft.EEXHAUSTED,
				"attribute stripping made no progress after %d passes", passes)
		}
		markup = next
	}
}
