// Package bluemonday provides a decruft.Sanitizer for markup that leaves the
// process, such as RSS item descriptions.
package bluemonday

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/vishalsodani/decruft"
)

// Ensure Sanitizer implements decruft.Sanitizer at compile time.
var _ decruft.Sanitizer = (*Sanitizer)(nil)

// Sanitizer applies a user-generated-content policy that also keeps class
// attributes. It is safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	return &Sanitizer{policy: policy}
}

// Sanitize drops disallowed elements and attributes from markup. The text
// of a dropped element is kept, except for script and style.
func (s *Sanitizer) Sanitize(markup string) string {
	return s.policy.Sanitize(markup)
}
