package mock

import "github.com/vishalsodani/decruft"

var _ decruft.Repairer = (*Repairer)(nil)

// Repairer is a mock implementation of decruft.Repairer.
type Repairer struct {
	RepairFn func(text string) (string, error)
}

func (r *Repairer) Repair(text string) (string, error) {
	return r.RepairFn(text)
}

var _ decruft.AttributeStripper = (*AttributeStripper)(nil)

// AttributeStripper is a mock implementation of decruft.AttributeStripper.
type AttributeStripper struct {
	StripAttributesFn func(markup string) (string, error)
}

func (s *AttributeStripper) StripAttributes(markup string) (string, error) {
	return s.StripAttributesFn(markup)
}

var _ decruft.MarkupVerifier = (*MarkupVerifier)(nil)

// MarkupVerifier is a mock implementation of decruft.MarkupVerifier.
type MarkupVerifier struct {
	VerifyFn func(raw, cleaned string) error
}

func (v *MarkupVerifier) Verify(raw, cleaned string) error {
	return v.VerifyFn(raw, cleaned)
}
