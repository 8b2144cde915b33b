package repair

// Strip exposes the pass count for termination tests.
func (s *AttributeStripper) Strip(markup string) (string, int, error) {
	return s.strip(markup)
}
