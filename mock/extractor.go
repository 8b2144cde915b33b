package mock

import "github.com/vishalsodani/decruft"

var _ decruft.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of decruft.Extractor.
type Extractor struct {
	ExtractFn func(in *decruft.Input) (*decruft.ExtractResult, error)
}

func (e *Extractor) Extract(in *decruft.Input) (*decruft.ExtractResult, error) {
	return e.ExtractFn(in)
}
