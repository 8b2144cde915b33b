package mock

import "github.com/vishalsodani/decruft"

var _ decruft.Converter = (*Converter)(nil)

// Converter is a mock implementation of decruft.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
