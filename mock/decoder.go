package mock

import "github.com/vishalsodani/decruft"

var _ decruft.Decoder = (*Decoder)(nil)

// Decoder is a mock implementation of decruft.Decoder.
type Decoder struct {
	DecodeFn func(raw []byte, contentType string) (string, string)
}

func (d *Decoder) Decode(raw []byte, contentType string) (string, string) {
	return d.DecodeFn(raw, contentType)
}
