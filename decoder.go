package decruft

// Decoder turns raw bytes of unknown encoding into text.
type Decoder interface {
	// Decode infers the character encoding of raw and returns the decoded
	// text and the name of the charset used. contentType is an optional
	// transport hint such as an HTTP Content-Type header.
	// Decode never fails: on total ambiguity it falls back to an encoding
	// that maps every byte to a code point.
	Decode(raw []byte, contentType string) (text string, charset string)
}
