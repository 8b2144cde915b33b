// Package chardet provides a decruft.Decoder that infers character encodings
// from byte order marks, transport headers, meta declarations and, as a last
// resort, statistical detection.
package chardet

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"github.com/vishalsodani/decruft"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	// DefaultMinConfidence is the lowest statistical detection confidence
	// (0-100) that is trusted over the windows-1252 fallback.
	DefaultMinConfidence = 50

	// DefaultSampleSize is the number of leading bytes fed to the
	// statistical detector.
	DefaultSampleSize = 64 * 1024

	// FallbackCharset maps every byte to a code point.
	FallbackCharset = "windows-1252"

	// prescanBytes is how far into the document meta declarations are honored.
	prescanBytes = 1024
)

// metaCharsetPattern matches both <meta charset="x"> and
// <meta http-equiv="Content-Type" content="text/html; charset=x">.
var metaCharsetPattern = regexp.MustCompile(`(?i)<meta\s[^>]*?charset\s*=\s*["']?\s*([a-z0-9_:.\-]+)`)

// Ensure Decoder implements decruft.Decoder at compile time.
var _ decruft.Decoder = (*Decoder)(nil)

// Decoder decodes raw HTML bytes into UTF-8 text.
// It is safe for concurrent use.
type Decoder struct {
	minConfidence int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMinConfidence sets the minimum statistical detection confidence.
func WithMinConfidence(n int) Option {
	return func(d *Decoder) {
		d.minConfidence = n
	}
}

// NewDecoder creates a new Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		minConfidence: DefaultMinConfidence,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns raw decoded to text along with the charset used.
// A leading byte order mark is removed.
func (d *Decoder) Decode(raw []byte, contentType string) (string, string) {
	enc, name := d.detect(raw, contentType)
	text, err := decode(enc, raw)
	if err != nil {
		text, _ = decode(charmap.Windows1252, raw)
		name = FallbackCharset
	}
	return text, name
}

// detect picks an encoding in order of reliability: BOM and transport
// header, UTF-8 validity, meta declaration, statistics, fallback.
func (d *Decoder) detect(raw []byte, contentType string) (encoding.Encoding, string) {
	if enc, name, certain := charset.DetermineEncoding(raw, contentType); certain {
		return enc, name
	}

	// Valid UTF-8 with multibyte sequences beats a meta declaration.
	if utf8.Valid(raw) && !isASCII(raw) {
		return unicode.UTF8, "utf-8"
	}

	if enc, name := declaredCharset(raw); enc != nil && name != "utf-8" {
		return enc, name
	}

	// Undeclared ASCII reads the same in every ASCII-compatible charset.
	if isASCII(raw) {
		return unicode.UTF8, "utf-8"
	}
	return d.detectStatistical(raw)
}

// declaredCharset returns the encoding named by a meta declaration in the
// first prescanBytes of raw. A declared UTF-16 means UTF-8: the meta tag
// itself could not have been read otherwise.
func declaredCharset(raw []byte) (encoding.Encoding, string) {
	if len(raw) > prescanBytes {
		raw = raw[:prescanBytes]
	}
	m := metaCharsetPattern.FindSubmatch(raw)
	if m == nil {
		return nil, ""
	}
	enc, name := charset.Lookup(string(m[1]))
	if enc == nil {
		return nil, ""
	}
	if strings.HasPrefix(name, "utf-16") {
		return unicode.UTF8, "utf-8"
	}
	return enc, name
}

func (d *Decoder) detectStatistical(raw []byte) (encoding.Encoding, string) {
	sample := raw
	if len(sample) > DefaultSampleSize {
		sample = sample[:DefaultSampleSize]
	}

	// Detectors are created per call so Decoder holds no shared state.
	result, err := chardet.NewHtmlDetector().DetectBest(sample)
	if err != nil || result == nil || result.Confidence < d.minConfidence {
		return charmap.Windows1252, FallbackCharset
	}

	enc, name := charset.Lookup(result.Charset)
	if enc == nil {
		return charmap.Windows1252, FallbackCharset
	}
	return enc, name
}

func decode(enc encoding.Encoding, raw []byte) (string, error) {
	b, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), raw)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
