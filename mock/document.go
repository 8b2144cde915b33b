package mock

import "github.com/vishalsodani/decruft"

var _ decruft.Document = (*Document)(nil)

// Document is a mock implementation of decruft.Document.
type Document struct {
	TitleFn         func() (string, bool)
	StripElementsFn func(tags ...string) int
	BodyHTMLFn      func() (string, error)
}

func (d *Document) Title() (string, bool) {
	return d.TitleFn()
}

func (d *Document) StripElements(tags ...string) int {
	return d.StripElementsFn(tags...)
}

func (d *Document) BodyHTML() (string, error) {
	return d.BodyHTMLFn()
}

var _ decruft.Parser = (*Parser)(nil)

// Parser is a mock implementation of decruft.Parser.
type Parser struct {
	ParseFn func(text string, baseHref string) (decruft.Document, error)
}

func (p *Parser) Parse(text string, baseHref string) (decruft.Document, error) {
	return p.ParseFn(text, baseHref)
}
