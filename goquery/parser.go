package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/vishalsodani/decruft"
	"golang.org/x/net/html"
)

const (
	// binarySampleRunes is how much of the input is inspected to decide
	// whether it is markup at all.
	binarySampleRunes = 4096

	// binaryControlRatio is the share of control or replacement
	// characters above which input is rejected as binary.
	binaryControlRatio = 0.1

	// asciiFreeRunes is the length of a sample without a single ASCII
	// character that is rejected as binary.
	asciiFreeRunes = 256
)

// Ensure Parser implements decruft.Parser at compile time.
var _ decruft.Parser = (*Parser)(nil)

// Parser builds documents with the x/net/html tokenizer, which recovers
// from malformed markup the way browsers do and never fetches anything.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts repaired text into a Document. Comments are dropped.
// Links are made absolute against the document's base, see resolveLinks.
func (p *Parser) Parse(text string, baseHref string) (decruft.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, decruft.Errorf(decruft.EUNPARSEABLE, "document is empty")
	}
	if looksBinary(text) {
		return nil, decruft.Errorf(decruft.EUNPARSEABLE, "input does not look like markup")
	}

	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, decruft.WrapError(decruft.EUNPARSEABLE, err, "failed to parse HTML")
	}
	removeComments(root)

	doc := goquery.NewDocumentFromNode(root)
	if err := resolveLinks(doc, baseHref); err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// looksBinary reports whether text reads like decoded binary data rather
// than markup or prose: it holds NUL, a high share of control characters,
// or no ASCII at all. High bytes decoded through a legacy charset never
// decode to ASCII, while every HTML page and most prose contain some.
func looksBinary(text string) bool {
	var total, ascii, suspicious int
	for _, r := range text {
		if total == binarySampleRunes {
			break
		}
		total++
		if r < utf8.RuneSelf {
			ascii++
		}
		switch {
		case r == 0:
			return true
		case r == utf8.RuneError:
			suspicious++
		case unicode.IsControl(r) && !unicode.IsSpace(r):
			suspicious++
		}
	}
	if total >= asciiFreeRunes && ascii == 0 {
		return true
	}
	return total > 0 && float64(suspicious)/float64(total) > binaryControlRatio
}

// removeComments collects comment nodes before detaching them so the
// walk never follows a removed node.
func removeComments(root *html.Node) {
	var comments []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, c := range comments {
		c.Parent.RemoveChild(c)
	}
}
