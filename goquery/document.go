package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vishalsodani/decruft"
	"golang.org/x/net/html"
)

// Ensure Document implements decruft.Document at compile time.
var _ decruft.Document = (*Document)(nil)

// Document is a parsed HTML tree.
type Document struct {
	doc *goquery.Document
}

// Title returns the text of the first title element with whitespace runs
// collapsed. Only text before the first child element counts.
func (d *Document) Title() (string, bool) {
	sel := d.doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}

	var b strings.Builder
	for c := sel.Nodes[0].FirstChild; c != nil && c.Type == html.TextNode; c = c.NextSibling {
		b.WriteString(c.Data)
	}

	title := strings.Join(strings.Fields(b.String()), " ")
	return title, title != ""
}

// StripElements removes every element named in tags with its subtree.
// Matches are collected before anything is removed, and matches nested in
// another match go with their ancestor instead of being visited again.
func (d *Document) StripElements(tags ...string) int {
	if len(tags) == 0 {
		return 0
	}
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[strings.ToLower(tag)] = true
	}

	matched := d.doc.Find("*").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return want[strings.ToLower(goquery.NodeName(sel))]
	})

	inMatch := make(map[*html.Node]bool, matched.Length())
	for _, n := range matched.Nodes {
		inMatch[n] = true
	}
	outermost := matched.FilterFunction(func(_ int, sel *goquery.Selection) bool {
		for p := sel.Nodes[0].Parent; p != nil; p = p.Parent {
			if inMatch[p] {
				return false
			}
		}
		return true
	})

	n := outermost.Length()
	outermost.Remove()
	return n
}

// BodyHTML renders the body element including its own tag. Documents
// without a body (framesets) render from the html element.
func (d *Document) BodyHTML() (string, error) {
	sel := d.doc.Find("body").First()
	if sel.Length() == 0 {
		sel = d.doc.Find("html").First()
	}
	if sel.Length() == 0 {
		sel = d.doc.Selection
	}
	return goquery.OuterHtml(sel)
}
