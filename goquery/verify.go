package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vishalsodani/decruft"
)

// Ensure Verifier implements decruft.MarkupVerifier at compile time.
var _ decruft.MarkupVerifier = (*Verifier)(nil)

// Verifier reparses cleaned markup and checks that attribute stripping
// left the element structure alone.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify returns ECLEANSING if raw and cleaned parse into different
// sequences of elements.
func (v *Verifier) Verify(raw, cleaned string) error {
	want, err := elementNames(raw)
	if err != nil {
		return err
	}
	got, err := elementNames(cleaned)
	if err != nil {
		return err
	}

	for i := 0; i < len(want) && i < len(got); i++ {
		if want[i] != got[i] {
			return decruft.Errorf(decruft.ECLEANSING,
				"element %d changed from <%s> to <%s>", i, want[i], got[i])
		}
	}
	if len(want) != len(got) {
		return decruft.Errorf(decruft.ECLEANSING,
			"element count changed from %d to %d", len(want), len(got))
	}
	return nil
}

// elementNames returns the tag names of all elements in document order.
func elementNames(markup string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, decruft.WrapError(decruft.ECLEANSING, err, "failed to reparse markup")
	}
	return doc.Find("*").Map(func(_ int, sel *goquery.Selection) string {
		return goquery.NodeName(sel)
	}), nil
}
