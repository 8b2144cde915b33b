package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vishalsodani/decruft"
)

// linkAttrs lists the attributes holding URLs that are made absolute.
var linkAttrs = []struct {
	selector string
	attr     string
}{
	{"[href]", "href"},
	{"[src]", "src"},
	{"[action]", "action"},
	{"[formaction]", "formaction"},
	{"[cite]", "cite"},
	{"[background]", "background"},
	{"[longdesc]", "longdesc"},
	{"[poster]", "poster"},
	{"[usemap]", "usemap"},
	{"[codebase]", "codebase"},
	{"object[data]", "data"},
}

// resolveLinks rewrites relative link targets to absolute URLs.
// The effective base is the document's own <base href> resolved against
// baseHref; if neither is present links are left as they are. An applied
// <base> element is removed.
func resolveLinks(doc *goquery.Document, baseHref string) error {
	var base *url.URL
	if baseHref != "" {
		u, err := url.Parse(strings.TrimSpace(baseHref))
		if err != nil {
			return decruft.Errorf(decruft.EINVALID, "invalid base href: %v", err)
		}
		base = u
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			switch {
			case base != nil:
				base = base.ResolveReference(ref)
			case ref.IsAbs():
				base = ref
			}
		}
	}

	if base == nil {
		return nil
	}
	doc.Find("base").Remove()

	for _, la := range linkAttrs {
		doc.Find(la.selector).Each(func(_ int, sel *goquery.Selection) {
			value, _ := sel.Attr(la.attr)
			value = strings.TrimSpace(value)
			if value == "" || isNonHTTPLink(value) {
				return
			}
			ref, err := url.Parse(value)
			if err != nil {
				return
			}
			sel.SetAttr(la.attr, base.ResolveReference(ref).String())
		})
	}
	return nil
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
