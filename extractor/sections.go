package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// labeledValue is one value/label pair read from a surface panel.
type labeledValue struct {
	value   string
	label   string // lower-cased
	section string // lower-cased heading text, "" if none
}

// sectionIndex maps every surface panel to the section that scopes it.
//
// Each heading scopes the panels under its parent element. Headings are
// visited in document order and later ones overwrite earlier tags, so a
// nested heading wins for the panels inside its own container.
func sectionIndex(doc *goquery.Document, m matchers) map[*html.Node]string {
	sections := make(map[*html.Node]string)
	doc.FindMatcher(m.heading).Each(func(_ int, h *goquery.Selection) {
		name := strings.ToLower(nodeText(h))
		container := h.Parent()
		if container.Length() == 0 {
			return
		}
		container.FindMatcher(m.panel).Each(func(_ int, panel *goquery.Selection) {
			sections[panel.Get(0)] = name
		})
	})
	return sections
}

// panelValues reads every surface panel with at least two spans, in
// document order, attaching its section from the index.
func panelValues(doc *goquery.Document, m matchers, sections map[*html.Node]string) []labeledValue {
	var values []labeledValue
	doc.FindMatcher(m.panel).Each(func(_ int, panel *goquery.Selection) {
		spans := panel.FindMatcher(m.span)
		if spans.Length() < 2 {
			return
		}
		values = append(values, labeledValue{
			value:   nodeText(spans.Eq(0)),
			label:   strings.ToLower(nodeText(spans.Eq(1))),
			section: sections[panel.Get(0)],
		})
	})
	return values
}

func nodeText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
