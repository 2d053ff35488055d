// Package extractor turns a rendered profile page into a PlayerStats record.
//
// The page has no stable ids: statistics are spans inside recurring widgets,
// and the same label ("targets played") appears under more than one heading.
// Extraction runs in two passes over the DOM. The first builds an index from
// each surface panel to the heading that scopes it; the second reads the
// panels and routes them through an ordered rule table.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/battlestats/models"
)

// Extractor is safe for concurrent use; it holds only compiled selectors.
type Extractor struct {
	m matchers
}

// New compiles the selectors. It fails only on malformed selector syntax.
func New(sel Selectors) (*Extractor, error) {
	m, err := sel.compile()
	if err != nil {
		return nil, err
	}
	return &Extractor{m: m}, nil
}

// Extract builds the record from snap. It never fails: anything missing or
// unparseable leaves the corresponding field nil.
func (e *Extractor) Extract(snap *Snapshot) models.PlayerStats {
	doc := snap.Document()

	stats := models.PlayerStats{
		Username:   snap.Username(),
		ProfileURL: snap.Location().String(),
	}

	if src, ok := doc.FindMatcher(e.m.avatar).First().Attr("src"); ok && src != "" {
		abs := snap.resolve(src)
		stats.ProfilePicture = &abs
	}

	e.extractStreaks(doc, &stats)

	sections := sectionIndex(doc, e.m)
	for _, lv := range panelValues(doc, e.m, sections) {
		applyPanel(&stats, lv)
	}

	return stats
}

// extractStreaks reads the stats boxes: first span is the value, last span
// the label. An unparseable streak value counts as zero.
func (e *Extractor) extractStreaks(doc *goquery.Document, stats *models.PlayerStats) {
	doc.FindMatcher(e.m.statsBox).Each(func(_ int, box *goquery.Selection) {
		spans := box.FindMatcher(e.m.span)
		if spans.Length() < 2 {
			return
		}
		n, _ := ExtractNumber(nodeText(spans.First()))
		label := strings.ToLower(nodeText(spans.Last()))

		switch {
		case strings.Contains(label, "current streak"):
			setRounded(&stats.Streaks.Current, n)
		case strings.Contains(label, "longest streak"):
			setRounded(&stats.Streaks.Longest, n)
		}
	})
}
