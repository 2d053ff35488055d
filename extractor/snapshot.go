package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Snapshot is a rendered profile page: the DOM after scripts ran, plus the
// location the browser ended up at. It is owned by a single extraction.
type Snapshot struct {
	doc      *goquery.Document
	location *url.URL
}

// NewSnapshot parses rendered HTML into a queryable tree bound to location.
func NewSnapshot(rawHTML, location string) (*Snapshot, error) {
	loc, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse location %q: %w", location, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("snapshot: parse html: %w", err)
	}
	doc.Url = loc

	return &Snapshot{doc: doc, location: loc}, nil
}

// Document returns the underlying DOM tree.
func (s *Snapshot) Document() *goquery.Document {
	return s.doc
}

// Location returns the resolved page URL.
func (s *Snapshot) Location() *url.URL {
	return s.location
}

// Username returns the player segment of the resolved path
// ("/player/<name>" -> "<name>"), or "" if the path is shorter.
func (s *Snapshot) Username() string {
	parts := strings.Split(s.location.Path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// resolve turns a possibly relative reference into an absolute URL against
// the page location, the way the DOM reports img.src.
func (s *Snapshot) resolve(ref string) string {
	u, err := s.location.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
