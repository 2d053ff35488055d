package extractor

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/battlestats/config"
)

// Selectors names the structural markers of the profile page.
type Selectors struct {
	// StatsBox matches the streak widgets.
	StatsBox string

	// Panel matches the generic "surface" label/value panels.
	Panel string

	// Heading matches elements whose text names the section of their parent.
	Heading string

	// Avatar matches the profile picture element (its src attribute is read).
	Avatar string

	// Span matches the text cells inside boxes and panels.
	Span string
}

// DefaultSelectors returns the markers used by the live profile page.
func DefaultSelectors() Selectors {
	return Selectors{
		StatsBox: ".leaderboard-stats-box",
		Panel:    `[data-snow-surface="true"]`,
		Heading:  "h2",
		Avatar:   ".user-details__avatar",
		Span:     "span",
	}
}

type matchers struct {
	statsBox cascadia.Selector
	panel    cascadia.Selector
	heading  cascadia.Selector
	avatar   cascadia.Selector
	span     cascadia.Selector
}

func (s Selectors) compile() (matchers, error) {
	var m matchers
	for _, f := range []struct {
		name string
		expr string
		dst  *cascadia.Selector
	}{
		{"stats box", s.StatsBox, &m.statsBox},
		{"panel", s.Panel, &m.panel},
		{"heading", s.Heading, &m.heading},
		{"avatar", s.Avatar, &m.avatar},
		{"span", s.Span, &m.span},
	} {
		sel, err := cascadia.Compile(f.expr)
		if err != nil {
			return matchers{}, fmt.Errorf("extractor: invalid %s selector %q: %w", f.name, f.expr, err)
		}
		*f.dst = sel
	}
	return m, nil
}

// SelectorsFrom maps configured selectors onto Selectors.
func SelectorsFrom(c config.SelectorConfig) Selectors {
	return Selectors{
		StatsBox: c.StatsBox,
		Panel:    c.Panel,
		Heading:  c.Heading,
		Avatar:   c.Avatar,
		Span:     c.Span,
	}
}
