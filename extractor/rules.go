package extractor

import (
	"strings"

	"github.com/use-agent/battlestats/models"
)

// panelRule routes a panel to one field of the record.
type panelRule struct {
	name  string
	match func(label string) bool
	apply func(stats *models.PlayerStats, n float64, section string)
}

// panelRules is evaluated top to bottom; the first matching rule consumes
// the panel, so a panel sets at most one field.
var panelRules = []panelRule{
	{
		name:  "global rank",
		match: labelContains("global rank"),
		apply: func(s *models.PlayerStats, n float64, _ string) { setRounded(&s.BattleStats.GlobalRank, n) },
	},
	{
		name:  "total score",
		match: labelContains("total score"),
		apply: func(s *models.PlayerStats, n float64, _ string) { s.BattleStats.TotalScore = floatPtr(n) },
	},
	{
		name:  "targets played",
		match: labelContains("targets played"),
		apply: assignTargetsPlayed,
	},
	{
		name:  "avg match",
		match: labelContains("avg match"),
		apply: func(s *models.PlayerStats, n float64, _ string) { s.DailyTargets.AvgMatch = floatPtr(n) },
	},
	{
		name:  "avg characters",
		match: labelContains("avg characters"),
		apply: func(s *models.PlayerStats, n float64, _ string) { setRounded(&s.DailyTargets.AvgCharacters, n) },
	},
	{
		name:  "rating",
		match: labelContains("rating"),
		apply: func(s *models.PlayerStats, n float64, _ string) { setRounded(&s.Versus.Rating, n) },
	},
	{
		name:  "games played",
		match: labelContains("games played"),
		apply: func(s *models.PlayerStats, n float64, _ string) { setRounded(&s.Versus.GamesPlayed, n) },
	},
	{
		name:  "wins",
		match: labelContains("wins"),
		apply: func(s *models.PlayerStats, n float64, _ string) { setRounded(&s.Versus.Wins, n) },
	},
}

func labelContains(keyword string) func(string) bool {
	return func(label string) bool { return strings.Contains(label, keyword) }
}

// assignTargetsPlayed picks the counter by section. Without a recognised
// section it is best-effort: fill battle first, then daily, never both and
// never overwriting a value already set. A section-scoped panel always wins
// over an earlier fallback value for its own counter.
func assignTargetsPlayed(s *models.PlayerStats, n float64, section string) {
	switch {
	case strings.Contains(section, "battle") || strings.Contains(section, "stats"):
		setRounded(&s.BattleStats.TargetsPlayed, n)
	case strings.Contains(section, "daily"):
		setRounded(&s.DailyTargets.TargetsPlayed, n)
	case s.BattleStats.TargetsPlayed == nil:
		setRounded(&s.BattleStats.TargetsPlayed, n)
	case s.DailyTargets.TargetsPlayed == nil:
		setRounded(&s.DailyTargets.TargetsPlayed, n)
	}
}

// matchRule returns the rule that owns label, or nil.
func matchRule(label string) *panelRule {
	for i := range panelRules {
		if panelRules[i].match(label) {
			return &panelRules[i]
		}
	}
	return nil
}

// applyPanel writes one panel into stats. Panels without a parseable number
// or without a matching label are skipped.
func applyPanel(stats *models.PlayerStats, lv labeledValue) bool {
	n, ok := ExtractNumber(lv.value)
	if !ok {
		return false
	}
	rule := matchRule(lv.label)
	if rule == nil {
		return false
	}
	rule.apply(stats, n, lv.section)
	return true
}
