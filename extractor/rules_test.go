package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/battlestats/models"
)

func TestMatchRule_Precedence(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"global rank", "global rank"},
		{"global rank rating", "global rank"},
		{"total score", "total score"},
		{"targets played", "targets played"},
		{"avg match", "avg match"},
		{"avg characters", "avg characters"},
		{"elo rating", "rating"},
		{"rating wins", "rating"},
		{"games played", "games played"},
		{"wins", "wins"},
		{"total wins", "wins"},
		{"losses", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			rule := matchRule(tt.label)
			if tt.want == "" {
				assert.Nil(t, rule)
				return
			}
			require.NotNil(t, rule)
			assert.Equal(t, tt.want, rule.name)
		})
	}
}

func TestApplyPanel_SkipsUnparseable(t *testing.T) {
	var stats models.PlayerStats
	assert.False(t, applyPanel(&stats, labeledValue{value: "N/A", label: "rating"}))
	assert.Nil(t, stats.Versus.Rating)
}

func TestApplyPanel_ZeroIsAValue(t *testing.T) {
	var stats models.PlayerStats
	assert.True(t, applyPanel(&stats, labeledValue{value: "0", label: "wins"}))
	require.NotNil(t, stats.Versus.Wins)
	assert.Equal(t, 0, *stats.Versus.Wins)
}

func TestApplyPanel_RoundingPerField(t *testing.T) {
	var stats models.PlayerStats
	applyPanel(&stats, labeledValue{value: "1,234.6", label: "total score"})
	applyPanel(&stats, labeledValue{value: "1,234.6", label: "global rank"})
	applyPanel(&stats, labeledValue{value: "88.25%", label: "avg match"})
	applyPanel(&stats, labeledValue{value: "300.5", label: "avg characters"})

	assert.Equal(t, 1234.6, *stats.BattleStats.TotalScore)
	assert.Equal(t, 1235, *stats.BattleStats.GlobalRank)
	assert.Equal(t, 88.25, *stats.DailyTargets.AvgMatch)
	assert.Equal(t, 301, *stats.DailyTargets.AvgCharacters)
}

func TestAssignTargetsPlayed(t *testing.T) {
	t.Run("battle section", func(t *testing.T) {
		var s models.PlayerStats
		assignTargetsPlayed(&s, 10, "battle stats")
		assert.Equal(t, 10, *s.BattleStats.TargetsPlayed)
		assert.Nil(t, s.DailyTargets.TargetsPlayed)
	})

	t.Run("stats section", func(t *testing.T) {
		var s models.PlayerStats
		assignTargetsPlayed(&s, 10, "my stats")
		assert.Equal(t, 10, *s.BattleStats.TargetsPlayed)
	})

	t.Run("daily section", func(t *testing.T) {
		var s models.PlayerStats
		assignTargetsPlayed(&s, 4, "daily targets")
		assert.Equal(t, 4, *s.DailyTargets.TargetsPlayed)
		assert.Nil(t, s.BattleStats.TargetsPlayed)
	})

	t.Run("fallback fills battle then daily then nothing", func(t *testing.T) {
		var s models.PlayerStats
		assignTargetsPlayed(&s, 1, "")
		assignTargetsPlayed(&s, 2, "overview")
		assignTargetsPlayed(&s, 3, "")
		assert.Equal(t, 1, *s.BattleStats.TargetsPlayed)
		assert.Equal(t, 2, *s.DailyTargets.TargetsPlayed)
	})

	t.Run("fallback treats zero as set", func(t *testing.T) {
		var s models.PlayerStats
		assignTargetsPlayed(&s, 0, "")
		assignTargetsPlayed(&s, 9, "")
		assert.Equal(t, 0, *s.BattleStats.TargetsPlayed)
		assert.Equal(t, 9, *s.DailyTargets.TargetsPlayed)
	})
}

func TestApplyPanel_HugeIntegerStaysNull(t *testing.T) {
	var stats models.PlayerStats
	applyPanel(&stats, labeledValue{value: "99999999999999999999", label: "global rank", section: "battle stats"})
	applyPanel(&stats, labeledValue{value: "99999999999999999999", label: "targets played"})
	applyPanel(&stats, labeledValue{value: "99999999999999999999", label: "total score"})

	assert.Nil(t, stats.BattleStats.GlobalRank)
	assert.Nil(t, stats.BattleStats.TargetsPlayed)
	assert.Nil(t, stats.DailyTargets.TargetsPlayed)
	require.NotNil(t, stats.BattleStats.TotalScore)
	assert.Equal(t, 1e20, *stats.BattleStats.TotalScore)
}

func TestAssignTargetsPlayed_SectionOverridesFallback(t *testing.T) {
	var s models.PlayerStats
	assignTargetsPlayed(&s, 11, "")
	assignTargetsPlayed(&s, 22, "battle stats")

	assert.Equal(t, 22, *s.BattleStats.TargetsPlayed)
	assert.Nil(t, s.DailyTargets.TargetsPlayed)
}
