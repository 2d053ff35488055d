package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantMsg  string
	}{
		{"plain", "alice", ""},
		{"digits underscore dash", "a_1-b2", ""},
		{"empty", "", "Username parameter is required"},
		{"space", "al ice", "Invalid username format"},
		{"slash", "../etc", "Invalid username format"},
		{"dot", "alice.b", "Invalid username format"},
		{"unicode", "ålice", "Invalid username format"},
		{"query chars", "a?b=c", "Invalid username format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var se *ScrapeError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, ErrCodeInvalidInput, se.Code)
			assert.Equal(t, tt.wantMsg, se.Message)
		})
	}
}

func TestScrapeError_UnwrapAndFamily(t *testing.T) {
	cause := errors.New("boom")
	err := NewScrapeError(ErrCodeStatsMissing, "stats container did not render", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsFetchFailure())
	assert.Equal(t, "STATS_NOT_RENDERED: stats container did not render: boom", err.Error())

	assert.False(t, NewScrapeError(ErrCodeNotFound, "Player not found", nil).IsFetchFailure())
	assert.False(t, NewScrapeError(ErrCodeInternal, "x", nil).IsFetchFailure())
}
