package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1,234", 1234, true},
		{"45%", 45, true},
		{"no digits", 0, false},
		{"0", 0, true},
		{"", 0, false},
		{"#1,024", 1024, true},
		{"99.5%", 99.5, true},
		{"1,234,567.25 pts", 1234567.25, true},
		{"v1.2.3", 1.2, true},
		{".75", 0.75, true},
		{"12.", 12, true},
		{"-5", 5, true},
		{"N/A", 0, false},
		{"  7  ", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundedPtr(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1.4, 1},
		{1.5, 2},
		{2.5, 3},
		{412.6, 413},
		{7, 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, *roundedPtr(tt.in), "round(%v)", tt.in)
	}
}

func TestRoundedPtr_OutOfRange(t *testing.T) {
	n, ok := ExtractNumber("99999999999999999999")
	assert.True(t, ok)
	assert.Nil(t, roundedPtr(n))
	assert.Nil(t, roundedPtr(1e300))

	v := roundedPtr(1 << 53)
	if assert.NotNil(t, v) {
		assert.Equal(t, 1<<53, *v)
	}
}

func TestSetRounded_KeepsPreviousOnOverflow(t *testing.T) {
	var dst *int
	setRounded(&dst, 1e20)
	assert.Nil(t, dst)

	setRounded(&dst, 41.6)
	setRounded(&dst, 1e20)
	if assert.NotNil(t, dst) {
		assert.Equal(t, 42, *dst)
	}
}
