package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberNoise   = strings.NewReplacer(",", "", "%", "")
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)
)

// ExtractNumber returns the first number in text after dropping thousands
// separators and percent signs. ok is false when text holds no digits.
// Zero is a valid result.
func ExtractNumber(text string) (n float64, ok bool) {
	match := numberPattern.FindString(numberNoise.Replace(text))
	if match == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// maxWholeNumber is the largest float64 magnitude whose integer part is
// exact. Counters beyond it are noise, not statistics.
const maxWholeNumber = 1 << 53

// roundedPtr rounds half away from zero; parsed values are never negative,
// so this matches the page's own rounding. It returns nil when the rounded
// value is not exactly representable as an int.
func roundedPtr(n float64) *int {
	r := math.Round(n)
	if math.IsNaN(r) || math.Abs(r) > maxWholeNumber {
		return nil
	}
	v := int(r)
	return &v
}

// setRounded stores the rounded n in *dst. Out-of-range values leave *dst
// untouched.
func setRounded(dst **int, n float64) {
	if v := roundedPtr(n); v != nil {
		*dst = v
	}
}

func floatPtr(n float64) *float64 {
	return &n
}
