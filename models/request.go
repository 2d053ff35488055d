package models

import "regexp"

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateUsername checks a player identifier before any navigation happens.
func ValidateUsername(username string) error {
	if username == "" {
		return NewScrapeError(ErrCodeInvalidInput, "Username parameter is required", nil)
	}
	if !usernamePattern.MatchString(username) {
		return NewScrapeError(ErrCodeInvalidInput, "Invalid username format", nil)
	}
	return nil
}
