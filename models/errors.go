package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "PLAYER_NOT_FOUND"
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeStatsMissing = "STATS_NOT_RENDERED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// IsFetchFailure reports whether the code belongs to the document accessor's
// transient failure family (as opposed to bad input or a missing player).
func (e *ScrapeError) IsFetchFailure() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeNavigation, ErrCodeStatsMissing, ErrCodeBrowserCrash:
		return true
	}
	return false
}
