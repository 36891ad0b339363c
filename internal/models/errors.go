package models

import (
	"errors"
	"fmt"
)

// Error codes for the failure modes of a scrape run.
const (
	ErrCodeRenderingUnavailable  = "RENDERING_UNAVAILABLE"
	ErrCodeContentTimeout        = "CONTENT_TIMEOUT"
	ErrCodeFieldExtractionFailed = "FIELD_EXTRACTION_FAILED"
	ErrCodeExportFailed          = "EXPORT_FAILED"
	ErrCodeInvalidInput          = "INVALID_INPUT"
)

// ScrapeError is the internal error type carrying an error code.
// It supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error
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

// IsCode reports whether any error in err's chain is a ScrapeError with code.
func IsCode(err error, code string) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
