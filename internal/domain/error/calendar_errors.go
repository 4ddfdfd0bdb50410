package error

import "errors"

// Calendar domain errors.
var (
	// ErrInvalidCalendarPeriod is returned when year or month is missing or out of range.
	ErrInvalidCalendarPeriod = errors.New("year and month are required")
)

// CalendarErrorCode defines error codes for calendar errors.
// Format: CAL-XXYYYY where XX is category and YYYY is specific error.
type CalendarErrorCode string

const (
	ErrCodeInvalidYear  CalendarErrorCode = "CAL-010001"
	ErrCodeInvalidMonth CalendarErrorCode = "CAL-010002"
)

// CalendarError represents a calendar error with code and message.
type CalendarError struct {
	Code    CalendarErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CalendarError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CalendarError) Unwrap() error {
	return e.Err
}

// NewCalendarError creates a new CalendarError with the given code and message.
func NewCalendarError(code CalendarErrorCode, message string, err error) *CalendarError {
	return &CalendarError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
