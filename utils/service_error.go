package utils

import (
	"errors"
	"fmt"
)

// Service error codes shared across the calendar, booking and conversation layers.
const (
	CodeUpstreamUnavailable  = "upstreamUnavailable"
	CodeConfigurationMissing = "configurationMissing"
	CodeSlotConflict         = "slotConflict"
)

// ServiceError classifies a failure crossing a service boundary.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewServiceError(code, message string, err error) error {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err carries the given service error code.
func HasCode(err error, code string) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
