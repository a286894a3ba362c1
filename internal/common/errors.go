package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream text generation failed")
	ErrUpstreamTimeout = errors.New("upstream text generation timed out")
	ErrParse           = errors.New("no valid table")
	ErrNoText          = errors.New("no text detected")
	ErrOCR             = errors.New("text detection failed")
)

// Error codes carried by AppError.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeParse      = "PARSE_ERROR"
	CodeOCR        = "OCR_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a missing or malformed request field.
func NewValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, ErrValidation)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
