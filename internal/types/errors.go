package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures so CLI and REPL callers can
// translate them into user-facing behavior without string matching.
type ErrorCode string

const (
	CodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	CodeInvalidStage     ErrorCode = "INVALID_STAGE"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeResearchFailed   ErrorCode = "RESEARCH_FAILED"
	CodePRDGeneration    ErrorCode = "PRD_GENERATION_FAILED"
	CodeQualityFailed    ErrorCode = "QUALITY_ASSESSMENT_FAILED"
	CodeSessionExpired   ErrorCode = "SESSION_EXPIRED"
	CodeStageNotReady    ErrorCode = "STAGE_NOT_READY"
)

// Error is a classified engine failure. Messages carry enough of the
// offending input to be self-diagnosing (which field was missing, which
// id was unknown) without a second lookup.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a classified error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies an underlying error while preserving it for
// diagnostics via Unwrap.
func WrapError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Validation is shorthand for a VALIDATION_FAILED error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidationFailed, Message: msg}
}

// NotFound is shorthand for SESSION_NOT_FOUND.
func NotFound(sessionID string) *Error {
	return &Error{Code: CodeSessionNotFound, Message: fmt.Sprintf("no session with id %q", sessionID)}
}

// CodeOf extracts the error code from err, or "" if err carries none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err is classified with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
