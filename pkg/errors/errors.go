// Package errors provides structured, CLI-facing error handling for
// sskr. It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors, and a mapping from the
// core's categorical corerr.Kind taxonomy onto those exit codes.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mrz1836/sskr/internal/corerr"
)

// Exit codes for the sskr CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input (corerr.IllegalValue)
	ExitUse        = 3 // Session contract violation (corerr.IllegalUse)
	ExitNotFound   = 4 // Resource not found
	ExitExhausted  = 5 // Resource exhaustion (corerr.ResourceExhausted)
	ExitPermission = 6 // Permission denied
)

// SSKRError is the structured error type surfaced to the CLI boundary.
type SSKRError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *SSKRError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SSKRError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for SSKRError.
func (e *SSKRError) Is(target error) bool {
	var t *SSKRError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &SSKRError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &SSKRError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrIllegalUse = &SSKRError{
		Code:     "ILLEGAL_USE",
		Message:  "operation not valid in the current session state",
		ExitCode: ExitUse,
	}

	ErrResourceExhausted = &SSKRError{
		Code:     "RESOURCE_EXHAUSTED",
		Message:  "a working buffer could not be allocated",
		ExitCode: ExitExhausted,
	}

	ErrPermission = &SSKRError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	// Share/policy-specific errors.
	ErrInvalidShare = &SSKRError{
		Code:     "INVALID_SHARE",
		Message:  "malformed or unparsable share",
		ExitCode: ExitInput,
	}

	ErrInvalidPolicy = &SSKRError{
		Code:     "INVALID_POLICY",
		Message:  "invalid group/member threshold policy",
		ExitCode: ExitInput,
	}

	ErrIncompleteShares = &SSKRError{
		Code:     "INCOMPLETE_SHARES",
		Message:  "not enough shares were supplied to reconstruct the secret",
		ExitCode: ExitInput,
	}

	ErrIntegrityFailed = &SSKRError{
		Code:     "INTEGRITY_FAILED",
		Message:  "share integrity check failed",
		ExitCode: ExitInput,
	}

	ErrSessionMismatch = &SSKRError{
		Code:     "SESSION_MISMATCH",
		Message:  "share belongs to a different share set than the current session",
		ExitCode: ExitUse,
	}

	// File/bundle-specific errors.
	ErrBundleNotFound = &SSKRError{
		Code:     "BUNDLE_NOT_FOUND",
		Message:  "share bundle file not found",
		ExitCode: ExitNotFound,
	}

	ErrBundleCorrupted = &SSKRError{
		Code:     "BUNDLE_CORRUPTED",
		Message:  "share bundle is corrupted or unparsable",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &SSKRError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted file",
		ExitCode: ExitPermission,
	}

	// Config-specific errors.
	ErrConfigNotFound = &SSKRError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &SSKRError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	// Mnemonic-specific errors.
	ErrInvalidMnemonic = &SSKRError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &SSKRError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new SSKRError with the given code and message.
func New(code, message string) *SSKRError {
	return &SSKRError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// FromCore maps a corerr.Kind-categorized core error onto the CLI's
// sentinel/exit-code vocabulary, preserving the underlying error as
// Cause. Non-core errors are wrapped as ErrGeneral.
func FromCore(err error) error {
	if err == nil {
		return nil
	}

	var sentinel *SSKRError
	switch {
	case corerr.Is(err, corerr.IllegalValue):
		sentinel = ErrInvalidInput
	case corerr.Is(err, corerr.IllegalUse):
		sentinel = ErrIllegalUse
	case corerr.Is(err, corerr.ResourceExhausted):
		sentinel = ErrResourceExhausted
	default:
		sentinel = ErrGeneral
	}
	return &SSKRError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Cause:    err,
		ExitCode: sentinel.ExitCode,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var se *SSKRError
	if errors.As(err, &se) {
		return &SSKRError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &SSKRError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var se *SSKRError
	if errors.As(err, &se) {
		return &SSKRError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SSKRError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var se *SSKRError
	if errors.As(err, &se) {
		return &SSKRError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SSKRError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var se *SSKRError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *SSKRError
	if errors.As(err, &se) {
		return se.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
