// Package clierr defines structured error types for the task store and CLI.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error codes are uppercase and underscore-separated. They are stable across minor versions.
const (
	TaskNotFound    = "TASK_NOT_FOUND"
	ListNotFound    = "LIST_NOT_FOUND"
	AlreadyExists   = "ALREADY_EXISTS"
	CorruptDocument = "CORRUPT_DOCUMENT"
	InvalidOption   = "INVALID_OPTION"
	InvalidDeadline = "INVALID_DEADLINE"
	NotInCategory   = "NOT_IN_CATEGORY"
	AlreadyComplete = "ALREADY_COMPLETE"
	NoActiveList    = "NO_ACTIVE_LIST"
	InvalidInput    = "INVALID_INPUT"
	InvalidTaskID   = "INVALID_TASK_ID"
	InvalidListName = "INVALID_LIST_NAME"
	ListActive      = "LIST_ACTIVE"
	NoChanges       = "NO_CHANGES"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	InternalError   = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// IsNotFound reports whether err means a task or a list document is missing.
func IsNotFound(err error) bool {
	code := CodeOf(err)
	return code == TaskNotFound || code == ListNotFound
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
