// pkg/claw_err/classification.go
//
// Error classification with stable exit codes. The run command's contract is
// that callers can distinguish authentication failures, partial secret
// fetches, and the task's own nonzero exit without parsing log text.

package claw_err

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory classifies errors for exit-code mapping.
type ErrorCategory int

const (
	// CategorySystem - OS/filesystem issues (exit 1)
	CategorySystem ErrorCategory = iota
	// CategoryValidation - input validation failures (exit 2)
	CategoryValidation
	// CategoryInternal - bugs in clawsec itself (exit 3)
	CategoryInternal
	// CategoryAuth - vault authentication rejected or unavailable (exit 4)
	CategoryAuth
	// CategoryPartialFetch - some requested secrets could not be resolved (exit 5)
	CategoryPartialFetch
	// CategoryUser - user cancelled/interrupted (exit 130)
	CategoryUser
)

// ClassifiedError wraps an error with a category and remediation hints.
type ClassifiedError struct {
	Category    ErrorCategory
	Message     string
	Cause       error
	Remediation []string
}

func (e *ClassifiedError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != nil && e.Cause.Error() != e.Message {
		sb.WriteString(fmt.Sprintf("\n\nCause: %v", e.Cause))
	}
	if len(e.Remediation) > 0 {
		sb.WriteString("\n\nHow to fix:")
		for i, step := range e.Remediation {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}
	return sb.String()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the process exit code for this category.
func (e *ClassifiedError) ExitCode() int {
	switch e.Category {
	case CategoryUser:
		return 130
	case CategoryValidation:
		return 2
	case CategoryInternal:
		return 3
	case CategoryAuth:
		return 4
	case CategoryPartialFetch:
		return 5
	default:
		return 1
	}
}

// TaskExitError carries the wrapped task's own exit code so `clawsec run`
// can propagate it unchanged.
type TaskExitError struct {
	Code int
	Cmd  string
}

func (e *TaskExitError) Error() string {
	return fmt.Sprintf("task %q exited with code %d", e.Cmd, e.Code)
}

// GetExitCode extracts the exit code from any error. Returns 0 for nil and
// for expected user errors, 1 for everything unclassified.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var task *TaskExitError
	if errors.As(err, &task) {
		return task.Code
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.ExitCode()
	}

	if IsExpectedUserError(err) {
		return 0
	}

	return 1
}

// NewAuthError classifies a vault authentication failure.
func NewAuthError(message string, cause error, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryAuth,
		Message:     message,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewPartialFetchError classifies a batch load that resolved only some names.
func NewPartialFetchError(message string, cause error) error {
	return &ClassifiedError{
		Category: CategoryPartialFetch,
		Message:  message,
		Cause:    cause,
	}
}

// NewValidationError creates an error for input validation failures.
func NewValidationError(message string, remediation ...string) error {
	return &ClassifiedError{
		Category:    CategoryValidation,
		Message:     message,
		Remediation: remediation,
	}
}
