// pkg/claw_err/expected.go

package claw_err

import (
	"context"
	"errors"

	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
)

// UserError marks failures the operator caused and can fix (bad flag, missing
// config). They are logged as warnings and do not fail the process.
type UserError struct {
	Err error
}

func (e *UserError) Error() string {
	return shared.SanitizeForLogging(e.Err.Error())
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewExpectedError wraps err as a UserError. Returns nil for nil.
func NewExpectedError(_ context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &UserError{Err: err}
}

// IsExpectedUserError reports whether err (or anything it wraps) is a
// UserError.
func IsExpectedUserError(err error) bool {
	if err == nil {
		return false
	}
	var ue *UserError
	return errors.As(err, &ue)
}
