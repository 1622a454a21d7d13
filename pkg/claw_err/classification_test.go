// pkg/claw_err/classification_test.go

package claw_err

import (
	"context"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil is success", nil, 0},
		{"plain error", cerr.New("boom"), 1},
		{"auth failure", NewAuthError("vault authentication failed", cerr.New("403")), 4},
		{"partial fetch", NewPartialFetchError("2 of 3 secrets resolved", nil), 5},
		{"validation", NewValidationError("bad flag"), 2},
		{"internal", &ClassifiedError{Category: CategoryInternal, Message: "bug"}, 3},
		{"user interrupt", &ClassifiedError{Category: CategoryUser, Message: "interrupted"}, 130},
		{"task code propagates unchanged", &TaskExitError{Code: 7, Cmd: "deploy.sh"}, 7},
		{"task success propagates", &TaskExitError{Code: 0, Cmd: "deploy.sh"}, 0},
		{
			"wrapped task code still found",
			cerr.Wrap(&TaskExitError{Code: 42, Cmd: "x"}, "task failed"),
			42,
		},
		{
			"wrapped classification still found",
			cerr.Wrap(NewAuthError("auth", nil), "login"),
			4,
		},
		{
			"expected user error exits clean",
			NewExpectedError(context.Background(), cerr.New("missing config")),
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestClassifiedError_MessageIncludesRemediation(t *testing.T) {
	err := NewAuthError("vault authentication failed", cerr.New("permission denied"),
		"check /etc/clawsec/agent/role_id",
		"verify the approle is enabled")

	msg := err.Error()
	assert.Contains(t, msg, "vault authentication failed")
	assert.Contains(t, msg, "permission denied")
	assert.Contains(t, msg, "1. check /etc/clawsec/agent/role_id")
	assert.Contains(t, msg, "2. verify the approle is enabled")
}

func TestUserError_SanitizesMessage(t *testing.T) {
	err := NewExpectedError(context.Background(),
		cerr.New("login failed with secret_id=s.AbCdEfGhIjKlMnOpQrStUvWx"))

	assert.NotContains(t, err.Error(), "AbCdEfGhIjKlMnOpQrStUvWx")
	assert.Contains(t, err.Error(), "[REDACTED]")
	assert.True(t, IsExpectedUserError(err))
}

func TestNewExpectedError_NilStaysNil(t *testing.T) {
	assert.NoError(t, NewExpectedError(context.Background(), nil))
	assert.False(t, IsExpectedUserError(nil))
}
