// pkg/vault/errors.go
//
// Error taxonomy for broker sessions. Callers branch on these sentinels:
// unreachable is retried with backoff, sealed and rejected credentials are
// surfaced immediately.

package vault

import (
	"errors"
	"net/http"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
)

var (
	// ErrUnreachable indicates the vault endpoint could not be reached.
	// Retryable with backoff.
	ErrUnreachable = errors.New("vault unreachable")

	// ErrSealed indicates the vault answered but is sealed. Not retryable
	// without an out-of-band unseal.
	ErrSealed = errors.New("vault sealed")

	// ErrInvalidCredential indicates the AppRole pair was rejected.
	// Retrying with the same credential cannot succeed.
	ErrInvalidCredential = errors.New("credential rejected")
)

// ClassifyAPIError maps a vault API failure onto the session error taxonomy.
// Response codes distinguish sealed (503 with a seal message) from plain
// connectivity failures, which arrive as transport errors without a response.
func ClassifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var respErr *api.ResponseError
	if !errors.As(err, &respErr) {
		// No HTTP response at all: DNS, refused connection, timeout.
		return cerr.WithHint(
			cerr.Wrapf(ErrUnreachable, "%v", err),
			"check VAULT_ADDR and that the vault container is running")
	}

	switch respErr.StatusCode {
	case http.StatusServiceUnavailable:
		if containsSealMessage(respErr.Errors) {
			return cerr.WithHint(
				cerr.Wrapf(ErrSealed, "vault returned %d", respErr.StatusCode),
				"unseal with `clawsec restore --unseal-key <key>`")
		}
		return cerr.Wrapf(ErrUnreachable, "vault returned %d", respErr.StatusCode)
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return cerr.Wrapf(ErrInvalidCredential, "vault returned %d: %s",
			respErr.StatusCode, strings.Join(respErr.Errors, "; "))
	default:
		return cerr.Wrapf(err, "vault request failed with status %d", respErr.StatusCode)
	}
}

// IsRetryable reports whether a classified error is worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

func containsSealMessage(msgs []string) bool {
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m), "sealed") {
			return true
		}
	}
	// Bare 503s from bao/vault are overwhelmingly seal-related in a
	// single-node deployment; treat them as sealed so operators get the
	// actionable hint.
	return len(msgs) == 0
}
