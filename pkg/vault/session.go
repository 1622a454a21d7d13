// pkg/vault/session.go
//
// AppRole sessions are single-use: authenticate, perform one logical
// operation, revoke. Revoke must run on every exit path; a dangling valid
// token is a security defect.

package vault

import (
	"context"
	"sync"
	"time"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Role selects one of the two fixed capability profiles.
type Role string

const (
	// RoleAgent reads secrets under the fixed prefix, nothing else.
	RoleAgent Role = "agent"
	// RoleAdmin reads and writes under the prefix and may list metadata.
	RoleAdmin Role = "admin"
)

const (
	loginAttempts = 3
	loginBackoff  = 2 * time.Second
	revokeTimeout = 5 * time.Second
)

// Session is a live authenticated token bound to one capability profile.
// Capabilities are fixed at issuance; there is no renewal and no escalation.
type Session struct {
	client   *api.Client
	role     Role
	accessor string

	IssuedAt time.Time
	TTL      time.Duration
	MaxTTL   time.Duration

	mu      sync.Mutex
	revoked bool
}

// Authenticate performs an AppRole login and returns a live session.
// Unreachable vaults are retried a bounded number of times with backoff;
// sealed vaults and rejected credentials are surfaced immediately.
func Authenticate(rc *claw_io.RuntimeContext, client *api.Client, cred Credential, role Role) (*Session, error) {
	log := otelzap.Ctx(rc.Ctx)

	auth, err := approle.NewAppRoleAuth(cred.RoleID, &approle.SecretID{
		FromString: cred.SecretID,
	}, approle.WithMountPath(shared.AppRoleMountPath))
	if err != nil {
		return nil, cerr.Wrap(err, "create approle auth")
	}

	var secret *api.Secret
	var lastErr error
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		secret, err = client.Auth().Login(rc.Ctx, auth)
		if err == nil {
			break
		}

		lastErr = ClassifyAPIError(err)
		if !IsRetryable(lastErr) {
			log.Error("AppRole login failed", zap.String("role", string(role)), zap.Error(lastErr))
			return nil, cerr.Wrap(lastErr, "approle login")
		}

		log.Warn("Vault unreachable, retrying login",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", loginAttempts),
			zap.Error(lastErr))
		if attempt < loginAttempts {
			time.Sleep(time.Duration(attempt) * loginBackoff)
		}
	}
	if secret == nil {
		if lastErr == nil {
			lastErr = cerr.New("no auth info returned from approle login")
		}
		return nil, cerr.Wrapf(lastErr, "approle login failed after %d attempts", loginAttempts)
	}
	if secret.Auth == nil {
		return nil, cerr.New("no auth info returned from approle login")
	}

	client.SetToken(secret.Auth.ClientToken)

	sess := &Session{
		client:   client,
		role:     role,
		accessor: secret.Auth.Accessor,
		IssuedAt: time.Now(),
		TTL:      time.Duration(secret.Auth.LeaseDuration) * time.Second,
	}
	sess.lookupMaxTTL(rc)

	log.Info("Authenticated with Vault via AppRole",
		zap.String("role", string(role)),
		zap.String("token_accessor", sess.accessor),
		zap.Duration("ttl", sess.TTL))
	return sess, nil
}

// Role returns the capability profile fixed at issuance.
func (s *Session) Role() Role {
	return s.role
}

// Client exposes the authenticated API client for the session's single
// logical operation.
func (s *Session) Client() *api.Client {
	return s.client
}

// Accessor identifies the token without exposing it.
func (s *Session) Accessor() string {
	return s.accessor
}

// Revoked reports whether Revoke has already run.
func (s *Session) Revoked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked
}

// Revoke invalidates the session token via revoke-self. Idempotent, and
// deliberately detached from the caller's context so it still runs during
// shutdown after rc.Ctx is cancelled. A failed revoke is logged, never fatal:
// release-path failures must not abort the path toward the safest state.
func (s *Session) Revoke(rc *claw_io.RuntimeContext) error {
	s.mu.Lock()
	if s.revoked {
		s.mu.Unlock()
		return nil
	}
	s.revoked = true
	s.mu.Unlock()

	log := otelzap.Ctx(rc.Ctx)

	ctx, cancel := context.WithTimeout(context.Background(), revokeTimeout)
	defer cancel()

	err := s.client.Auth().Token().RevokeSelfWithContext(ctx, "")
	s.client.ClearToken()
	if err != nil {
		log.Warn("Token revoke-self failed, token will expire at TTL",
			zap.String("token_accessor", s.accessor),
			zap.Error(err))
		return cerr.Wrap(err, "revoke session token")
	}

	log.Info("Session token revoked", zap.String("token_accessor", s.accessor))
	return nil
}

// lookupMaxTTL fills in the renewal ceiling, best effort. Login responses
// carry only the lease duration.
func (s *Session) lookupMaxTTL(rc *claw_io.RuntimeContext) {
	secret, err := s.client.Auth().Token().LookupSelfWithContext(rc.Ctx)
	if err != nil || secret == nil || secret.Data == nil {
		return
	}
	raw, ok := secret.Data["explicit_max_ttl"]
	if !ok {
		return
	}
	if n, err := parseSeconds(raw); err == nil {
		s.MaxTTL = n
	}
}

func parseSeconds(raw interface{}) (time.Duration, error) {
	switch v := raw.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v) * time.Second, nil
	default:
		if num, ok := raw.(interface{ Int64() (int64, error) }); ok {
			n, err := num.Int64()
			if err != nil {
				return 0, err
			}
			return time.Duration(n) * time.Second, nil
		}
	}
	return 0, cerr.Newf("unsupported ttl type %T", raw)
}
