// pkg/secrets/fetcher.go
//
// Secret resolution under the session's fixed path prefix. Name validation
// happens locally, before any request leaves the process: server-side policy
// is the second line of defense, not the only one.

package secrets

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound indicates the entry does not exist or is soft-deleted.
	ErrNotFound = errors.New("secret not found")

	// ErrForbidden indicates the session's capability profile lacks access.
	ErrForbidden = errors.New("secret access forbidden")

	// ErrInvalidName indicates the name failed local validation and no
	// request was sent.
	ErrInvalidName = errors.New("invalid secret name")
)

// ValidateName checks a logical secret name locally. Anything that could
// escape the fixed prefix (traversal, separators, absolute paths) is rejected
// here, before a request is constructed.
func ValidateName(name string) (string, error) {
	// Unicode normalization first: overlong or decomposed encodings must
	// not survive into path comparison.
	name = norm.NFC.String(name)
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.TrimSpace(name)

	if name == "" {
		return "", cerr.Wrap(ErrInvalidName, "empty name")
	}
	if strings.ContainsAny(name, "/\\") {
		return "", cerr.Wrapf(ErrInvalidName, "name %q contains a path separator", name)
	}
	if cleaned := filepath.Clean(name); cleaned != name || strings.Contains(cleaned, "..") {
		return "", cerr.Wrapf(ErrInvalidName, "name %q does not survive path cleaning", name)
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return "", cerr.Wrapf(ErrInvalidName, "name %q contains disallowed character %q", name, r)
	}
	return name, nil
}

// Location fixes the KV v2 mount and path prefix all operations run under.
// Deployments override both through config; the session's policy is the
// server-side counterpart of the same boundary.
type Location struct {
	Mount  string
	Prefix string
}

// DefaultLocation is the standard local deployment layout.
func DefaultLocation() Location {
	return Location{Mount: shared.SecretMount, Prefix: shared.SecretPrefix}
}

// DataPath returns the KV v2 data path for a validated name.
func (l Location) DataPath(name string) string {
	return fmt.Sprintf("%s/data/%s/%s", l.Mount, l.Prefix, name)
}

// MetadataPath returns the KV v2 metadata listing path for the prefix.
func (l Location) MetadataPath() string {
	return fmt.Sprintf("%s/metadata/%s", l.Mount, l.Prefix)
}

// Fetch resolves one secret name to its value under the location's prefix.
// The returned Value is owned by the caller, who is responsible for Zero.
func Fetch(rc *claw_io.RuntimeContext, sess *vault.Session, loc Location, name string) (*Value, error) {
	log := otelzap.Ctx(rc.Ctx)

	validated, err := ValidateName(name)
	if err != nil {
		log.Warn("Secret name rejected locally", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	path := loc.DataPath(validated)
	secret, err := sess.Client().Logical().ReadWithContext(rc.Ctx, path)
	if err != nil {
		return nil, mapReadError(err, validated)
	}
	if secret == nil || secret.Data == nil {
		return nil, cerr.Wrapf(ErrNotFound, "no entry at %s", path)
	}

	// KV v2 nests the payload under data; a nil inner map means the
	// current version is soft-deleted.
	inner, ok := secret.Data["data"].(map[string]interface{})
	if !ok || inner == nil {
		return nil, cerr.Wrapf(ErrNotFound, "entry at %s is deleted", path)
	}

	raw, ok := inner["value"].(string)
	if !ok {
		return nil, cerr.Wrapf(ErrNotFound, "entry at %s has no value field", path)
	}

	log.Debug("Secret fetched", zap.String("name", validated), zap.Int("length", len(raw)))
	return NewValue(raw), nil
}

func mapReadError(err error, name string) error {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return cerr.Wrapf(ErrNotFound, "secret %q", name)
		case http.StatusForbidden:
			return cerr.Wrapf(ErrForbidden, "secret %q", name)
		}
	}
	return cerr.Wrapf(vault.ClassifyAPIError(err), "read secret %q", name)
}
