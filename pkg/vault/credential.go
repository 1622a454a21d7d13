// pkg/vault/credential.go

package vault

import (
	"os"
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Credential is one AppRole pair. It is held transiently in memory; the
// broker never writes it anywhere.
type Credential struct {
	RoleID   string
	SecretID string
}

// ReadCredentialFiles loads an AppRole pair from disk. A SecretID stored as
// a response-wrapping token (s.-prefixed) is unwrapped against the given
// client before use.
func ReadCredentialFiles(rc *claw_io.RuntimeContext, client *api.Client, paths shared.AppRoleFilePaths) (Credential, error) {
	log := otelzap.Ctx(rc.Ctx)

	roleIDBytes, err := os.ReadFile(paths.RoleID)
	if err != nil {
		log.Error("Failed to read role_id from disk",
			zap.String("path", paths.RoleID), zap.Error(err))
		return Credential{}, cerr.Wrap(err, "read credential from disk")
	}
	roleID := strings.TrimSpace(string(roleIDBytes))

	secretIDBytes, err := os.ReadFile(paths.SecretID)
	if err != nil {
		log.Error("Failed to read secret_id from disk",
			zap.String("path", paths.SecretID), zap.Error(err))
		return Credential{}, cerr.Wrap(err, "read credential from disk")
	}
	secretIDRaw := strings.TrimSpace(string(secretIDBytes))

	if strings.HasPrefix(secretIDRaw, "s.") || strings.HasPrefix(secretIDRaw, "hvs.") {
		if client == nil {
			return Credential{}, cerr.New("cannot unwrap credential: vault client is nil")
		}
		log.Debug("Detected wrapped SecretID token, unwrapping")
		secret, err := client.Logical().UnwrapWithContext(rc.Ctx, secretIDRaw)
		if err != nil {
			return Credential{}, cerr.Wrap(ClassifyAPIError(err), "unwrap credential")
		}
		if secret == nil || secret.Data == nil {
			return Credential{}, cerr.New("unwrapped credential is empty")
		}
		sid, ok := secret.Data["secret_id"].(string)
		if !ok {
			return Credential{}, cerr.New("unwrapped credential is malformed")
		}
		return Credential{RoleID: roleID, SecretID: sid}, nil
	}

	log.Warn("SecretID is stored in plaintext, consider response wrapping",
		zap.String("path", paths.SecretID))
	return Credential{RoleID: roleID, SecretID: secretIDRaw}, nil
}
