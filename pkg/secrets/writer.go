// pkg/secrets/writer.go

package secrets

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Put writes or rotates a secret under the fixed prefix. Requires an admin
// session; the agent profile is rejected locally so a misconfigured caller
// fails fast rather than on server-side policy.
func Put(rc *claw_io.RuntimeContext, sess *vault.Session, loc Location, name, value string) error {
	log := otelzap.Ctx(rc.Ctx)

	if sess.Role() != vault.RoleAdmin {
		return cerr.Newf("write requires the admin role, session holds %q", sess.Role())
	}

	validated, err := ValidateName(name)
	if err != nil {
		return err
	}

	path := loc.DataPath(validated)
	_, err = sess.Client().Logical().WriteWithContext(rc.Ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			"value": value,
		},
	})
	if err != nil {
		return cerr.Wrapf(vault.ClassifyAPIError(err), "write secret %q", validated)
	}

	log.Info("Secret written", zap.String("name", validated), zap.String("path", path))
	return nil
}

// ListNames enumerates logical names under the prefix via the KV v2 metadata
// endpoint. Admin only.
func ListNames(rc *claw_io.RuntimeContext, sess *vault.Session, loc Location) ([]string, error) {
	if sess.Role() != vault.RoleAdmin {
		return nil, cerr.Newf("list requires the admin role, session holds %q", sess.Role())
	}

	secret, err := sess.Client().Logical().ListWithContext(rc.Ctx, loc.MetadataPath())
	if err != nil {
		return nil, cerr.Wrap(vault.ClassifyAPIError(err), "list secret names")
	}
	if secret == nil || secret.Data == nil {
		return []string{}, nil
	}

	keys, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return []string{}, nil
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if s, ok := k.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}
