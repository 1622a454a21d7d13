// pkg/vault/login.go

package vault

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	cerr "github.com/cockroachdb/errors"
)

// Login is the standard session entry point for call sites: build a client
// from deployment config, read the role's credential pair from disk, and
// authenticate. The caller owns the returned session and must revoke it on
// every exit path.
func Login(rc *claw_io.RuntimeContext, cfg *config.Config, role Role) (*Session, error) {
	client, err := NewClient(rc, Options{
		Address: cfg.VaultAddr,
		CACert:  cfg.VaultCACert,
	})
	if err != nil {
		return nil, cerr.Wrap(err, "create vault client")
	}

	cred, err := ReadCredentialFiles(rc, client, cfg.RolePaths(string(role)))
	if err != nil {
		return nil, cerr.Wrapf(err, "load %s credentials", role)
	}

	return Authenticate(rc, client, cred, role)
}
