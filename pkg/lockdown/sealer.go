// pkg/lockdown/sealer.go

package lockdown

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
)

// LoginFunc authenticates a short-lived admin session for the one privileged
// call that needs it.
type LoginFunc func(rc *claw_io.RuntimeContext) (*vault.Session, error)

// VaultSealer adapts the vault package to the Sealer interface. Seal-status
// and unseal are unauthenticated endpoints; sealing itself authenticates an
// admin session on demand and revokes it immediately after, keeping the
// single-use token discipline even on the incident path.
type VaultSealer struct {
	client *api.Client
	login  LoginFunc
}

// NewVaultSealer wires a sealer over an unauthenticated client and an admin
// login function.
func NewVaultSealer(client *api.Client, login LoginFunc) *VaultSealer {
	return &VaultSealer{client: client, login: login}
}

func (v *VaultSealer) SealStatus(rc *claw_io.RuntimeContext) (bool, error) {
	return vault.SealStatus(rc, v.client)
}

func (v *VaultSealer) Seal(rc *claw_io.RuntimeContext) error {
	if v.login == nil {
		return cerr.New("sealing requires an admin login function")
	}

	sess, err := v.login(rc)
	if err != nil {
		return cerr.Wrap(err, "authenticate admin session for seal")
	}
	defer sess.Revoke(rc)

	return vault.Seal(rc, sess.Client())
}

func (v *VaultSealer) Unseal(rc *claw_io.RuntimeContext, keys []string) error {
	return vault.Unseal(rc, v.client, keys)
}
