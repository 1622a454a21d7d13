// pkg/vault/seal.go

package vault

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// SealStatus reports whether the vault is currently sealed.
func SealStatus(rc *claw_io.RuntimeContext, client *api.Client) (bool, error) {
	status, err := client.Sys().SealStatusWithContext(rc.Ctx)
	if err != nil {
		return false, cerr.Wrap(ClassifyAPIError(err), "check seal status")
	}
	return status.Sealed, nil
}

// Seal seals the vault. Idempotent: sealing an already-sealed vault reports
// success, because PUT /sys/seal needs a token the broker no longer has once
// the vault is sealed, and the desired end state already holds.
func Seal(rc *claw_io.RuntimeContext, client *api.Client) error {
	log := otelzap.Ctx(rc.Ctx)

	sealed, err := SealStatus(rc, client)
	if err != nil {
		return err
	}
	if sealed {
		log.Info("Vault already sealed")
		return nil
	}

	if err := client.Sys().SealWithContext(rc.Ctx); err != nil {
		return cerr.Wrap(ClassifyAPIError(err), "seal vault")
	}

	log.Warn("Vault sealed", zap.String("addr", client.Address()))
	return nil
}

// Unseal submits unseal key shares until the vault reports unsealed or the
// shares run out. The keys come from the operator; the broker cannot recover
// them itself.
func Unseal(rc *claw_io.RuntimeContext, client *api.Client, keys []string) error {
	log := otelzap.Ctx(rc.Ctx)

	if len(keys) == 0 {
		return cerr.New("no unseal keys provided")
	}

	for i, key := range keys {
		status, err := client.Sys().UnsealWithContext(rc.Ctx, key)
		if err != nil {
			return cerr.Wrapf(ClassifyAPIError(err), "submit unseal key %d", i+1)
		}
		log.Info("Unseal key accepted",
			zap.Int("progress", status.Progress),
			zap.Int("threshold", status.T),
			zap.Bool("sealed", status.Sealed))
		if !status.Sealed {
			log.Info("Vault unsealed")
			return nil
		}
	}

	return cerr.Newf("vault remains sealed after %d keys, threshold not met", len(keys))
}

// Health returns initialized/sealed/standby in one call, used by status
// reporting.
func Health(rc *claw_io.RuntimeContext, client *api.Client) (*api.HealthResponse, error) {
	health, err := client.Sys().HealthWithContext(rc.Ctx)
	if err != nil {
		return nil, cerr.Wrap(ClassifyAPIError(err), "vault health check")
	}
	return health, nil
}
