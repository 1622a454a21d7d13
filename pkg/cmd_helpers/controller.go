// pkg/cmd_helpers/controller.go

// Package cmd_helpers wires the revocation controller's dependencies from
// deployment config so the lockdown, restore, and status commands share one
// construction path.
package cmd_helpers

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/consumers"
	"github.com/venom444556/openclaw-secure-deploy/pkg/lockdown"
	"github.com/venom444556/openclaw-secure-deploy/pkg/nango"
	"github.com/venom444556/openclaw-secure-deploy/pkg/network"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// BuildController assembles the escalation ladder's real dependencies.
func BuildController(rc *claw_io.RuntimeContext, cfg *config.Config) (*lockdown.Controller, error) {
	log := otelzap.Ctx(rc.Ctx)

	client, err := vault.NewClient(rc, vault.Options{
		Address: cfg.VaultAddr,
		CACert:  cfg.VaultCACert,
	})
	if err != nil {
		return nil, cerr.Wrap(err, "create vault client")
	}

	sealer := lockdown.NewVaultSealer(client, func(rc *claw_io.RuntimeContext) (*vault.Session, error) {
		return vault.Login(rc, cfg, vault.RoleAdmin)
	})

	proxy := nango.NewClient(cfg.NangoURL, cfg.NangoSecretKey)

	mgr, err := consumers.NewManager(rc.Ctx, cfg.Consumers)
	if err != nil {
		// Docker being down must not block sealing and revocation:
		// continue with a manager that reports the failure per call.
		log.Warn("Docker unavailable, consumer steps will fail individually", zap.Error(err))
		return lockdown.NewController(sealer, proxy, unavailableConsumers{err}, network.NewManager(),
			lockdown.NewFileStore(cfg.LockdownStatePath)), nil
	}

	return lockdown.NewController(sealer, proxy, mgr, network.NewManager(),
		lockdown.NewFileStore(cfg.LockdownStatePath)), nil
}

type unavailableConsumers struct {
	err error
}

func (u unavailableConsumers) StopAll(rc *claw_io.RuntimeContext) error {
	return cerr.Wrap(u.err, "docker unavailable")
}

func (u unavailableConsumers) StartAll(rc *claw_io.RuntimeContext) error {
	return cerr.Wrap(u.err, "docker unavailable")
}
