// pkg/lockdown/controller.go

package lockdown

import (
	"fmt"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/nango"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Sealer abstracts the vault seal surface.
type Sealer interface {
	SealStatus(rc *claw_io.RuntimeContext) (bool, error)
	Seal(rc *claw_io.RuntimeContext) error
	Unseal(rc *claw_io.RuntimeContext, keys []string) error
}

// Revoker abstracts the OAuth proxy revocation surface.
type Revoker interface {
	RevokeAll(rc *claw_io.RuntimeContext) (*nango.RevocationReport, error)
	RevokeByProvider(rc *claw_io.RuntimeContext, providerKey string) (*nango.RevocationReport, error)
}

// ConsumerManager abstracts stopping and starting secret consumers.
type ConsumerManager interface {
	StopAll(rc *claw_io.RuntimeContext) error
	StartAll(rc *claw_io.RuntimeContext) error
}

// NetworkManager abstracts the outbound network toggle.
type NetworkManager interface {
	Block(rc *claw_io.RuntimeContext) error
	Unblock(rc *claw_io.RuntimeContext) error
}

// StepOutcome records one ladder step's result.
type StepOutcome struct {
	Step string
	Err  error
	Note string
}

// Report is the per-step outcome of a controller operation plus the state it
// left behind.
type Report struct {
	Steps []StepOutcome
	State State
}

// Failed counts steps that errored.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}

func (r *Report) record(step string, err error, note string) {
	r.Steps = append(r.Steps, StepOutcome{Step: step, Err: err, Note: note})
}

// Controller drives the escalation ladder over its four sub-systems.
type Controller struct {
	sealer    Sealer
	revoker   Revoker
	consumers ConsumerManager
	network   NetworkManager
	store     Store
}

// NewController wires the controller. Any dependency may be a test fake.
func NewController(sealer Sealer, revoker Revoker, consumers ConsumerManager, network NetworkManager, store Store) *Controller {
	return &Controller{
		sealer:    sealer,
		revoker:   revoker,
		consumers: consumers,
		network:   network,
		store:     store,
	}
}

// Seal seals the vault and records the sub-state. Idempotent.
func (c *Controller) Seal(rc *claw_io.RuntimeContext) (*Report, error) {
	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	report := &Report{}

	sealed, statusErr := c.sealer.SealStatus(rc)
	if statusErr == nil && sealed {
		report.record("seal", nil, "already sealed")
	} else {
		report.record("seal", c.sealer.Seal(rc), "")
	}

	if report.Steps[0].Err == nil {
		state.Vault = VaultSealed
	}
	report.State = state
	return report, c.store.Save(state)
}

// RevokeOAuth revokes one provider's connections, or all of them when
// providerKey is empty. Per-item failures are recorded in the revocation
// report; only a failure to enumerate counts as a step failure.
func (c *Controller) RevokeOAuth(rc *claw_io.RuntimeContext, providerKey string) (*Report, *nango.RevocationReport, error) {
	log := otelzap.Ctx(rc.Ctx)

	state, err := c.store.Load()
	if err != nil {
		return nil, nil, err
	}
	report := &Report{}

	var revocation *nango.RevocationReport
	var revErr error
	if providerKey == "" {
		revocation, revErr = c.revoker.RevokeAll(rc)
	} else {
		revocation, revErr = c.revoker.RevokeByProvider(rc, providerKey)
	}

	switch {
	case revErr != nil:
		report.record("revoke_oauth", revErr, "")
	case revocation.Failed() > 0:
		note := fmt.Sprintf("%d revoked, %d failed", revocation.Succeeded(), revocation.Failed())
		report.record("revoke_oauth", nil, note)
		log.Warn("Partial revocation", zap.String("summary", note))
	default:
		report.record("revoke_oauth", nil, fmt.Sprintf("%d revoked", revocation.Succeeded()))
	}

	// The sub-state only flips on a full sweep; a targeted revoke leaves
	// other providers' grants live.
	if providerKey == "" && revErr == nil {
		state.OAuth = OAuthRevoked
	}
	report.State = state
	return report, revocation, c.store.Save(state)
}

// StopConsumers stops the dependent containers.
func (c *Controller) StopConsumers(rc *claw_io.RuntimeContext) (*Report, error) {
	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	report := &Report{}
	report.record("stop_consumers", c.consumers.StopAll(rc), "")
	if report.Steps[0].Err == nil {
		state.Consumers = ConsumersStopped
	}
	report.State = state
	return report, c.store.Save(state)
}

// BlockNetwork tears down outbound network access.
func (c *Controller) BlockNetwork(rc *claw_io.RuntimeContext) (*Report, error) {
	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	report := &Report{}
	report.record("block_network", c.network.Block(rc), "")
	if report.Steps[0].Err == nil {
		state.Network = NetworkBlocked
	}
	report.State = state
	return report, c.store.Save(state)
}

// FullLockdown executes seal, revoke_oauth(all), stop_consumers, and
// block_network in that order. A failure in any step is logged and the
// ladder continues: the policy is to degrade toward maximum safety, not to
// roll back on partial failure.
func (c *Controller) FullLockdown(rc *claw_io.RuntimeContext) (*Report, error) {
	log := otelzap.Ctx(rc.Ctx)
	log.Warn("FULL LOCKDOWN initiated")

	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	report := &Report{}

	sealed, statusErr := c.sealer.SealStatus(rc)
	if statusErr == nil && sealed {
		report.record("seal", nil, "already sealed")
		state.Vault = VaultSealed
	} else if sealErr := c.sealer.Seal(rc); sealErr != nil {
		log.Error("Seal failed, continuing lockdown", zap.Error(sealErr))
		report.record("seal", sealErr, "")
	} else {
		report.record("seal", nil, "")
		state.Vault = VaultSealed
	}

	if revocation, revErr := c.revoker.RevokeAll(rc); revErr != nil {
		log.Error("OAuth revocation failed, continuing lockdown", zap.Error(revErr))
		report.record("revoke_oauth", revErr, "")
	} else {
		note := fmt.Sprintf("%d revoked, %d failed", revocation.Succeeded(), revocation.Failed())
		report.record("revoke_oauth", nil, note)
		state.OAuth = OAuthRevoked
	}

	if stopErr := c.consumers.StopAll(rc); stopErr != nil {
		log.Error("Consumer stop failed, continuing lockdown", zap.Error(stopErr))
		report.record("stop_consumers", stopErr, "")
	} else {
		report.record("stop_consumers", nil, "")
		state.Consumers = ConsumersStopped
	}

	if netErr := c.network.Block(rc); netErr != nil {
		log.Error("Network block failed", zap.Error(netErr))
		report.record("block_network", netErr, "")
	} else {
		report.record("block_network", nil, "")
		state.Network = NetworkBlocked
	}

	report.State = state
	saveErr := c.store.Save(state)

	log.Warn("Full lockdown complete",
		zap.Int("steps", len(report.Steps)),
		zap.Int("failed", report.Failed()),
		zap.Bool("fully_locked_down", state.FullyLockedDown()))
	return report, saveErr
}

// Restore is the pointwise inverse of FullLockdown: unseal (requires the
// operator's unseal keys), reopen the network, restart consumers. OAuth
// connections are NOT reinstated; a revoked grant cannot be reconstructed,
// so re-authorization through the proxy is an explicit external step.
func (c *Controller) Restore(rc *claw_io.RuntimeContext, unsealKeys []string) (*Report, error) {
	log := otelzap.Ctx(rc.Ctx)
	log.Info("Restore initiated")

	state, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	report := &Report{}

	if state.Vault == VaultSealed {
		if len(unsealKeys) == 0 {
			report.record("unseal", cerr.New("vault is sealed and no unseal keys were provided"), "")
		} else if unsealErr := c.sealer.Unseal(rc, unsealKeys); unsealErr != nil {
			log.Error("Unseal failed, continuing restore", zap.Error(unsealErr))
			report.record("unseal", unsealErr, "")
		} else {
			report.record("unseal", nil, "")
			state.Vault = VaultUnsealed
		}
	} else {
		report.record("unseal", nil, "already unsealed")
	}

	if netErr := c.network.Unblock(rc); netErr != nil {
		log.Error("Network unblock failed, continuing restore", zap.Error(netErr))
		report.record("unblock_network", netErr, "")
	} else {
		report.record("unblock_network", nil, "")
		state.Network = NetworkOpen
	}

	if startErr := c.consumers.StartAll(rc); startErr != nil {
		log.Error("Consumer start failed", zap.Error(startErr))
		report.record("start_consumers", startErr, "")
	} else {
		report.record("start_consumers", nil, "")
		state.Consumers = ConsumersRunning
	}

	if state.OAuth == OAuthRevoked {
		report.record("oauth", nil, "connections remain revoked; re-authorize through the proxy")
		log.Warn("OAuth connections are not restored automatically; re-authorization required")
	}

	report.State = state
	return report, c.store.Save(state)
}
