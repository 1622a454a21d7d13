// pkg/network/network.go

// Package network blocks and restores the gateway host's outbound network
// during incident response. Platform tooling varies, so every action is
// best-effort: a missing tool is a warning, not a failure.
package network

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/execute"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Manager toggles outbound network access.
type Manager struct{}

// NewManager returns a network manager for the current host.
func NewManager() *Manager {
	return &Manager{}
}

// Block tears down outbound access using whichever tooling exists, trying
// the tunnel first so the block also severs remote management paths last.
func (m *Manager) Block(rc *claw_io.RuntimeContext) error {
	log := otelzap.Ctx(rc.Ctx)
	applied := false

	if execute.CommandExists("tailscale") {
		if err := execute.Execute(rc.Ctx, "tailscale", "down"); err != nil {
			log.Warn("tailscale down failed", zap.Error(err))
		} else {
			log.Info("Tailscale tunnel downed")
			applied = true
		}
	}

	switch {
	case execute.CommandExists("ufw"):
		if err := execute.Execute(rc.Ctx, "ufw", "--force", "enable"); err != nil {
			log.Warn("ufw enable failed", zap.Error(err))
		}
		if err := execute.Execute(rc.Ctx, "ufw", "default", "deny", "outgoing"); err != nil {
			log.Warn("ufw deny outgoing failed", zap.Error(err))
		} else {
			log.Info("Outbound traffic denied via ufw")
			applied = true
		}
	case execute.CommandExists("iptables"):
		if err := execute.Execute(rc.Ctx, "iptables", "-P", "OUTPUT", "DROP"); err != nil {
			log.Warn("iptables OUTPUT DROP failed", zap.Error(err))
		} else {
			log.Info("Outbound traffic dropped via iptables")
			applied = true
		}
	default:
		log.Warn("No firewall tooling found (ufw/iptables), network block skipped")
	}

	if !applied {
		log.Warn("Network block made no effective change")
	}
	return nil
}

// Unblock restores outbound access, inverting whatever Block applied.
func (m *Manager) Unblock(rc *claw_io.RuntimeContext) error {
	log := otelzap.Ctx(rc.Ctx)

	switch {
	case execute.CommandExists("ufw"):
		if err := execute.Execute(rc.Ctx, "ufw", "default", "allow", "outgoing"); err != nil {
			log.Warn("ufw allow outgoing failed", zap.Error(err))
		} else {
			log.Info("Outbound traffic restored via ufw")
		}
	case execute.CommandExists("iptables"):
		if err := execute.Execute(rc.Ctx, "iptables", "-P", "OUTPUT", "ACCEPT"); err != nil {
			log.Warn("iptables OUTPUT ACCEPT failed", zap.Error(err))
		} else {
			log.Info("Outbound traffic restored via iptables")
		}
	default:
		log.Warn("No firewall tooling found, nothing to unblock")
	}

	if execute.CommandExists("tailscale") {
		if err := execute.Execute(rc.Ctx, "tailscale", "up"); err != nil {
			log.Warn("tailscale up failed", zap.Error(err))
		} else {
			log.Info("Tailscale tunnel restored")
		}
	}
	return nil
}
