// cmd/status/status.go

package status

import (
	"fmt"
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/consumers"
	"github.com/venom444556/openclaw-secure-deploy/pkg/lockdown"
	"github.com/venom444556/openclaw-secure-deploy/pkg/nango"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// StatusCmd reports the current state of every surface a lockdown touches.
// Each probe is independent; an unreachable sub-system is reported as such
// instead of aborting the whole report.
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report vault, OAuth, consumer, and lockdown state",
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		printVaultStatus(rc, cfg)
		printOAuthStatus(rc, cfg)
		printConsumerStatus(rc, cfg)
		printLockdownState(cfg)

		logger.Info("Status report complete", zap.String("vault_addr", cfg.VaultAddr))
		return nil
	}),
}

func printVaultStatus(rc *claw_io.RuntimeContext, cfg *config.Config) {
	client, err := vault.NewClient(rc, vault.Options{Address: cfg.VaultAddr, CACert: cfg.VaultCACert})
	if err != nil {
		fmt.Printf("vault:     unavailable (%v)\n", err)
		return
	}
	health, err := vault.Health(rc, client)
	if err != nil {
		fmt.Printf("vault:     unreachable (%v)\n", err)
		return
	}
	switch {
	case !health.Initialized:
		fmt.Println("vault:     uninitialized")
	case health.Sealed:
		fmt.Println("vault:     SEALED")
	case health.Standby:
		fmt.Println("vault:     unsealed (standby)")
	default:
		fmt.Println("vault:     unsealed")
	}
}

func printOAuthStatus(rc *claw_io.RuntimeContext, cfg *config.Config) {
	proxy := nango.NewClient(cfg.NangoURL, cfg.NangoSecretKey)
	conns, err := proxy.ListConnections(rc.Ctx)
	if err != nil {
		fmt.Printf("oauth:     proxy unreachable (%v)\n", err)
		return
	}
	providers := make(map[string]int)
	for _, c := range conns {
		providers[c.ProviderConfigKey]++
	}
	if len(conns) == 0 {
		fmt.Println("oauth:     0 connections")
		return
	}
	parts := make([]string, 0, len(providers))
	for key, n := range providers {
		parts = append(parts, fmt.Sprintf("%s=%d", key, n))
	}
	fmt.Printf("oauth:     %d connections (%s)\n", len(conns), strings.Join(parts, ", "))
}

func printConsumerStatus(rc *claw_io.RuntimeContext, cfg *config.Config) {
	mgr, err := consumers.NewManager(rc.Ctx, cfg.Consumers)
	if err != nil {
		fmt.Printf("consumers: docker unavailable (%v)\n", err)
		return
	}
	if err := mgr.Ping(rc.Ctx); err != nil {
		fmt.Printf("consumers: docker unreachable (%v)\n", err)
		return
	}
	running, err := mgr.Running(rc)
	if err != nil {
		fmt.Printf("consumers: list failed (%v)\n", err)
		return
	}
	if len(running) == 0 {
		fmt.Println("consumers: none running")
		return
	}
	fmt.Printf("consumers: %d running (%s)\n", len(running), strings.Join(running, ", "))
}

func printLockdownState(cfg *config.Config) {
	store := lockdown.NewFileStore(cfg.LockdownStatePath)
	state, err := store.Load()
	if err != nil {
		fmt.Printf("lockdown:  state unreadable (%v)\n", err)
		return
	}
	fmt.Printf("lockdown:  vault=%s oauth=%s consumers=%s network=%s\n",
		state.Vault, state.OAuth, state.Consumers, state.Network)
	if state.FullyLockedDown() {
		fmt.Println("lockdown:  FULL LOCKDOWN active; run restore to recover")
	}
}
