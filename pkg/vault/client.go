// pkg/vault/client.go

package vault

import (
	"os"
	"time"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/vault/api"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Options configures a Vault API client.
type Options struct {
	Address string
	CACert  string
	Timeout time.Duration
}

// NewClient creates a Vault API client. The address resolution order is
// explicit Options.Address, then VAULT_ADDR, then the local default.
func NewClient(rc *claw_io.RuntimeContext, opts Options) (*api.Client, error) {
	log := otelzap.Ctx(rc.Ctx)

	addr := opts.Address
	if addr == "" {
		addr = os.Getenv(shared.VaultAddrEnv)
	}
	if addr == "" {
		addr = shared.DefaultVaultAddr
		log.Warn("VAULT_ADDR not set, falling back to default", zap.String("addr", addr))
	}

	cfg := api.DefaultConfig()
	cfg.Address = addr
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	} else {
		cfg.Timeout = 10 * time.Second
	}

	// Pick up TLS material and proxy settings from the environment.
	if err := cfg.ReadEnvironment(); err != nil {
		log.Warn("Unable to read Vault env vars", zap.Error(err))
	}

	if os.Getenv("VAULT_CACERT") == "" && opts.CACert != "" {
		if _, statErr := os.Stat(opts.CACert); statErr == nil {
			if err := cfg.ConfigureTLS(&api.TLSConfig{CACert: opts.CACert}); err != nil {
				return nil, cerr.Wrap(err, "configure TLS")
			}
			log.Debug("TLS config applied", zap.String("ca_cert", opts.CACert))
		}
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, cerr.Wrap(err, "create vault client")
	}

	// The broker never inherits an ambient token: sessions carry their own.
	client.ClearToken()

	log.Debug("Vault client created", zap.String("addr", cfg.Address))
	return client, nil
}
