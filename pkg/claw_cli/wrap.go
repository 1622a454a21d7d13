// pkg/claw_cli/wrap.go

package claw_cli

import (
	"context"
	"os"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/logger"
	"github.com/venom444556/openclaw-secure-deploy/pkg/shared"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Wrap adapts a RuntimeContext-taking function to a cobra RunE, adding panic
// recovery, span lifecycle, and the vault_addr telemetry attribute.
func Wrap(fn func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		logger.InitFallback()

		rc := claw_io.NewContext(context.Background(), cmd.Name())
		defer rc.End(&err)

		defer func() {
			if r := recover(); r != nil {
				err = cerr.AssertionFailedf("panic: %v", r)
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		if addr := os.Getenv(shared.VaultAddrEnv); addr != "" {
			rc.Attributes["vault_addr"] = addr
		} else {
			rc.Attributes["vault_addr"] = shared.DefaultVaultAddr
		}

		return fn(rc, cmd, args)
	}
}
