// cmd/revoke/revoke.go

package revoke

import (
	"fmt"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/cmd_helpers"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var (
	revokeAll bool
	provider  string
)

// RevokeCmd tears down OAuth connections held by the proxy. Revocation is
// pointwise; a failed connection never stops the sweep over the rest.
var RevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke OAuth connections held by the integration proxy",
	Long: `Enumerate the OAuth connections stored in the integration proxy and
delete them. Use --all to revoke every connection or --provider to limit the
sweep to a single provider config key. Each deletion is attempted
independently; failures are reported at the end.`,
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		if !revokeAll && provider == "" {
			return cerr.New("specify --all or --provider <key>")
		}

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		ctrl, err := cmd_helpers.BuildController(rc, cfg)
		if err != nil {
			return err
		}

		report, oauthReport, err := ctrl.RevokeOAuth(rc, provider)
		if err != nil {
			return err
		}

		if oauthReport != nil {
			for _, out := range oauthReport.Outcomes {
				if out.Err != nil {
					fmt.Printf("FAILED  %s (%s): %v\n", out.Connection.ConnectionID, out.Connection.ProviderConfigKey, out.Err)
					continue
				}
				fmt.Printf("revoked %s (%s)\n", out.Connection.ConnectionID, out.Connection.ProviderConfigKey)
			}
			logger.Info("OAuth revocation sweep finished",
				zap.Int("succeeded", oauthReport.Succeeded()),
				zap.Int("failed", oauthReport.Failed()))
		}

		if report.Failed() > 0 {
			return cerr.New("OAuth revocation sweep could not enumerate connections")
		}
		if oauthReport != nil && oauthReport.Failed() > 0 {
			return cerr.Newf("%d connection(s) could not be revoked", oauthReport.Failed())
		}
		return nil
	}),
}

func init() {
	RevokeCmd.Flags().BoolVar(&revokeAll, "all", false, "Revoke every stored connection")
	RevokeCmd.Flags().StringVar(&provider, "provider", "", "Revoke only connections for this provider config key")
}
