// cmd/restore/restore.go

package restore

import (
	"fmt"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/cmd_helpers"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var unsealKeys []string

// RestoreCmd reverses a lockdown pointwise. OAuth connections stay revoked;
// a deleted grant cannot be reconstructed from this side.
var RestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore service after a lockdown",
	Long: `Undo the reversible parts of a lockdown: unseal the vault with the
provided unseal keys, reopen outbound network access, and restart the consumer
containers. Revoked OAuth connections are never reinstated; each integration
must be re-authorized through the proxy by an operator.`,
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		ctrl, err := cmd_helpers.BuildController(rc, cfg)
		if err != nil {
			return err
		}

		report, err := ctrl.Restore(rc, unsealKeys)
		if err != nil {
			return err
		}

		for _, step := range report.Steps {
			switch {
			case step.Err != nil:
				fmt.Printf("FAILED  %-16s %v\n", step.Step, step.Err)
			case step.Note != "":
				fmt.Printf("ok      %-16s %s\n", step.Step, step.Note)
			default:
				fmt.Printf("ok      %s\n", step.Step)
			}
		}

		if n := report.Failed(); n > 0 {
			return cerr.Newf("%d restore step(s) failed", n)
		}
		return nil
	}),
}

func init() {
	RestoreCmd.Flags().StringSliceVar(&unsealKeys, "unseal-key", nil, "Unseal key share (repeat for each share)")
}
