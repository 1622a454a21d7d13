// cmd/get/get.go

package get

import (
	"fmt"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_err"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/secrets"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	"github.com/spf13/cobra"
)

var asEnv bool

// GetCmd fetches one secret under a single-use agent session and prints it.
var GetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Fetch one secret to stdout",
	Long: `Authenticate as the agent role, fetch a single secret under the fixed
prefix, print it, and revoke the session. With --env the output is an
export line using the environment naming convention.`,
	Args: cobra.ExactArgs(1),
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		// Armed before login so a signal never strands a live token.
		handler := claw_cli.NewSignalHandler(rc.Ctx)
		defer handler.Stop()

		sess, err := vault.Login(rc, cfg, vault.RoleAgent)
		if err != nil {
			return claw_err.NewAuthError("vault authentication failed", err)
		}
		handler.RegisterCleanup(func() error { return sess.Revoke(rc) })
		defer sess.Revoke(rc)

		loc := secrets.Location{Mount: cfg.SecretMount, Prefix: cfg.SecretPrefix}
		val, err := secrets.Fetch(rc, sess, loc, args[0])
		if err != nil {
			return err
		}
		defer val.Zero()

		if asEnv {
			fmt.Printf("export %s=%q\n", secrets.EnvName(args[0]), val.String())
		} else {
			fmt.Println(val.String())
		}
		return nil
	}),
}

func init() {
	GetCmd.Flags().BoolVar(&asEnv, "env", false, "Print as a shell export line")
}
