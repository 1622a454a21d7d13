// cmd/list/list.go

package list

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

// ListCmd enumerates the logical secret names under the configured prefix.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored secret names (admin role)",
	Long: `Authenticate as the admin role and print the logical names stored under
the configured mount and prefix, one per line. Values are never fetched.`,
	Args: cobra.NoArgs,
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		// Armed before login so a signal never strands a live token.
		handler := claw_cli.NewSignalHandler(rc.Ctx)
		defer handler.Stop()

		sess, err := vault.Login(rc, cfg, vault.RoleAdmin)
		if err != nil {
			return claw_err.NewAuthError("vault authentication failed", err)
		}
		handler.RegisterCleanup(func() error { return sess.Revoke(rc) })
		defer sess.Revoke(rc)

		loc := secrets.Location{Mount: cfg.SecretMount, Prefix: cfg.SecretPrefix}
		names, err := secrets.ListNames(rc, sess, loc)
		if err != nil {
			return err
		}

		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}),
}
