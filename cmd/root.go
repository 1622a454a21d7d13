// cmd/root.go

package cmd

import (
	"fmt"
	"os"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_err"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Subcommands
	"github.com/venom444556/openclaw-secure-deploy/cmd/get"
	"github.com/venom444556/openclaw-secure-deploy/cmd/list"
	"github.com/venom444556/openclaw-secure-deploy/cmd/lockdown"
	"github.com/venom444556/openclaw-secure-deploy/cmd/put"
	"github.com/venom444556/openclaw-secure-deploy/cmd/restore"
	"github.com/venom444556/openclaw-secure-deploy/cmd/revoke"
	"github.com/venom444556/openclaw-secure-deploy/cmd/rotate"
	"github.com/venom444556/openclaw-secure-deploy/cmd/run"
	"github.com/venom444556/openclaw-secure-deploy/cmd/status"
)

// RootCmd is the base command for clawsec.
var RootCmd = &cobra.Command{
	Use:   "clawsec",
	Short: "Secret brokering and incident response for the OpenClaw gateway",
	Long: `clawsec brokers short-lived vault credentials to ephemeral gateway tasks
and drives the incident-response escalation ladder (seal, revoke OAuth,
stop consumers, block network) with its pointwise restore.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		return cmd.Help()
	}),
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	for _, subCmd := range []*cobra.Command{
		run.RunCmd,
		get.GetCmd,
		put.PutCmd,
		rotate.RotateCmd,
		list.ListCmd,
		revoke.RevokeCmd,
		lockdown.LockdownCmd,
		restore.RestoreCmd,
		status.StatusCmd,
	} {
		RootCmd.AddCommand(subCmd)
	}
}

// Execute runs the root command and maps the error to the exit-code
// contract: 0 on success, distinct codes for auth and partial-fetch
// failures, and the task's own code propagated unchanged.
func Execute() {
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}()

	RegisterCommands()

	if err := RootCmd.Execute(); err != nil {
		code := claw_err.GetExitCode(err)
		if code == 0 {
			logger.L().Warn("Completed with user error", zap.Error(err))
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
