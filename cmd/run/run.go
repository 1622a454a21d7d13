// cmd/run/run.go

package run

import (
	"errors"
	"os"
	"os/exec"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_err"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/secrets"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var (
	secretNames  []string
	envFile      string
	allowMissing bool
)

// RunCmd executes a task with brokered secrets injected as environment
// variables. One agent session covers the whole batch; it is revoked on
// every exit path, including signals.
var RunCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a task with brokered secrets in its environment",
	Long: `Authenticate as the agent role, fetch the configured secrets under one
session, execute the task with the secrets exposed as environment variables
(UPPER_SNAKE of the logical name), then revoke the session.

Exit codes: 0 success; 4 authentication failure; 5 partial fetch failure;
otherwise the task's own exit code, propagated unchanged.

Examples:
  clawsec run --secret anthropic-api-key -- ./gateway-task
  clawsec run --env-file task.env -- python sync.py`,
	Args: cobra.MinimumNArgs(1),
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		names := secretNames
		if len(names) == 0 {
			names = cfg.Secrets
		}

		// The handler must be armed before any token exists so that a
		// signal arriving between login and task start still revokes.
		handler := claw_cli.NewSignalHandler(rc.Ctx)
		defer handler.Stop()

		sess, err := vault.Login(rc, cfg, vault.RoleAgent)
		if err != nil {
			return claw_err.NewAuthError("vault authentication failed", err,
				"check the agent role_id/secret_id files",
				"check that the vault is unsealed: clawsec status")
		}
		handler.RegisterCleanup(func() error { return sess.Revoke(rc) })
		defer sess.Revoke(rc)

		loc := secrets.Location{Mount: cfg.SecretMount, Prefix: cfg.SecretPrefix}
		cache := secrets.Load(rc, sess, loc, names)
		handler.RegisterCleanup(func() error { return cache.Close(rc) })
		defer cache.Close(rc)

		if warn := cache.Warnings(); warn != nil && !allowMissing {
			return claw_err.NewPartialFetchError("some secrets could not be resolved", warn)
		}

		env := os.Environ()
		if envFile != "" {
			overlay, err := godotenv.Read(envFile)
			if err != nil {
				return cerr.Wrapf(err, "read env file %s", envFile)
			}
			for k, v := range overlay {
				env = append(env, k+"="+v)
			}
		}
		env = cache.Environ(env)

		logger.Info("Starting task",
			zap.String("command", args[0]),
			zap.Strings("secrets", cache.Names()))

		task := exec.CommandContext(handler.Context(), args[0], args[1:]...)
		task.Env = env
		task.Stdin = os.Stdin
		task.Stdout = os.Stdout
		task.Stderr = os.Stderr

		if err := task.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				// The task's exit code passes through unchanged.
				return &claw_err.TaskExitError{Code: exitErr.ExitCode(), Cmd: args[0]}
			}
			return cerr.Wrapf(err, "start task %q", args[0])
		}

		logger.Info("Task completed", zap.String("command", args[0]))
		return nil
	}),
}

func init() {
	RunCmd.Flags().StringSliceVar(&secretNames, "secret", nil, "Logical secret name to fetch (repeatable; defaults to config)")
	RunCmd.Flags().StringVar(&envFile, "env-file", "", "Additional .env file merged into the task environment")
	RunCmd.Flags().BoolVar(&allowMissing, "allow-missing", false, "Run the task even when some secrets did not resolve")
}
