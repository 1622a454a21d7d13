// cmd/put/put.go

package put

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_err"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/secrets"
	"github.com/venom444556/openclaw-secure-deploy/pkg/vault"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// PutCmd stores a secret under the fixed prefix. The value arrives on stdin
// so it never appears in shell history or the process table; on a terminal
// it is prompted for with echo disabled.
var PutCmd = &cobra.Command{
	Use:   "put <name>",
	Short: "Store a secret (admin role, value from stdin)",
	Long: `Authenticate as the admin role, write the value read from stdin to the
fixed prefix, and revoke the session. When stdin is a terminal the value
is prompted for without echo.

Example:
  printf '%s' "$API_KEY" | clawsec put anthropic-api-key`,
	Args: cobra.ExactArgs(1),
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		value, err := readValue(os.Stdin)
		if err != nil {
			return err
		}

		// Armed before login so a signal never strands a live token.
		handler := claw_cli.NewSignalHandler(rc.Ctx)
		defer handler.Stop()

		sess, err := vault.Login(rc, cfg, vault.RoleAdmin)
		if err != nil {
			return claw_err.NewAuthError("vault authentication failed", err,
				"check the admin role_id/secret_id files")
		}
		handler.RegisterCleanup(func() error { return sess.Revoke(rc) })
		defer sess.Revoke(rc)

		loc := secrets.Location{Mount: cfg.SecretMount, Prefix: cfg.SecretPrefix}
		if err := secrets.Put(rc, sess, loc, args[0], value); err != nil {
			return err
		}

		logger.Info("Secret stored", zap.String("name", args[0]))
		return nil
	}),
}

// readValue reads the secret value from stdin. On a terminal it prompts
// with echo disabled; otherwise it consumes the pipe to EOF. A read error
// before EOF fails the command rather than storing a truncated value.
func readValue(stdin *os.File) (string, error) {
	if term.IsTerminal(int(stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Secret value: ")
		raw, err := term.ReadPassword(int(stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", cerr.Wrap(err, "read value from terminal")
		}
		value := strings.TrimRight(string(raw), "\n")
		if value == "" {
			return "", cerr.New("no value entered")
		}
		return value, nil
	}

	return readPiped(stdin)
}

func readPiped(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", cerr.Wrap(err, "read value from stdin")
	}
	value := strings.TrimRight(string(raw), "\n")
	if value == "" {
		return "", cerr.New("no value on stdin")
	}
	return value, nil
}
