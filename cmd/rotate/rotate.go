// cmd/rotate/rotate.go

package rotate

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

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
)

var valueLength int

// RotateCmd writes a freshly generated value over an existing secret. KV v2
// keeps the previous version; consumers pick up the new value on their next
// session.
var RotateCmd = &cobra.Command{
	Use:   "rotate <name>",
	Short: "Rotate a secret to a generated value (admin role)",
	Long: `Authenticate as the admin role and overwrite the named secret with a
newly generated random value. The new value is printed once so the operator
can update the upstream service; it is not stored anywhere else.`,
	Args: cobra.ExactArgs(1),
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		value, err := generateValue(valueLength)
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
		if err := secrets.Put(rc, sess, loc, args[0], value); err != nil {
			return err
		}

		logger.Info("Secret rotated", zap.String("name", args[0]))
		fmt.Println(value)
		return nil
	}),
}

func generateValue(length int) (string, error) {
	if length < 16 {
		return "", cerr.Newf("refusing to generate a value shorter than 16 bytes (got %d)", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", cerr.Wrap(err, "generate random value")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func init() {
	RotateCmd.Flags().IntVar(&valueLength, "length", 32, "Random value length in bytes before encoding")
}
