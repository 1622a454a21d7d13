// pkg/nango/revoke.go

package nango

import (
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Outcome records the result of revoking one connection.
type Outcome struct {
	Connection Connection
	Err        error
}

// RevocationReport summarizes a bulk revocation.
type RevocationReport struct {
	Outcomes []Outcome
}

// Succeeded counts connections that were revoked.
func (r *RevocationReport) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts connections that could not be revoked.
func (r *RevocationReport) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Summary aggregates per-item failures, nil when everything succeeded.
func (r *RevocationReport) Summary() error {
	var errs *multierror.Error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = multierror.Append(errs, cerr.Wrapf(o.Err,
				"connection %s (%s)", o.Connection.ConnectionID, o.Connection.ProviderConfigKey))
		}
	}
	return errs.ErrorOrNil()
}

// RevokeAll enumerates every connection and deletes each one independently.
// A failure on one connection never blocks the rest; every outcome is
// recorded individually and surfaced as a summary, not as an abort.
func (c *Client) RevokeAll(rc *claw_io.RuntimeContext) (*RevocationReport, error) {
	log := otelzap.Ctx(rc.Ctx)

	connections, err := c.ListConnections(rc.Ctx)
	if err != nil {
		return nil, cerr.Wrap(err, "enumerate connections for bulk revoke")
	}

	report := &RevocationReport{Outcomes: make([]Outcome, 0, len(connections))}
	for _, conn := range connections {
		err := c.RevokeConnection(rc.Ctx, conn.ConnectionID, conn.ProviderConfigKey)
		report.Outcomes = append(report.Outcomes, Outcome{Connection: conn, Err: err})
		if err != nil {
			log.Warn("Connection revocation failed, continuing",
				zap.String("connection_id", conn.ConnectionID),
				zap.String("provider", conn.ProviderConfigKey),
				zap.Error(err))
			continue
		}
		log.Info("Connection revoked",
			zap.String("connection_id", conn.ConnectionID),
			zap.String("provider", conn.ProviderConfigKey))
	}

	log.Info("Bulk revocation complete",
		zap.Int("revoked", report.Succeeded()),
		zap.Int("failed", report.Failed()))
	return report, nil
}

// RevokeByProvider deletes every connection for one provider key.
func (c *Client) RevokeByProvider(rc *claw_io.RuntimeContext, providerKey string) (*RevocationReport, error) {
	log := otelzap.Ctx(rc.Ctx)

	connections, err := c.ListConnections(rc.Ctx)
	if err != nil {
		return nil, cerr.Wrap(err, "enumerate connections")
	}

	report := &RevocationReport{}
	for _, conn := range connections {
		if conn.ProviderConfigKey != providerKey {
			continue
		}
		err := c.RevokeConnection(rc.Ctx, conn.ConnectionID, conn.ProviderConfigKey)
		report.Outcomes = append(report.Outcomes, Outcome{Connection: conn, Err: err})
		if err != nil {
			log.Warn("Connection revocation failed",
				zap.String("connection_id", conn.ConnectionID), zap.Error(err))
		}
	}

	if len(report.Outcomes) == 0 {
		log.Info("No connections matched provider", zap.String("provider", providerKey))
	}
	return report, nil
}
