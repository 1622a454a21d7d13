// pkg/lockdown/scenario.go
//
// Named response scenarios as a tagged variant table instead of string
// dispatch: adding a scenario means adding a row, not another case arm.

package lockdown

import (
	"sort"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	cerr "github.com/cockroachdb/errors"
)

// ScenarioKind tags the known response scenarios.
type ScenarioKind int

const (
	KindSeal ScenarioKind = iota
	KindRevokeOAuth
	KindStopConsumers
	KindBlockNetwork
	KindFullLockdown
)

// Scenario is one executable response playbook.
type Scenario struct {
	Kind        ScenarioKind
	Name        string
	Description string
	Execute     func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error)
}

var scenarios = map[string]Scenario{
	"seal": {
		Kind:        KindSeal,
		Name:        "seal",
		Description: "Seal the vault; all subsequent fetches fail until unsealed",
		Execute: func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error) {
			return c.Seal(rc)
		},
	},
	"revoke-oauth": {
		Kind:        KindRevokeOAuth,
		Name:        "revoke-oauth",
		Description: "Revoke every OAuth connection held by the proxy",
		Execute: func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error) {
			report, _, err := c.RevokeOAuth(rc, "")
			return report, err
		},
	},
	"stop-consumers": {
		Kind:        KindStopConsumers,
		Name:        "stop-consumers",
		Description: "Stop the containers that consume brokered secrets",
		Execute: func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error) {
			return c.StopConsumers(rc)
		},
	},
	"block-network": {
		Kind:        KindBlockNetwork,
		Name:        "block-network",
		Description: "Best-effort outbound network teardown",
		Execute: func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error) {
			return c.BlockNetwork(rc)
		},
	},
	"full": {
		Kind:        KindFullLockdown,
		Name:        "full",
		Description: "Seal, revoke all OAuth, stop consumers, then block network",
		Execute: func(rc *claw_io.RuntimeContext, c *Controller) (*Report, error) {
			return c.FullLockdown(rc)
		},
	},
}

// Lookup resolves a scenario by name.
func Lookup(name string) (Scenario, error) {
	s, ok := scenarios[name]
	if !ok {
		return Scenario{}, cerr.Newf("unknown scenario %q (known: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
