// cmd/lockdown/lockdown.go

package lockdown

import (
	"fmt"
	"strings"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_cli"
	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	"github.com/venom444556/openclaw-secure-deploy/pkg/cmd_helpers"
	"github.com/venom444556/openclaw-secure-deploy/pkg/config"
	"github.com/venom444556/openclaw-secure-deploy/pkg/lockdown"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

var scenarioName string

// LockdownCmd runs a named response scenario. Default is the full ladder.
var LockdownCmd = &cobra.Command{
	Use:   "lockdown",
	Short: "Execute an incident response scenario",
	Long: `Run a lockdown scenario against the deployment. The default scenario
"full" seals the vault, revokes every OAuth connection, stops the consumer
containers, and blocks outbound network access, in that order. A failed step
is reported and the ladder continues; lockdown degrades toward safety rather
than aborting halfway.

Available scenarios: ` + strings.Join(lockdown.Names(), ", "),
	RunE: claw_cli.Wrap(func(rc *claw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		logger := otelzap.Ctx(rc.Ctx)

		scenario, err := lockdown.Lookup(scenarioName)
		if err != nil {
			return err
		}

		cfg, err := config.Load(rc)
		if err != nil {
			return err
		}

		ctrl, err := cmd_helpers.BuildController(rc, cfg)
		if err != nil {
			return err
		}

		logger.Warn("Executing lockdown scenario",
			zap.String("scenario", scenario.Name),
			zap.String("description", scenario.Description))

		report, err := scenario.Execute(rc, ctrl)
		if err != nil {
			return err
		}

		printReport(report)
		if n := report.Failed(); n > 0 {
			return cerr.Newf("%d lockdown step(s) failed; inspect the log and re-run", n)
		}
		return nil
	}),
}

func printReport(report *lockdown.Report) {
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
	s := report.State
	fmt.Printf("state: vault=%s oauth=%s consumers=%s network=%s\n",
		s.Vault, s.OAuth, s.Consumers, s.Network)
}

func init() {
	LockdownCmd.Flags().StringVar(&scenarioName, "scenario", "full", "Scenario to execute ("+strings.Join(lockdown.Names(), ", ")+")")
}
