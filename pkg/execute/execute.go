// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/venom444556/openclaw-secure-deploy/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Options configures a single command execution. Shell mode is deliberately
// absent; callers pass argv directly.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration
	Retries int
	Delay   time.Duration
	Logger  *zap.Logger
	Capture bool
}

const defaultExecTimeout = 30 * time.Second

// Run executes a command with bounded retries, structured logging, and a
// per-attempt timeout. Returns combined output when Capture is set.
func Run(ctx context.Context, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultExecTimeout
	}

	cmdStr := opts.Command + " " + strings.Join(opts.Args, " ")

	ctx, span := telemetry.Start(ctx, "execute.Run",
		attribute.String("command", opts.Command),
		attribute.String("args", strings.Join(opts.Args, " ")),
	)
	defer span.End()

	attempts := max(1, opts.Retries)

	var output string
	var err error
	for i := 1; i <= attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)

		cmd := exec.CommandContext(attemptCtx, opts.Command, opts.Args...)
		if opts.Dir != "" {
			cmd.Dir = opts.Dir
		}

		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf

		err = cmd.Run()
		cancel()
		output = buf.String()

		if err == nil {
			logger.Debug("Execution succeeded", zap.String("command", cmdStr), zap.Int("attempt", i))
			break
		}

		span.RecordError(err)
		logger.Warn("Execution failed",
			zap.Int("attempt", i),
			zap.String("command", cmdStr),
			zap.Error(err))

		if i < attempts {
			time.Sleep(opts.Delay)
		}
	}

	if err != nil {
		return output, cerr.Wrapf(err, "command %q failed after %d attempts", opts.Command, attempts)
	}

	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// Execute is the short form for fire-and-forget invocations.
func Execute(ctx context.Context, command string, args ...string) error {
	_, err := Run(ctx, Options{Command: command, Args: args})
	return err
}

// CommandExists reports whether a binary is resolvable on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
