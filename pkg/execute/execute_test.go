// pkg/execute/execute_test.go

package execute

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesOutput(t *testing.T) {
	out, err := Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"hello"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRun_NoCaptureReturnsEmpty(t *testing.T) {
	out, err := Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"ignored"},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_FailureAfterRetries(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), Options{
		Command: "false",
		Retries: 3,
		Delay:   10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond,
		"the delay must apply between attempts")
}

func TestRun_MissingBinary(t *testing.T) {
	_, err := Run(context.Background(), Options{Command: "clawsec-no-such-binary"})
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	assert.NoError(t, Execute(context.Background(), "true"))
	assert.Error(t, Execute(context.Background(), "false"))
}

func TestCommandExists(t *testing.T) {
	assert.True(t, CommandExists("sh"))
	assert.False(t, CommandExists("clawsec-no-such-binary"))
}
