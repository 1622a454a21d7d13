// pkg/claw_cli/signals_test.go

package claw_cli

import (
	"context"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestRunCleanup_LIFOOrder(t *testing.T) {
	h := NewSignalHandler(context.Background())
	defer h.Stop()

	var order []string
	h.RegisterCleanup(func() error { order = append(order, "revoke-session"); return nil })
	h.RegisterCleanup(func() error { order = append(order, "zero-cache"); return nil })

	h.runCleanup()

	// Mirrors defer: the cache registered last is cleared before the
	// session it depends on is revoked.
	assert.Equal(t, []string{"zero-cache", "revoke-session"}, order)
}

func TestRunCleanup_RunsOnce(t *testing.T) {
	h := NewSignalHandler(context.Background())
	defer h.Stop()

	calls := 0
	h.RegisterCleanup(func() error { calls++; return nil })

	h.runCleanup()
	h.runCleanup()

	assert.Equal(t, 1, calls)
}

func TestRunCleanup_ContinuesPastFailures(t *testing.T) {
	h := NewSignalHandler(context.Background())
	defer h.Stop()

	var order []string
	h.RegisterCleanup(func() error { order = append(order, "first"); return nil })
	h.RegisterCleanup(func() error {
		order = append(order, "failing")
		return cerr.New("revoke failed")
	})

	h.runCleanup()

	assert.Equal(t, []string{"failing", "first"}, order)
}

func TestRegisterCleanup_BeforeSessionExists(t *testing.T) {
	// A handler armed before login must accept registrations added as
	// credentials materialize, and an empty handler must be safe.
	h := NewSignalHandler(context.Background())
	defer h.Stop()

	h.runCleanup()

	h2 := NewSignalHandler(context.Background())
	defer h2.Stop()
	revoked := false
	h2.RegisterCleanup(func() error { revoked = true; return nil })
	h2.runCleanup()
	assert.True(t, revoked)
}

func TestStop_CancelsContext(t *testing.T) {
	h := NewSignalHandler(context.Background())

	select {
	case <-h.Context().Done():
		t.Fatal("context cancelled before Stop")
	default:
	}

	h.Stop()

	select {
	case <-h.Context().Done():
	default:
		t.Fatal("context not cancelled after Stop")
	}
}
