// pkg/claw_cli/signals.go
//
// Signal handling for commands that hold live secrets. Cleanup funcs run on
// SIGINT/SIGTERM so a session is revoked and cached values are zeroed even
// when the task is interrupted.

package claw_cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CleanupFunc performs one cleanup operation during shutdown.
type CleanupFunc func() error

// SignalHandler manages graceful shutdown on signals.
type SignalHandler struct {
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.Mutex
	cleanupFuncs []CleanupFunc
	sigChan      chan os.Signal
	once         sync.Once
}

// NewSignalHandler starts listening for SIGINT and SIGTERM.
func NewSignalHandler(ctx context.Context) *SignalHandler {
	ctx, cancel := context.WithCancel(ctx)
	h := &SignalHandler{
		ctx:     ctx,
		cancel:  cancel,
		sigChan: make(chan os.Signal, 1),
	}
	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)
	go h.handleSignals()
	return h
}

// RegisterCleanup adds a cleanup function. Cleanup runs in REVERSE order
// (LIFO), mirroring defer.
func (h *SignalHandler) RegisterCleanup(cleanup CleanupFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cleanupFuncs = append(h.cleanupFuncs, cleanup)
}

// Context returns the cancellable context; operations watch it for shutdown.
func (h *SignalHandler) Context() context.Context {
	return h.ctx
}

// Stop detaches the handler without running cleanup (the normal exit path
// already ran its defers).
func (h *SignalHandler) Stop() {
	signal.Stop(h.sigChan)
	h.cancel()
}

func (h *SignalHandler) handleSignals() {
	logger := otelzap.Ctx(h.ctx)

	select {
	case sig := <-h.sigChan:
		logger.Warn("Signal received, running cleanup", zap.String("signal", sig.String()))
		h.runCleanup()
		h.cancel()
		// Give lagging log writers a moment, then exit with the
		// conventional interrupted code.
		time.Sleep(100 * time.Millisecond)
		os.Exit(130)
	case <-h.ctx.Done():
	}
}

func (h *SignalHandler) runCleanup() {
	h.once.Do(func() {
		h.mu.Lock()
		funcs := make([]CleanupFunc, len(h.cleanupFuncs))
		copy(funcs, h.cleanupFuncs)
		h.mu.Unlock()

		logger := otelzap.Ctx(h.ctx)
		for i := len(funcs) - 1; i >= 0; i-- {
			if err := funcs[i](); err != nil {
				logger.Warn("Cleanup step failed", zap.Int("index", i), zap.Error(err))
			}
		}
	})
}
