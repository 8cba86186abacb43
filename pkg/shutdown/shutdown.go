package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"chatterbox/pkg/logger"
)

// SetupSignalHandler installs handlers for SIGINT/SIGTERM and returns a
// cancellable context. The returned context is cancelled when either signal
// arrives; use the cancel function to stop watching.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigc:
			logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigc)
	}()

	return ctx, cancel
}

// Hooks is an explicit shutdown callback list. The composing application
// registers cleanup work (flushing the session, stopping schedulers) and
// runs the hooks exactly once when the process is going down.
type Hooks struct {
	mu    sync.Mutex
	fns   []func()
	names []string
	done  bool
}

// Register adds a named hook. Hooks run in registration order.
func (h *Hooks) Register(name string, fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.names = append(h.names, name)
	h.fns = append(h.fns, fn)
}

// Run executes all registered hooks once. Subsequent calls are no-ops, so
// both a signal path and a deferred path may invoke it safely.
func (h *Hooks) Run() {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return
	}
	h.done = true
	fns, names := h.fns, h.names
	h.mu.Unlock()

	for i, fn := range fns {
		logger.Info("shutdown_hook", "name", names[i])
		fn()
	}
}
