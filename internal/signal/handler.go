// Package signal cancels the command context when the process is
// interrupted, so key writes and batch signing stop at the next check.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Handler cancels its context on the first SIGINT or SIGTERM.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted atomic.Bool
	done        chan struct{}
	stopOnce    sync.Once
	sigChan     chan os.Signal
}

// NewHandler starts listening for interrupts. Call Stop when done.
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted reports whether a signal has been received.
func (h *Handler) Interrupted() bool {
	return h.interrupted.Load()
}

// Stop stops listening and cancels the context. It is safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) handleSignal() {
	h.interrupted.Store(true)
	h.cancel()
}

// listen runs until Stop. It keeps draining sigChan after the first
// signal so repeated Ctrl+C never blocks delivery.
func (h *Handler) listen() {
	for {
		select {
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
