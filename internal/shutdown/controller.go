// Package shutdown owns the stop request of a playback and the all-notes-off
// sequence that must reach the device on every exit path.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Controller carries the cancellation state of one playback. The state lives
// in its context: pacing and dispatch observe it through Context, the caller
// reads it back through Stopped and Err.
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a running controller. Cancelling parent stops it as well.
func New(parent context.Context) *Controller {
	ctx, cancel := context.WithCancel(parent)
	return &Controller{ctx: ctx, cancel: cancel}
}

// Stop flips the controller to stopped. Only the first call has an effect;
// it never blocks and may be called from any goroutine.
func (c *Controller) Stop() {
	c.cancel()
}

// Stopped reports whether a stop was requested.
func (c *Controller) Stopped() bool {
	return c.ctx.Err() != nil
}

// Err returns contracts.ErrCancelled once stopped, nil before.
func (c *Controller) Err() error {
	if c.Stopped() {
		return contracts.ErrCancelled
	}
	return nil
}

// Context is done once the controller is stopped.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// NotifyOn stops the controller when one of the signals arrives. The returned
// function unregisters the handler.
func (c *Controller) NotifyOn(signals ...os.Signal) (release func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)

	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			c.Stop()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
