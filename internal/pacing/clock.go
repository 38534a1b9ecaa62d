// Package pacing turns microsecond delays into cancellable wall-clock waits.
//
// Waits are cut into slices so that a stop request is observed within one
// slice, even when the gap between two events lasts several seconds.
package pacing

import (
	"context"
	"time"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

const (
	// DefaultSlice is the longest sleep between two cancellation checks.
	DefaultSlice = 10 * time.Millisecond
	// DefaultSpeedupNum and DefaultSpeedupDen play 1.1x faster than the file,
	// which offsets the per-event processing time measured on real devices.
	DefaultSpeedupNum = 11
	DefaultSpeedupDen = 10
)

// Sleeper blocks for d or until ctx is done, whichever comes first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Clock paces playback.
type Clock struct {
	slice   time.Duration
	num     int64
	den     int64
	sleeper Sleeper
	now     func() time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithSlice sets the longest uninterrupted sleep. Non-positive values are ignored.
func WithSlice(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.slice = d
		}
	}
}

// WithSpeedup sets the playback speed as num/den of the file speed.
// Non-positive values are ignored.
func WithSpeedup(num, den int64) Option {
	return func(c *Clock) {
		if num > 0 && den > 0 {
			c.num, c.den = num, den
		}
	}
}

// WithSleeper replaces the timer based sleeper.
func WithSleeper(s Sleeper) Option {
	return func(c *Clock) {
		c.sleeper = s
	}
}

// WithNow replaces time.Now.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// New returns a Clock with a 10ms slice and a 1.1x speedup unless overridden.
func New(opts ...Option) *Clock {
	c := &Clock{
		slice:   DefaultSlice,
		num:     DefaultSpeedupNum,
		den:     DefaultSpeedupDen,
		sleeper: SleeperFunc(timerSleep),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WaitFor waits total-elapsed microseconds of file time. It returns at once
// when nothing remains, and contracts.ErrCancelled when ctx is done before or
// during the wait.
func (c *Clock) WaitFor(ctx context.Context, total, elapsed int64) error {
	remaining := total - elapsed
	if remaining <= 0 {
		return nil
	}

	wait := time.Duration(c.Pace(remaining)) * time.Microsecond
	for wait > 0 {
		if ctx.Err() != nil {
			return contracts.ErrCancelled
		}
		step := min(wait, c.slice)
		if err := c.sleeper.Sleep(ctx, step); err != nil {
			return contracts.ErrCancelled
		}
		wait -= step
		if ctx.Err() != nil {
			return contracts.ErrCancelled
		}
	}
	return nil
}

// Pace converts file microseconds to wall microseconds.
func (c *Clock) Pace(us int64) int64 {
	return us * c.den / c.num
}

// Unpace converts wall microseconds to file microseconds.
func (c *Clock) Unpace(us int64) int64 {
	return us * c.num / c.den
}

// Now returns the current wall time.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Slice returns the longest uninterrupted sleep.
func (c *Clock) Slice() time.Duration {
	return c.slice
}

func timerSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
