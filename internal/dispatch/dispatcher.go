// Package dispatch walks the events of a song, paces them with the tempo map
// and forwards the transmittable ones to an output sink.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/leandrodaf/midiplay/internal/tempo"
	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Pacer performs the waits between events.
type Pacer interface {
	WaitFor(ctx context.Context, total, elapsed int64) error
	Unpace(us int64) int64
	Now() time.Time
}

// Stats counts what a dispatcher did.
type Stats struct {
	Events       int // Events visited.
	Sent         int // Events written to the sink.
	Waits        int // Calls to Pacer.WaitFor.
	Metadata     int // Metadata events surfaced.
	TempoChanges int // Tempo events applied.
}

// Dispatcher plays tracks on one sink. It is not safe for concurrent use.
type Dispatcher struct {
	sink   contracts.OutputSink
	tempo  *tempo.Model
	pacer  Pacer
	logger contracts.Logger
	order  contracts.TrackOrder
	drift  contracts.DriftMode
	onMeta contracts.MetaHandler
	stats  Stats
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger logs every event at debug level.
func WithLogger(l contracts.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithTrackOrder selects how PlaySong schedules tracks.
func WithTrackOrder(order contracts.TrackOrder) Option {
	return func(d *Dispatcher) {
		d.order = order
	}
}

// WithDriftMode selects how elapsed time is measured before each wait.
func WithDriftMode(mode contracts.DriftMode) Option {
	return func(d *Dispatcher) {
		d.drift = mode
	}
}

// WithMetaHandler receives metadata events instead of sending them.
func WithMetaHandler(h contracts.MetaHandler) Option {
	return func(d *Dispatcher) {
		d.onMeta = h
	}
}

// New returns a dispatcher writing to sink.
func New(sink contracts.OutputSink, model *tempo.Model, pacer Pacer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		tempo: model,
		pacer: pacer,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns the counters accumulated so far.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// cursor is the position of a playback within a track or a merged song.
type cursor struct {
	tick       uint64    // Absolute tick of the last event reached.
	checkpoint time.Time // Origin (AbsoluteDrift) or end of the last wait (LocalDrift).
	due        int64     // File microseconds from the origin to the last event, AbsoluteDrift only.
}

func (d *Dispatcher) newCursor() *cursor {
	return &cursor{checkpoint: d.pacer.Now()}
}

// PlayTrack plays a single track to its end.
func (d *Dispatcher) PlayTrack(ctx context.Context, track contracts.Track) error {
	return d.playTrack(ctx, 0, track)
}

// PlaySong plays every track of the song in the configured order.
func (d *Dispatcher) PlaySong(ctx context.Context, song *contracts.Song) error {
	order := d.order
	if order == contracts.AutoOrder {
		order = contracts.Merged
		if song.Format == 2 {
			order = contracts.Sequential
		}
	}

	if order == contracts.Merged && len(song.Tracks) > 1 {
		return d.playMerged(ctx, song.Tracks)
	}
	for i, track := range song.Tracks {
		if err := d.playTrack(ctx, i, track); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) playTrack(ctx context.Context, trackIdx int, track contracts.Track) error {
	cur := d.newCursor()
	for i, ev := range track {
		if err := d.step(ctx, cur, ev.Delta, trackIdx, i, ev); err != nil {
			return err
		}
	}
	return nil
}

// step waits for the event's delta and then handles it.
func (d *Dispatcher) step(ctx context.Context, cur *cursor, delta uint32, trackIdx, idx int, ev contracts.Event) error {
	if ctx.Err() != nil {
		return contracts.ErrCancelled
	}
	d.stats.Events++

	cur.tick += uint64(delta)
	if delta > 0 {
		if err := d.wait(ctx, cur, delta); err != nil {
			return err
		}
	}
	return d.handle(cur.tick, trackIdx, idx, ev)
}

func (d *Dispatcher) wait(ctx context.Context, cur *cursor, delta uint32) error {
	total, err := d.tempo.MicrosecondsFor(delta)
	if err != nil {
		return fmt.Errorf("tick %d: %w", cur.tick, err)
	}

	since := d.pacer.Now().Sub(cur.checkpoint).Microseconds()
	elapsed := since
	if d.drift == contracts.AbsoluteDrift {
		elapsed = d.pacer.Unpace(since) - cur.due
	}

	d.stats.Waits++
	if err := d.pacer.WaitFor(ctx, total, elapsed); err != nil {
		return err
	}

	if d.drift == contracts.AbsoluteDrift {
		cur.due += total
	} else {
		cur.checkpoint = d.pacer.Now()
	}
	return nil
}

func (d *Dispatcher) handle(tick uint64, trackIdx, idx int, ev contracts.Event) error {
	switch ev.Kind {
	case contracts.TempoChange:
		d.tempo.SetTempo(ev.Tempo)
		d.stats.TempoChanges++
		d.debug("tempo changed", tick, trackIdx, ev)
	case contracts.Metadata:
		d.stats.Metadata++
		d.debug("metadata", tick, trackIdx, ev)
		if d.onMeta != nil {
			d.onMeta(tick, ev)
		}
	case contracts.ChannelVoice, contracts.SysEx, contracts.Escape:
		if err := d.sink.Send(ev.Raw); err != nil {
			return &contracts.TransmissionError{
				Tick:   tick,
				Track:  trackIdx,
				Index:  idx,
				Event:  ev,
				Length: len(ev.Raw),
				Err:    err,
			}
		}
		d.stats.Sent++
		d.debug("sent", tick, trackIdx, ev)
	}
	return nil
}

func (d *Dispatcher) debug(msg string, tick uint64, trackIdx int, ev contracts.Event) {
	if d.logger == nil {
		return
	}
	d.logger.Debug(msg,
		d.logger.Field().Uint64("tick", tick),
		d.logger.Field().Int("track", trackIdx),
		d.logger.Field().String("event", ev.String()))
}
