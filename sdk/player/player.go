// Package player plays Standard MIDI Files on a MIDI output.
package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leandrodaf/midiplay/internal/dispatch"
	"github.com/leandrodaf/midiplay/internal/pacing"
	"github.com/leandrodaf/midiplay/internal/shutdown"
	"github.com/leandrodaf/midiplay/internal/smffile"
	"github.com/leandrodaf/midiplay/internal/tempo"
	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Player paces songs onto an output sink.
type Player struct {
	options   contracts.PlayerOptions
	clockOpts []pacing.Option
}

// New creates a player with the specified options.
//
// opts ...contracts.Option: A variadic list of option functions to customize playback.
//
// Returns:
//   - *Player: A player ready to play songs.
//   - error: An error if an option holds an unusable value.
func New(opts ...contracts.Option) (*Player, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Player{options: options}, nil
}

// Logger returns the logger used by the player.
func (p *Player) Logger() contracts.Logger {
	return p.options.Logger
}

// NewOutputClient creates an output client sharing the player's options.
func (p *Player) NewOutputClient() (contracts.OutputClient, error) {
	options := p.options
	cfg := *options.OutputConfig
	options.OutputConfig = &cfg
	return newClient(&options)
}

// PlayFile loads the file at path and plays it on sink.
func (p *Player) PlayFile(ctx context.Context, path string, sink contracts.OutputSink) error {
	song, err := smffile.LoadFile(path)
	if err != nil {
		return err
	}
	return p.Play(ctx, song, sink)
}

// Describe logs the header and the metadata of a song.
func (p *Player) Describe(song *contracts.Song) {
	smffile.Describe(song, p.options.Logger)
}

// Play sends the song to sink in real time. Every channel is silenced before
// playback starts (unless disabled) and again on every exit path, including
// cancellation and transmission failures.
//
// It returns contracts.ErrCancelled when ctx is done before the song ends.
func (p *Player) Play(ctx context.Context, song *contracts.Song, sink contracts.OutputSink) (err error) {
	log := p.options.Logger
	if song == nil {
		return errors.New("nil song")
	}

	model, err := tempo.New(song.PPQN)
	if err != nil {
		return err
	}
	if p.options.DefaultTempo > 0 {
		model.SetTempo(p.options.DefaultTempo)
	}

	clock := pacing.New(append([]pacing.Option{
		pacing.WithSlice(p.options.Slice),
		pacing.WithSpeedup(p.options.SpeedupNum, p.options.SpeedupDen),
	}, p.clockOpts...)...)

	d := dispatch.New(sink, model, clock,
		dispatch.WithLogger(log),
		dispatch.WithTrackOrder(p.options.TrackOrder),
		dispatch.WithDriftMode(p.options.DriftMode),
		dispatch.WithMetaHandler(p.options.MetaHandler),
	)

	if !p.options.SkipInitialStop {
		shutdown.Silence(sink, log)
	}

	log.Info("playback started",
		log.Field().Int("format", int(song.Format)),
		log.Field().Int("ppqn", int(song.PPQN)),
		log.Field().Int("tracks", len(song.Tracks)))
	start := clock.Now()

	defer func() {
		shutdown.Silence(sink, log)

		stats := d.Stats()
		fields := []contracts.Field{
			log.Field().Duration("elapsed", clock.Now().Sub(start).Round(time.Millisecond)),
			log.Field().Int("events", stats.Events),
			log.Field().Int("sent", stats.Sent),
		}
		switch {
		case err == nil:
			log.Info("playback finished", fields...)
		case errors.Is(err, contracts.ErrCancelled):
			log.Info("playback cancelled", fields...)
		default:
			log.Error("playback failed", append(fields, log.Field().Error("error", err))...)
		}
	}()

	if err = d.PlaySong(ctx, song); err != nil {
		if errors.Is(err, contracts.ErrCancelled) {
			return contracts.ErrCancelled
		}
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
