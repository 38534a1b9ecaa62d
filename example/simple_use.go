package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/leandrodaf/midiplay/sdk/player"
)

func main() {
	log := logger.NewStandardLogger()

	if len(os.Args) < 2 {
		fmt.Println("usage: simple_use song.mid")
		return
	}

	p, err := player.New(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMetaHandler(func(tick uint64, ev contracts.Event) {
			log.Info("Metadata", log.Field().Uint64("tick", tick), log.Field().String("text", ev.Text))
		}),
	)
	if err != nil {
		log.Error("Failed to initialize player", log.Field().Error("error", err))
		return
	}

	client, err := p.NewOutputClient()
	if err != nil {
		log.Error("Failed to initialize MIDI output", log.Field().Error("error", err))
		return
	}
	defer client.Close()

	devices, err := client.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = client.SelectDevice(0); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Playing... Press Ctrl+C to stop.")
	report(log, p.PlayFile(ctx, os.Args[1], client))
}

// report logs the playback result. A Ctrl+C stop is not a failure.
func report(log contracts.Logger, err error) {
	switch {
	case err == nil:
		log.Info("Playback finished")
	case errors.Is(err, contracts.ErrCancelled):
		log.Info("Playback stopped")
	default:
		log.Error("Playback failed", log.Field().Error("error", err))
	}
}
