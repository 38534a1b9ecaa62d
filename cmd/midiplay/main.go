// Command midiplay plays a Standard MIDI File on a MIDI output port.
//
//	midiplay [flags] song.mid
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/internal/shutdown"
	"github.com/leandrodaf/midiplay/internal/smffile"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/leandrodaf/midiplay/sdk/player"
)

const exitCancelled = 130

type config struct {
	port         int
	backend      string
	serial       string
	baud         int
	list         bool
	order        string
	drift        string
	slice        time.Duration
	speedup      string
	defaultTempo uint
	logLevel     string
	logFile      string
	meta         bool
	path         string
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("midiplay", flag.ContinueOnError)
	fs.IntVar(&cfg.port, "port", 0, "output device index (see -list)")
	fs.StringVar(&cfg.backend, "backend", "", "output backend: coremidi, winmm, rtmidi or serial (default: native)")
	fs.StringVar(&cfg.serial, "serial", "", "serial device path, implies -backend serial")
	fs.IntVar(&cfg.baud, "baud", 0, "serial baud rate (default 31250)")
	fs.BoolVar(&cfg.list, "list", false, "list output devices and exit")
	fs.StringVar(&cfg.order, "order", "auto", "track order: auto, merged or sequential")
	fs.StringVar(&cfg.drift, "drift", "absolute", "drift compensation: absolute or local")
	fs.DurationVar(&cfg.slice, "slice", 10*time.Millisecond, "longest sleep between stop checks")
	fs.StringVar(&cfg.speedup, "speedup", "11/10", "playback speedup as num/den")
	fs.UintVar(&cfg.defaultTempo, "default-tempo", 0, "tempo in µs per beat assumed until the file sets one")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.logFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&cfg.meta, "meta", false, "print the file metadata before playing")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: midiplay [flags] song.mid")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !cfg.list {
		if fs.NArg() != 1 {
			fs.Usage()
			return nil, errors.New("expected one MIDI file")
		}
		cfg.path = fs.Arg(0)
	}
	if cfg.serial != "" && cfg.backend == "" {
		cfg.backend = string(contracts.BackendSerial)
	}
	return cfg, nil
}

// options converts the flags into player options.
func (cfg *config) options(log contracts.Logger) ([]contracts.Option, error) {
	level := contracts.ParseLogLevel(strings.ToLower(cfg.logLevel))
	if level.String() != strings.ToLower(cfg.logLevel) {
		return nil, fmt.Errorf("unknown log level %q", cfg.logLevel)
	}

	var order contracts.TrackOrder
	switch cfg.order {
	case "auto":
		order = contracts.AutoOrder
	case "merged":
		order = contracts.Merged
	case "sequential":
		order = contracts.Sequential
	default:
		return nil, fmt.Errorf("unknown track order %q", cfg.order)
	}

	var drift contracts.DriftMode
	switch cfg.drift {
	case "absolute":
		drift = contracts.AbsoluteDrift
	case "local":
		drift = contracts.LocalDrift
	default:
		return nil, fmt.Errorf("unknown drift mode %q", cfg.drift)
	}

	num, den, err := parseRatio(cfg.speedup)
	if err != nil {
		return nil, err
	}

	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithOutputConfig(contracts.OutputConfig{
			Backend:    contracts.Backend(cfg.backend),
			SerialPort: cfg.serial,
			BaudRate:   cfg.baud,
		}),
		contracts.WithTrackOrder(order),
		contracts.WithDriftMode(drift),
		contracts.WithSlice(cfg.slice),
		contracts.WithSpeedup(num, den),
		contracts.WithDefaultTempo(uint32(cfg.defaultTempo)),
	}
	if cfg.logFile != "" {
		opts = append(opts, contracts.WithLogFilePath(cfg.logFile))
	}
	if cfg.meta {
		opts = append(opts, contracts.WithMetaHandler(func(tick uint64, ev contracts.Event) {
			fmt.Printf("%8d  %s\n", tick, ev)
		}))
	}
	return opts, nil
}

func parseRatio(s string) (num, den int64, err error) {
	n, d, found := strings.Cut(s, "/")
	if !found {
		d = "1"
	}
	num, err = strconv.ParseInt(n, 10, 64)
	if err == nil {
		den, err = strconv.ParseInt(d, 10, 64)
	}
	if err != nil || num <= 0 || den <= 0 {
		return 0, 0, fmt.Errorf("invalid speedup %q", s)
	}
	return num, den, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := logger.NewStandardLogger()
	defer func() { _ = log.Sync() }()

	opts, err := cfg.options(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	p, err := player.New(opts...)
	if err != nil {
		log.Error("Failed to initialize player", log.Field().Error("error", err))
		return 1
	}

	client, err := p.NewOutputClient()
	if err != nil {
		log.Error("Failed to initialize MIDI output", log.Field().Error("error", err))
		return 1
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Warn("Failed to close MIDI output", log.Field().Error("error", err))
		}
	}()

	if cfg.list {
		devices, err := client.ListDevices()
		if err != nil {
			log.Error("Failed to list MIDI devices", log.Field().Error("error", err))
			return 1
		}
		for i, d := range devices {
			fmt.Printf("%d: %s (%s) %s\n", i, d.Name, d.EntityName, d.Manufacturer)
		}
		return 0
	}

	song, err := smffile.LoadFile(cfg.path)
	if err != nil {
		log.Error("Failed to load MIDI file", log.Field().String("path", cfg.path), log.Field().Error("error", err))
		return 1
	}
	if cfg.meta {
		p.Describe(song)
	}

	if cfg.serial == "" {
		if err := client.SelectDevice(cfg.port); err != nil {
			log.Error("Failed to select MIDI device", log.Field().Int("port", cfg.port), log.Field().Error("error", err))
			return 1
		}
	}

	ctrl := shutdown.New(context.Background())
	release := ctrl.NotifyOn(os.Interrupt, syscall.SIGTERM)
	defer release()

	err = p.Play(ctrl.Context(), song, client)
	return exitCode(err, ctrl)
}

// exitCode maps the playback result to the process status. A stop request
// wins over the error it caused, such as a send failing while the device
// is being unplugged.
func exitCode(err error, ctrl *shutdown.Controller) int {
	switch {
	case errors.Is(err, contracts.ErrCancelled), errors.Is(ctrl.Err(), contracts.ErrCancelled):
		return exitCancelled
	case err == nil:
		return 0
	default:
		return 1
	}
}
