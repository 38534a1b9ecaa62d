package player

import (
	"fmt"
	"time"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/internal/pacing"
	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// DefaultClientName is announced to CoreMIDI and rtmidi when none is configured.
const DefaultClientName = "GO MIDI Player"

// applyDefaultOptions sets default values for PlayerOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify PlayerOptions.
//
// Returns:
//   - contracts.PlayerOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if an option holds a value the player cannot use.
func applyDefaultOptions(opts ...contracts.Option) (contracts.PlayerOptions, error) {
	options := &contracts.PlayerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.OutputConfig == nil {
		options.OutputConfig = &contracts.OutputConfig{}
	}
	if options.OutputConfig.ClientName == "" {
		options.OutputConfig.ClientName = DefaultClientName
	}
	if options.Slice == 0 {
		options.Slice = pacing.DefaultSlice
	}
	if options.SpeedupNum == 0 && options.SpeedupDen == 0 {
		options.SpeedupNum = pacing.DefaultSpeedupNum
		options.SpeedupDen = pacing.DefaultSpeedupDen
	}

	if options.Slice < time.Millisecond {
		return contracts.PlayerOptions{}, fmt.Errorf("slice %v is shorter than 1ms", options.Slice)
	}
	if options.SpeedupNum <= 0 || options.SpeedupDen <= 0 {
		return contracts.PlayerOptions{}, fmt.Errorf("invalid speedup %d/%d", options.SpeedupNum, options.SpeedupDen)
	}

	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	return *options, nil
}
