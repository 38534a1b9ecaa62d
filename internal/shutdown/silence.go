package shutdown

import (
	"fmt"

	"github.com/leandrodaf/midiplay/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/multierr"
)

const (
	// Channels is the number of MIDI channels silenced.
	Channels = 16
	// allNotesOff is the channel mode controller that releases every held note.
	allNotesOff = 123
)

// AllNotesOff returns the control change releasing every note on channel ch.
func AllNotesOff(ch uint8) []byte {
	return midi.ControlChange(ch, allNotesOff, 0).Bytes()
}

// Silence sends All Notes Off on every channel. Send failures do not stop the
// sequence; they are logged and counted.
func Silence(sink contracts.OutputSink, log contracts.Logger) (failed int) {
	var errs error
	for ch := uint8(0); ch < Channels; ch++ {
		if err := sink.Send(AllNotesOff(ch)); err != nil {
			failed++
			errs = multierr.Append(errs, fmt.Errorf("channel %d: %w", ch, err))
		}
	}

	if log == nil {
		return failed
	}
	if errs != nil {
		log.Warn("failed to silence output",
			log.Field().Int("failed", failed),
			log.Field().Error("error", errs))
	} else {
		log.Debug("output silenced", log.Field().Int("channels", Channels))
	}
	return failed
}
