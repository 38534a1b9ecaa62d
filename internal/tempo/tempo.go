// Package tempo converts tick deltas to microseconds using the current tempo
// of a song.
package tempo

import (
	"fmt"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Model holds the microseconds-per-tick factor derived from the file
// resolution and the most recent tempo event.
type Model struct {
	ppqn    uint32
	perTick int64
	valid   bool
}

// New returns a model for a file with the given pulses per quarter note.
// A zero resolution cannot be a metric (PPQN) time format.
func New(ppqn uint16) (*Model, error) {
	if ppqn == 0 {
		return nil, fmt.Errorf("%w: resolution of 0 pulses per quarter note", contracts.ErrUnsupportedFormat)
	}
	return &Model{ppqn: uint32(ppqn)}, nil
}

// SetTempo records a tempo change. The per-tick factor is truncated.
func (m *Model) SetTempo(microsecondsPerBeat uint32) {
	m.perTick = int64(microsecondsPerBeat / m.ppqn)
	m.valid = true
}

// MicrosecondsFor returns deltaTicks * MicrosecondsPerTick.
func (m *Model) MicrosecondsFor(deltaTicks uint32) (int64, error) {
	if deltaTicks == 0 {
		return 0, nil
	}
	if !m.valid {
		return 0, fmt.Errorf("%w: delta of %d ticks", contracts.ErrTempoNotSet, deltaTicks)
	}
	return int64(deltaTicks) * m.perTick, nil
}

// MicrosecondsPerTick returns the current factor, 0 while no tempo is set.
func (m *Model) MicrosecondsPerTick() int64 {
	return m.perTick
}

// PPQN returns the file resolution.
func (m *Model) PPQN() uint16 {
	return uint16(m.ppqn)
}

// Valid reports whether a tempo has been established.
func (m *Model) Valid() bool {
	return m.valid
}
