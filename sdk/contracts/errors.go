package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for frame-based (timecode) timing or a zero PPQN.
	ErrUnsupportedFormat = errors.New("unsupported timing format")
	// ErrTempoNotSet is returned when a non-zero delta is reached before any tempo event.
	ErrTempoNotSet = errors.New("tick delta before any tempo was established")
	// ErrCancelled is returned when playback was stopped on request. It is not a failure.
	ErrCancelled = errors.New("playback cancelled")
	// ErrTransmission matches every *TransmissionError through errors.Is.
	ErrTransmission = errors.New("transmission failed")
	// ErrNoDevice is returned when a send is attempted before a device was selected.
	ErrNoDevice = errors.New("no output device selected")
)

// TransmissionError reports a failed device write with the position of the event.
type TransmissionError struct {
	Tick   uint64 // Absolute tick of the failing event.
	Track  int    // Index of the track holding the event.
	Index  int    // Event index within the track.
	Event  Event  // The event that could not be sent.
	Length int    // Number of bytes attempted.
	Err    error  // Cause reported by the sink.
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("send %d bytes at tick %d (track %d, event %d, %s): %v",
		e.Length, e.Tick, e.Track, e.Index, e.Event, e.Err)
}

// Unwrap returns the sink error.
func (e *TransmissionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrTransmission) true for every TransmissionError.
func (e *TransmissionError) Is(target error) bool {
	return target == ErrTransmission
}
