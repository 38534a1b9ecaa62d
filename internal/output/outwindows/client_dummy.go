//go:build !windows
// +build !windows

package outwindows

import (
	"fmt"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient initializes a dummy MIDI client for non-Windows systems.
func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	options.Logger.Info("Using dummy winmm client for non-Windows system")
	return &dummyMIDIClient{
		logger: options.Logger,
	}, nil
}

// ListDevices logs a warning and returns an error indicating that winmm is unavailable on this platform.
func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, fmt.Errorf("winmm output is not available on this platform")
}

// SelectDevice logs a warning and returns an error indicating that winmm is unavailable on this platform.
func (m *dummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client")
	return fmt.Errorf("winmm output is not available on this platform")
}

// Send always fails: no device can be selected.
func (m *dummyMIDIClient) Send(data []byte) error {
	return contracts.ErrNoDevice
}

// Close logs a warning indicating that Close was called on the dummy MIDI client.
func (m *dummyMIDIClient) Close() error {
	m.logger.Warn("Close called on dummy MIDI client")
	return nil
}
