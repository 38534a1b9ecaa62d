//go:build !darwin
// +build !darwin

package outdarwin

import (
	"fmt"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	options.Logger.Info("Using dummy CoreMIDI client for non-macOS system")
	return &DummyMIDIClient{
		logger: options.Logger,
	}, nil
}

func (m *DummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, fmt.Errorf("CoreMIDI output is not available on this platform")
}

func (m *DummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client")
	return fmt.Errorf("CoreMIDI output is not available on this platform")
}

func (m *DummyMIDIClient) Send(data []byte) error {
	return contracts.ErrNoDevice
}

func (m *DummyMIDIClient) Close() error {
	m.logger.Warn("Close called on dummy MIDI client")
	return nil
}
