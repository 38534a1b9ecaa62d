//go:build darwin
// +build darwin

package outdarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI destinations found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrCreateOutputPort  = errors.New("error creating output port")
)

// ClientMid sends MIDI to a CoreMIDI destination on Darwin (macOS) systems.
// Sends are serialized; the destination stays selected until Close.
type ClientMid struct {
	logger      contracts.Logger
	client      coremidi.Client     // CoreMIDI client instance for MIDI operations.
	outputPort  coremidi.OutputPort // Output port used for every send.
	destination *coremidi.Destination
	mu          sync.Mutex // Guards destination and sends.
	closeOnce   sync.Once  // Ensures Close() is executed only once.
}

// NewMIDIClient creates the CoreMIDI client and its output port.
func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	client, err := coremidi.NewClient(options.OutputConfig.ClientName)
	if err != nil {
		return nil, err
	}
	outputPort, err := coremidi.NewOutputPort(client, "Output Port")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
	}
	options.Logger.Info("MIDI client successfully created")

	return &ClientMid{
		logger:     options.Logger,
		client:     client,
		outputPort: outputPort,
	}, nil
}

// ListDevices retrieves and returns available MIDI destinations.
// If no destinations are found, an error is logged and returned.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(destinations) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(destinations))
	for i, destination := range destinations {
		entity := destination.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         destination.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice selects a MIDI destination by ID for subsequent sends.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	if deviceID < 0 || deviceID >= len(destinations) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	destination := destinations[deviceID]
	m.destination = &destination
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", destination.Name()))
	return nil
}

// Send delivers one MIDI message to the selected destination immediately.
func (m *ClientMid) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.destination == nil {
		return contracts.ErrNoDevice
	}
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(&m.outputPort, m.destination)
}

// Close forgets the destination. CoreMIDI releases the client with the process.
func (m *ClientMid) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.destination = nil
		m.logger.Info("MIDI output closed")
	})
	return nil
}
