// Package outrtmidi sends MIDI through the gomidi driver layer. The rtmidi
// driver is registered when the module is built with cgo.
package outrtmidi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/leandrodaf/midiplay/sdk/contracts"
)

// Error definitions for MIDI output handling.
var (
	ErrNoMIDIDevices     = errors.New("no MIDI output devices found")
	ErrInvalidMIDIDevice = errors.New("invalid MIDI device")
	ErrOpenPort          = errors.New("error opening MIDI output port")
	ErrPortScanTimeout   = errors.New("timed out listing MIDI ports")
)

// scanTimeout bounds port enumeration, which can hang inside the system MIDI service.
const scanTimeout = 3 * time.Second

// ClientMid sends MIDI through a gomidi output port.
type ClientMid struct {
	logger contracts.Logger
	mu     sync.Mutex
	out    drivers.Out
	ports  func() []drivers.Out
}

// NewMIDIClient creates a client backed by the registered gomidi driver.
func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	options.Logger.Info("MIDI output client created", options.Logger.Field().String("backend", string(contracts.BackendRtMidi)))
	return &ClientMid{
		logger: options.Logger,
		ports:  func() []drivers.Out { return gomidi.GetOutPorts() },
	}, nil
}

func (m *ClientMid) scan() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- m.ports()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(scanTimeout):
		return nil, ErrPortScanTimeout
	}
}

// ListDevices lists the output ports of the driver.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	outs, err := m.scan()
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(outs))
	for i, out := range outs {
		devices[i] = contracts.DeviceInfo{Name: out.String(), EntityName: out.String()}
	}
	return devices, nil
}

// SelectDevice opens the output port with the given index, closing the previous one.
func (m *ClientMid) SelectDevice(deviceID int) error {
	outs, err := m.scan()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if deviceID < 0 || deviceID >= len(outs) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	if m.out != nil {
		_ = m.out.Close()
		m.out = nil
	}

	out := outs[deviceID]
	if err := out.Open(); err != nil {
		m.logger.Error(ErrOpenPort.Error(), m.logger.Field().String("deviceName", out.String()))
		return fmt.Errorf("%w: %v", ErrOpenPort, err)
	}
	m.out = out
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", out.String()))
	return nil
}

// Send writes one message to the selected port.
func (m *ClientMid) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return contracts.ErrNoDevice
	}
	return m.out.Send(data)
}

// Close closes the selected port.
func (m *ClientMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return nil
	}
	err := m.out.Close()
	m.out = nil
	m.logger.Info("MIDI output closed")
	return err
}
