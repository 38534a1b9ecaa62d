// Package outserial writes raw MIDI bytes to a serial port, such as a USB
// MIDI cable exposed as a tty or an Arduino speaking MIDI at 31250 baud.
package outserial

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/midiplay/sdk/contracts"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is the MIDI 1.0 wire speed.
const DefaultBaudRate = 31250

var (
	ErrNoSerialPorts  = errors.New("no serial ports found")
	ErrInvalidPort    = errors.New("invalid serial port")
	ErrPortOpenFailed = errors.New("error opening serial port")
)

// ClientSerial sends MIDI to a serial device.
type ClientSerial struct {
	logger   contracts.Logger
	baudRate int
	mu       sync.Mutex
	port     serial.Port
	name     string

	open func(name string, mode *serial.Mode) (serial.Port, error)
	list func() ([]*enumerator.PortDetails, error)
}

// NewMIDIClient creates a serial client. When the output configuration names
// a port it is opened right away.
func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	c := newClient(options)
	if options.OutputConfig != nil && options.OutputConfig.SerialPort != "" {
		if err := c.Open(options.OutputConfig.SerialPort); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newClient(options *contracts.PlayerOptions) *ClientSerial {
	baud := DefaultBaudRate
	if options.OutputConfig != nil && options.OutputConfig.BaudRate > 0 {
		baud = options.OutputConfig.BaudRate
	}
	return &ClientSerial{
		logger:   options.Logger,
		baudRate: baud,
		open:     serial.Open,
		list:     enumerator.GetDetailedPortsList,
	}
}

// ListDevices lists the serial ports of the system. USB ports carry their
// vendor and product IDs.
func (c *ClientSerial) ListDevices() ([]contracts.DeviceInfo, error) {
	ports, err := c.list()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}
	if len(ports) == 0 {
		c.logger.Warn(ErrNoSerialPorts.Error())
		return nil, ErrNoSerialPorts
	}

	devices := make([]contracts.DeviceInfo, len(ports))
	for i, p := range ports {
		devices[i] = contracts.DeviceInfo{Name: p.Name, EntityName: p.Product}
		if p.IsUSB {
			devices[i].Manufacturer = fmt.Sprintf("VID: %s PID: %s", p.VID, p.PID)
		}
	}
	return devices, nil
}

// SelectDevice opens the port with the given index in ListDevices.
func (c *ClientSerial) SelectDevice(deviceID int) error {
	devices, err := c.ListDevices()
	if err != nil {
		return err
	}
	if deviceID < 0 || deviceID >= len(devices) {
		c.logger.Error(ErrInvalidPort.Error(), c.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidPort
	}
	return c.Open(devices[deviceID].Name)
}

// Open opens the named port, closing the previous one.
func (c *ClientSerial) Open(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port != nil {
		_ = c.port.Close()
		c.port = nil
	}

	p, err := c.open(name, &serial.Mode{BaudRate: c.baudRate})
	if err != nil {
		c.logger.Error(ErrPortOpenFailed.Error(), c.logger.Field().String("device", name), c.logger.Field().Error("error", err))
		return fmt.Errorf("%w %s: %v", ErrPortOpenFailed, name, err)
	}
	c.port = p
	c.name = name
	c.logger.Info("serial port opened",
		c.logger.Field().String("device", name),
		c.logger.Field().Int("baud", c.baudRate))
	return nil
}

// Send writes data to the port.
func (c *ClientSerial) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return contracts.ErrNoDevice
	}
	n, err := c.port.Write(data)
	if err != nil {
		return err
	}
	if n < len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// Close closes the port.
func (c *ClientSerial) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	c.logger.Info("serial port closed", c.logger.Field().String("device", c.name))
	return err
}
