package outserial

import (
	"errors"
	"io"
	"testing"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakePort struct {
	serial.Port
	written [][]byte
	short   bool
	closed  bool
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.written = append(p.written, append([]byte(nil), b...))
	if p.short {
		return len(b) - 1, nil
	}
	return len(b), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func testClient(t *testing.T, port *fakePort) (*ClientSerial, *serial.Mode) {
	t.Helper()
	core, _ := observer.New(zapcore.DebugLevel)
	c := newClient(&contracts.PlayerOptions{Logger: logger.NewWithCore(core)})

	var mode serial.Mode
	c.open = func(name string, m *serial.Mode) (serial.Port, error) {
		if name != "/dev/ttyUSB0" {
			return nil, errors.New("no such file or directory")
		}
		mode = *m
		return port, nil
	}
	c.list = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "FC02", PID: "0101", Product: "USB MIDI Cable"},
		}, nil
	}
	return c, &mode
}

func TestSelectAndSend(t *testing.T) {
	port := &fakePort{}
	c, mode := testClient(t, port)

	devices, err := c.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "VID: FC02 PID: 0101", devices[1].Manufacturer)
	assert.Equal(t, "USB MIDI Cable", devices[1].EntityName)

	require.NoError(t, c.SelectDevice(1))
	assert.Equal(t, DefaultBaudRate, mode.BaudRate)

	require.NoError(t, c.Send([]byte{0x90, 60, 100}))
	assert.Equal(t, [][]byte{{0x90, 60, 100}}, port.written)

	require.NoError(t, c.Close())
	assert.True(t, port.closed)
	assert.ErrorIs(t, c.Send([]byte{0x80, 60, 0}), contracts.ErrNoDevice)
}

func TestSelectInvalid(t *testing.T) {
	c, _ := testClient(t, &fakePort{})
	assert.ErrorIs(t, c.SelectDevice(5), ErrInvalidPort)
	assert.ErrorIs(t, c.SelectDevice(0), ErrPortOpenFailed)
}

func TestShortWrite(t *testing.T) {
	port := &fakePort{short: true}
	c, _ := testClient(t, port)
	require.NoError(t, c.Open("/dev/ttyUSB0"))
	assert.ErrorIs(t, c.Send([]byte{0x90, 60, 100}), io.ErrShortWrite)
}

func TestSendWithoutPort(t *testing.T) {
	c, _ := testClient(t, &fakePort{})
	assert.ErrorIs(t, c.Send([]byte{0xF8}), contracts.ErrNoDevice)
	assert.NoError(t, c.Close())
}

func TestNoPorts(t *testing.T) {
	c, _ := testClient(t, &fakePort{})
	c.list = func() ([]*enumerator.PortDetails, error) { return nil, nil }
	_, err := c.ListDevices()
	assert.ErrorIs(t, err, ErrNoSerialPorts)
}
