package outrtmidi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeOut struct {
	drivers.Out
	name    string
	open    bool
	openErr error
	sent    [][]byte
}

func (o *fakeOut) String() string { return o.name }
func (o *fakeOut) Open() error {
	if o.openErr != nil {
		return o.openErr
	}
	o.open = true
	return nil
}
func (o *fakeOut) Close() error { o.open = false; return nil }
func (o *fakeOut) Send(b []byte) error {
	if !o.open {
		return errors.New("port closed")
	}
	o.sent = append(o.sent, append([]byte(nil), b...))
	return nil
}

func testClient(outs ...drivers.Out) *ClientMid {
	core, _ := observer.New(zapcore.DebugLevel)
	return &ClientMid{
		logger: logger.NewWithCore(core),
		ports:  func() []drivers.Out { return outs },
	}
}

func TestListSelectSend(t *testing.T) {
	through := &fakeOut{name: "Midi Through Port-0"}
	synth := &fakeOut{name: "FLUID Synth"}
	c := testClient(through, synth)

	devices, err := c.ListDevices()
	require.NoError(t, err)
	assert.Equal(t, []contracts.DeviceInfo{
		{Name: "Midi Through Port-0", EntityName: "Midi Through Port-0"},
		{Name: "FLUID Synth", EntityName: "FLUID Synth"},
	}, devices)

	assert.ErrorIs(t, c.Send([]byte{0x90, 60, 100}), contracts.ErrNoDevice)

	require.NoError(t, c.SelectDevice(1))
	require.NoError(t, c.Send([]byte{0x90, 60, 100}))
	assert.Equal(t, [][]byte{{0x90, 60, 100}}, synth.sent)

	require.NoError(t, c.SelectDevice(0))
	assert.False(t, synth.open)
	assert.True(t, through.open)

	require.NoError(t, c.Close())
	assert.False(t, through.open)
}

func TestSelectErrors(t *testing.T) {
	broken := &fakeOut{name: "Busy", openErr: errors.New("device busy")}
	c := testClient(broken)

	assert.ErrorIs(t, c.SelectDevice(3), ErrInvalidMIDIDevice)
	assert.ErrorIs(t, c.SelectDevice(0), ErrOpenPort)

	empty := testClient()
	_, err := empty.ListDevices()
	assert.ErrorIs(t, err, ErrNoMIDIDevices)
}
