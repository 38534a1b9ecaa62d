//go:build windows
// +build windows

package outwindows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/midiplay/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type HMIDIOUT windows.Handle

const (
	CALLBACK_NULL        = 0x00000000 // No completion callback
	MIDIERR_STILLPLAYING = 65         // Header still queued when unpreparing
)

// midiOutCaps mirrors MIDIOUTCAPSW.
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// midiHdr mirrors MIDIHDR, used for system exclusive messages.
type midiHdr struct {
	lpData          *byte
	dwBufferLength  uint32
	dwBytesRecorded uint32
	dwUser          uintptr
	dwFlags         uint32
	lpNext          uintptr
	reserved        uintptr
	dwOffset        uint32
	dwReserved      [8]uintptr
}

// ErrInvalidMIDIDevice is returned for an out-of-range device index.
var ErrInvalidMIDIDevice = errors.New("invalid MIDI device")

// ClientMid manages MIDI output on Windows
type ClientMid struct {
	logger contracts.Logger
	handle HMIDIOUT
	mu     sync.Mutex
}

// Load the winmm.dll library and required functions
var (
	winmm                    = windows.NewLazySystemDLL("winmm.dll")
	procMidiOutGetNumDevs    = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps    = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen          = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg      = winmm.NewProc("midiOutShortMsg")
	procMidiOutLongMsg       = winmm.NewProc("midiOutLongMsg")
	procMidiOutPrepareHeader = winmm.NewProc("midiOutPrepareHeader")
	procMidiOutUnprepare     = winmm.NewProc("midiOutUnprepareHeader")
	procMidiOutReset         = winmm.NewProc("midiOutReset")
	procMidiOutClose         = winmm.NewProc("midiOutClose")
)

// NewMIDIClient creates a MIDI output client for Windows
func NewMIDIClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	options.Logger.Info("MIDI output client created for Windows")
	return &ClientMid{logger: options.Logger}, nil
}

// ListDevices lists the available MIDI output devices
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiOutGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn("No MIDI output devices found")
		return nil, errors.New("no MIDI output devices found")
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn(fmt.Sprintf("Failed to get information for MIDI device %d", i))
			continue
		}
		deviceName := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         deviceName,
			EntityName:   deviceName,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// SelectDevice opens a MIDI output device, closing the previous one
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r0, _, _ := procMidiOutGetNumDevs.Call()
	if deviceID < 0 || uint32(deviceID) >= uint32(r0) {
		m.logger.Error(ErrInvalidMIDIDevice.Error())
		return ErrInvalidMIDIDevice
	}

	if m.handle != 0 {
		if err := m.closeHandle(); err != nil {
			return fmt.Errorf("failed to close previous MIDI device: %w", err)
		}
	}

	r1, _, err := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		0,
		0,
		CALLBACK_NULL,
	)
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to open MIDI device %d: %v", deviceID, err))
		return fmt.Errorf("failed to open MIDI device %d: %v", deviceID, err)
	}

	m.logger.Info(fmt.Sprintf("MIDI device %d connected", deviceID))
	return nil
}

// Send writes one message: up to three bytes as a short message, system
// exclusive data as a long message.
func (m *ClientMid) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == 0 {
		return contracts.ErrNoDevice
	}
	if len(data) == 0 {
		return nil
	}
	if data[0] == 0xF0 || data[0] == 0xF7 || len(data) > 3 {
		return m.sendLong(data)
	}

	var msg uint32
	for i, b := range data {
		msg |= uint32(b) << (8 * i)
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(m.handle), uintptr(msg))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed with code %d: %v", r1, err)
	}
	return nil
}

func (m *ClientMid) sendLong(data []byte) error {
	buf := append([]byte(nil), data...)
	hdr := midiHdr{lpData: &buf[0], dwBufferLength: uint32(len(buf)), dwBytesRecorded: uint32(len(buf))}
	size := unsafe.Sizeof(hdr)

	if r1, _, err := procMidiOutPrepareHeader.Call(uintptr(m.handle), uintptr(unsafe.Pointer(&hdr)), size); r1 != 0 {
		return fmt.Errorf("midiOutPrepareHeader failed with code %d: %v", r1, err)
	}
	r1, _, err := procMidiOutLongMsg.Call(uintptr(m.handle), uintptr(unsafe.Pointer(&hdr)), size)
	if r1 != 0 {
		procMidiOutUnprepare.Call(uintptr(m.handle), uintptr(unsafe.Pointer(&hdr)), size)
		return fmt.Errorf("midiOutLongMsg failed with code %d: %v", r1, err)
	}
	// midiOutLongMsg may return before the driver is done with the buffer.
	for {
		r1, _, _ = procMidiOutUnprepare.Call(uintptr(m.handle), uintptr(unsafe.Pointer(&hdr)), size)
		if r1 != MIDIERR_STILLPLAYING {
			break
		}
		windows.SleepEx(1, false)
	}
	return nil
}

// Close resets and closes the output device
func (m *ClientMid) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == 0 {
		m.logger.Warn("No MIDI device is connected")
		return nil
	}
	if err := m.closeHandle(); err != nil {
		return fmt.Errorf("failed to close MIDI device: %w", err)
	}
	m.logger.Info("MIDI output device closed")
	return nil
}

// closeHandle releases the handle
func (m *ClientMid) closeHandle() error {
	procMidiOutReset.Call(uintptr(m.handle))

	r1, _, err := procMidiOutClose.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error(fmt.Sprintf("Failed to close MIDI device: %v", err))
		return err
	}
	m.handle = 0
	return nil
}
