package contracts

// DeviceInfo contains information about a MIDI output device.
type DeviceInfo struct {
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}

// OutputSink accepts raw MIDI byte sequences for a connected device.
type OutputSink interface {
	Send(data []byte) error
}

// OutputClient defines the operations of a MIDI output backend.
type OutputClient interface {
	OutputSink
	ListDevices() ([]DeviceInfo, error) // Lists all available output devices.
	SelectDevice(deviceID int) error    // Opens the device with the given index for sending.
	Close() error                       // Closes the device and releases resources.
}

// Backend names an output implementation.
type Backend string

const (
	// BackendAuto picks the native backend of the running operating system.
	BackendAuto Backend = ""
	// BackendCoreMIDI sends through CoreMIDI (macOS).
	BackendCoreMIDI Backend = "coremidi"
	// BackendWinMM sends through the Windows multimedia API.
	BackendWinMM Backend = "winmm"
	// BackendRtMidi sends through rtmidi (ALSA/JACK on Linux).
	BackendRtMidi Backend = "rtmidi"
	// BackendSerial writes raw MIDI bytes to a serial or USB MIDI cable.
	BackendSerial Backend = "serial"
)

// OutputConfig holds configuration for the output backend.
type OutputConfig struct {
	ClientName string  // Client name announced to CoreMIDI / rtmidi.
	Backend    Backend // Explicit backend, BackendAuto for the OS default.
	SerialPort string  // Serial device path, BackendSerial only.
	BaudRate   int     // Serial baud rate, BackendSerial only.
}
