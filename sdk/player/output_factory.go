package player

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/midiplay/internal/output/outdarwin"
	"github.com/leandrodaf/midiplay/internal/output/outrtmidi"
	"github.com/leandrodaf/midiplay/internal/output/outserial"
	"github.com/leandrodaf/midiplay/internal/output/outwindows"
	"github.com/leandrodaf/midiplay/sdk/contracts"
)

var (
	// ErrUnsupportedOS is returned when no native backend exists for the operating system.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// ErrUnknownBackend is returned for a backend name with no initializer.
	ErrUnknownBackend = errors.New("unknown output backend")
)

// clientInitializers maps backends to their output client initializers.
var clientInitializers = map[contracts.Backend]func(*contracts.PlayerOptions) (contracts.OutputClient, error){
	contracts.BackendCoreMIDI: outdarwin.NewMIDIClient,  // macOS (Darwin) output client initializer.
	contracts.BackendWinMM:    outwindows.NewMIDIClient, // Windows output client initializer.
	contracts.BackendRtMidi:   outrtmidi.NewMIDIClient,  // rtmidi (ALSA/JACK) output client initializer.
	contracts.BackendSerial:   outserial.NewMIDIClient,  // Serial port output client initializer.
}

// nativeBackends maps OS names to the backend used when none is configured.
var nativeBackends = map[string]contracts.Backend{
	"darwin":  contracts.BackendCoreMIDI,
	"windows": contracts.BackendWinMM,
	"linux":   contracts.BackendRtMidi,
	"freebsd": contracts.BackendRtMidi,
}

// ResolveBackend returns the backend that would serve the configuration on goos.
func ResolveBackend(backend contracts.Backend, goos string) (contracts.Backend, error) {
	if backend != contracts.BackendAuto {
		if _, ok := clientInitializers[backend]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
		}
		return backend, nil
	}
	native, ok := nativeBackends[goos]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
	return native, nil
}

// NewOutputClient creates the output client selected by the options: the
// configured backend, or the native one for the running operating system.
//
// opts ...contracts.Option: A variadic list of option functions to customize the client configuration.
//
// Returns:
//   - contracts.OutputClient: A MIDI output client, with no device selected unless the backend opened one.
//   - error: An error if the backend is unknown, unsupported here, or fails to initialize.
func NewOutputClient(opts ...contracts.Option) (contracts.OutputClient, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newClient(&options)
}

func newClient(options *contracts.PlayerOptions) (contracts.OutputClient, error) {
	backend, err := ResolveBackend(options.OutputConfig.Backend, runtime.GOOS)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("creating output client", options.Logger.Field().String("backend", string(backend)))
	return clientInitializers[backend](options)
}
