package player

import (
	"testing"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/internal/output/outserial"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend contracts.Backend
		goos    string
		want    contracts.Backend
		wantErr error
	}{
		{"darwin default", contracts.BackendAuto, "darwin", contracts.BackendCoreMIDI, nil},
		{"windows default", contracts.BackendAuto, "windows", contracts.BackendWinMM, nil},
		{"linux default", contracts.BackendAuto, "linux", contracts.BackendRtMidi, nil},
		{"explicit serial", contracts.BackendSerial, "windows", contracts.BackendSerial, nil},
		{"explicit rtmidi on darwin", contracts.BackendRtMidi, "darwin", contracts.BackendRtMidi, nil},
		{"unsupported os", contracts.BackendAuto, "plan9", "", ErrUnsupportedOS},
		{"unknown backend", contracts.Backend("jack"), "linux", "", ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBackend(tt.backend, tt.goos)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewOutputClientSerial(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	client, err := NewOutputClient(
		contracts.WithLogger(logger.NewWithCore(core)),
		contracts.WithOutputConfig(contracts.OutputConfig{Backend: contracts.BackendSerial}),
	)
	require.NoError(t, err)
	assert.IsType(t, &outserial.ClientSerial{}, client)
	assert.ErrorIs(t, client.Send([]byte{0x90, 60, 100}), contracts.ErrNoDevice)
	assert.NoError(t, client.Close())
}

func TestNewOutputClientUnknownBackend(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	_, err := NewOutputClient(
		contracts.WithLogger(logger.NewWithCore(core)),
		contracts.WithOutputConfig(contracts.OutputConfig{Backend: "jack"}),
	)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestApplyDefaultOptions(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	options, err := applyDefaultOptions(contracts.WithLogger(logger.NewWithCore(core)))
	require.NoError(t, err)

	assert.Equal(t, contracts.InfoLevel, options.LogLevel)
	assert.Equal(t, DefaultClientName, options.OutputConfig.ClientName)
	assert.Equal(t, int64(11), options.SpeedupNum)
	assert.Equal(t, int64(10), options.SpeedupDen)
	assert.Equal(t, contracts.AutoOrder, options.TrackOrder)
	assert.Equal(t, contracts.AbsoluteDrift, options.DriftMode)
	assert.False(t, options.SkipInitialStop)

	_, err = applyDefaultOptions(contracts.WithLogger(logger.NewWithCore(core)), contracts.WithSpeedup(-1, 10))
	assert.Error(t, err)
	_, err = New(contracts.WithLogger(logger.NewWithCore(core)), contracts.WithSlice(10))
	assert.Error(t, err)
}
