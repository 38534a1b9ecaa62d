package smffile_test

import (
	"testing"

	"github.com/leandrodaf/midiplay/internal/logger"
	"github.com/leandrodaf/midiplay/internal/smffile"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDescribe(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core)

	song := &contracts.Song{Format: 1, PPQN: 96, Tracks: []contracts.Track{
		{
			{Kind: contracts.Metadata, MetaType: contracts.MetaTrackName, Text: "Lead"},
			{Kind: contracts.TempoChange, MetaType: contracts.MetaTempo, Tempo: 500000},
			{Delta: 10, Kind: contracts.ChannelVoice, Raw: []byte{0x90, 60, 100}},
			{Delta: 20, Kind: contracts.Metadata, MetaType: contracts.MetaLyric, Text: "hidden"},
			{Delta: 5, Kind: contracts.SysEx, Raw: []byte{0xF0, 0x01, 0xF7}},
		},
	}}
	smffile.Describe(song, log)

	header := logs.FilterMessage("header").All()
	require.Len(t, header, 1)
	assert.Equal(t, int64(96), header[0].ContextMap()["ppqn"])

	name := logs.FilterMessage("TrackName").All()
	require.Len(t, name, 1)
	assert.Equal(t, "Lead", name[0].ContextMap()["text"])

	sysex := logs.FilterMessage("SysEx").All()
	require.Len(t, sysex, 1)
	assert.Equal(t, uint64(35), sysex[0].ContextMap()["tick"])
	assert.Equal(t, "F0 01 F7", sysex[0].ContextMap()["data"])

	assert.Zero(t, logs.FilterMessage("Lyric").Len())
	assert.Equal(t, 1, logs.FilterMessage("Meta").Len())
}
