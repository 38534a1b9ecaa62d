package smffile_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/midiplay/internal/smffile"
	"github.com/leandrodaf/midiplay/internal/smffile/smftest"
	"github.com/leandrodaf/midiplay/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transmitted(track contracts.Track) [][]byte {
	var out [][]byte
	for _, ev := range track {
		if ev.Kind.Transmitted() {
			out = append(out, ev.Raw)
		}
	}
	return out
}

func pianoFile() []byte {
	return smftest.File(0, 96, smftest.Track(
		smftest.Meta(0, contracts.MetaTrackName, "Piano"),
		smftest.Tempo(0, 500000),
		smftest.Event(0, 0x90, 0x3C, 0x64),
		smftest.Event(96, 0x80, 0x3C, 0x00),
		smftest.Meta(0, contracts.MetaLyric, "la"),
		smftest.Event(0, 0xB0, 0x07, 0x50),
	))
}

func TestParseSingleTrack(t *testing.T) {
	song, err := smffile.Parse(pianoFile())
	require.NoError(t, err)

	assert.Equal(t, uint16(0), song.Format)
	assert.Equal(t, uint16(96), song.PPQN)
	require.Len(t, song.Tracks, 1)

	track := song.Tracks[0]
	require.GreaterOrEqual(t, len(track), 6)

	assert.Equal(t, contracts.Metadata, track[0].Kind)
	assert.Equal(t, contracts.MetaTrackName, track[0].MetaType)
	assert.Equal(t, "Piano", track[0].Text)

	assert.Equal(t, contracts.TempoChange, track[1].Kind)
	assert.Equal(t, uint32(500000), track[1].Tempo)

	assert.Equal(t, contracts.ChannelVoice, track[2].Kind)
	assert.Equal(t, uint32(96), track[3].Delta)

	assert.Equal(t, contracts.Metadata, track[4].Kind)
	assert.Equal(t, "la", track[4].Text)

	assert.Equal(t, [][]byte{{0x90, 0x3C, 0x64}, {0x80, 0x3C, 0x00}, {0xB0, 0x07, 0x50}}, transmitted(track))
}

func TestParseMultiTrack(t *testing.T) {
	data := smftest.File(1, 480,
		smftest.Track(smftest.Tempo(0, 600000)),
		smftest.Track(smftest.Event(0, 0x91, 40, 90), smftest.Event(480, 0x81, 40, 0)),
		smftest.Track(smftest.Event(240, 0xC2, 5)),
	)
	song, err := smffile.Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, uint16(1), song.Format)
	assert.Equal(t, uint16(480), song.PPQN)
	require.Len(t, song.Tracks, 3)
	assert.Empty(t, transmitted(song.Tracks[0]))
	assert.Equal(t, [][]byte{{0x91, 40, 90}, {0x81, 40, 0}}, transmitted(song.Tracks[1]))
	assert.Equal(t, [][]byte{{0xC2, 5}}, transmitted(song.Tracks[2]))
}

func TestParseRejectsTimecode(t *testing.T) {
	// -25 frames per second, 40 ticks per frame.
	data := smftest.File(0, 0xE728, smftest.Track(smftest.Event(0, 0x90, 60, 100)))
	_, err := smffile.Parse(data)
	assert.ErrorIs(t, err, contracts.ErrUnsupportedFormat)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := smffile.Parse([]byte("RIFF....WAVE"))
	assert.ErrorIs(t, err, smffile.ErrParse)

	_, err = smffile.Parse(nil)
	assert.ErrorIs(t, err, smffile.ErrParse)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "piano.mid")
	require.NoError(t, os.WriteFile(path, pianoFile(), 0o644))

	song, err := smffile.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint16(96), song.PPQN)

	_, err = smffile.LoadFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		msg  []byte
		kind contracts.EventKind
	}{
		{[]byte{0x90, 60, 100}, contracts.ChannelVoice},
		{[]byte{0xE0, 0, 64}, contracts.ChannelVoice},
		{[]byte{0xF0, 0x7E, 0xF7}, contracts.SysEx},
		{[]byte{0xF7, 0xF8}, contracts.Escape},
		{[]byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}, contracts.TempoChange},
		{[]byte{0xFF, 0x06, 0x03, 'e', 'n', 'd'}, contracts.Metadata},
		{[]byte{0xFF, 0x58, 0x04, 4, 2, 24, 8}, contracts.OtherMeta},
		{[]byte{0xFF, 0x2F, 0x00}, contracts.OtherMeta},
		{[]byte{0xFF, 0x51, 0x00}, contracts.OtherMeta},
		{nil, contracts.OtherMeta},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, smffile.Classify(0, c.msg).Kind, "% X", c.msg)
	}

	escape := smffile.Classify(0, []byte{0xF7, 0xF8})
	assert.Equal(t, []byte{0xF8}, escape.Raw)
	assert.Equal(t, contracts.OtherMeta, smffile.Classify(0, []byte{0xF7}).Kind)

	ev := smffile.Classify(7, []byte{0xFF, 0x06, 0x03, 'e', 'n', 'd'})
	assert.Equal(t, "end", ev.Text)
	assert.Equal(t, contracts.MetaMarker, ev.MetaType)
	assert.Equal(t, uint32(7), ev.Delta)
}

func TestClassifyCopiesBytes(t *testing.T) {
	msg := []byte{0x90, 60, 100}
	ev := smffile.Classify(0, msg)
	msg[2] = 0
	assert.Equal(t, byte(100), ev.Raw[2])
}
