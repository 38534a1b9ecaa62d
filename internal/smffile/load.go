// Package smffile reads Standard MIDI Files into contracts.Song values.
package smffile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leandrodaf/midiplay/sdk/contracts"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrParse wraps every malformed-file error.
var ErrParse = errors.New("malformed MIDI file")

// LoadFile reads and parses the file at path.
func LoadFile(path string) (*contracts.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Load parses a file from r.
func Load(r io.Reader) (*contracts.Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read MIDI file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a complete file. Frame-based (timecode) files are rejected
// with contracts.ErrUnsupportedFormat.
func Parse(data []byte) (*contracts.Song, error) {
	sm, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	ticks, ok := sm.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, fmt.Errorf("%w: time format %v", contracts.ErrUnsupportedFormat, sm.TimeFormat)
	}

	song := &contracts.Song{
		Format: sm.Format(),
		PPQN:   uint16(ticks),
		Tracks: make([]contracts.Track, 0, len(sm.Tracks)),
	}
	for _, tr := range sm.Tracks {
		track := make(contracts.Track, 0, len(tr))
		for _, ev := range tr {
			track = append(track, Classify(ev.Delta, ev.Message))
		}
		song.Tracks = append(song.Tracks, track)
	}
	return song, nil
}

// metaText holds the getters of the text-like meta events surfaced as metadata.
var metaText = map[byte]func(smf.Message, *string) bool{
	contracts.MetaText:           smf.Message.GetMetaText,
	contracts.MetaCopyright:      smf.Message.GetMetaCopyright,
	contracts.MetaTrackName:      smf.Message.GetMetaTrackName,
	contracts.MetaInstrumentName: smf.Message.GetMetaInstrument,
	contracts.MetaLyric:          smf.Message.GetMetaLyric,
	contracts.MetaMarker:         smf.Message.GetMetaMarker,
	contracts.MetaCuePoint:       smf.Message.GetMetaCuepoint,
}

// Classify turns an SMF event, as returned by the gomidi reader, into a
// contracts.Event. For escape events the leading F7 is file framing: Raw
// holds only the bytes to transmit.
func Classify(delta uint32, msg []byte) contracts.Event {
	ev := contracts.Event{Delta: delta, Kind: contracts.OtherMeta, Raw: append([]byte(nil), msg...)}
	if len(msg) == 0 {
		return ev
	}

	switch status := msg[0]; {
	case status == 0xFF:
		classifyMeta(&ev, smf.Message(msg))
	case status == 0xF0:
		ev.Kind = contracts.SysEx
	case status == 0xF7:
		if len(msg) > 1 {
			ev.Kind = contracts.Escape
			ev.Raw = ev.Raw[1:]
		}
	case status >= 0x80 && status < 0xF0:
		ev.Kind = contracts.ChannelVoice
	}
	return ev
}

func classifyMeta(ev *contracts.Event, msg smf.Message) {
	if len(msg) < 2 {
		return
	}
	ev.MetaType = msg[1]

	if ev.MetaType == contracts.MetaTempo {
		// FF 51 03 tt tt tt, read as integer microseconds per beat.
		if len(msg) == 6 && msg[2] == 3 {
			ev.Kind = contracts.TempoChange
			ev.Tempo = uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
		}
		return
	}
	if get, ok := metaText[ev.MetaType]; ok {
		var text string
		if get(msg, &text) {
			ev.Kind = contracts.Metadata
			ev.Text = text
		}
	}
}
