package contracts

import "fmt"

// EventKind classifies a track event by what the player does with it.
type EventKind uint8

const (
	// ChannelVoice events (note on/off, control change, program change...) are sent verbatim.
	ChannelVoice EventKind = iota
	// SysEx events (0xF0) are sent verbatim.
	SysEx
	// Escape events (0xF7) are sent verbatim.
	Escape
	// TempoChange events update the tempo and are never sent.
	TempoChange
	// Metadata events carry display text and are never sent.
	Metadata
	// OtherMeta covers every remaining meta event; ignored.
	OtherMeta
)

func (k EventKind) String() string {
	switch k {
	case ChannelVoice:
		return "ChannelVoice"
	case SysEx:
		return "SysEx"
	case Escape:
		return "Escape"
	case TempoChange:
		return "TempoChange"
	case Metadata:
		return "Metadata"
	case OtherMeta:
		return "OtherMeta"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Transmitted reports whether events of this kind reach the output device.
func (k EventKind) Transmitted() bool {
	return k == ChannelVoice || k == SysEx || k == Escape
}

// Meta event types carried by Event.MetaType.
const (
	MetaText           byte = 0x01
	MetaCopyright      byte = 0x02
	MetaTrackName      byte = 0x03
	MetaInstrumentName byte = 0x04
	MetaLyric          byte = 0x05
	MetaMarker         byte = 0x06
	MetaCuePoint       byte = 0x07
	MetaEndOfTrack     byte = 0x2F
	MetaTempo          byte = 0x51
)

// MetaName returns a display name for a meta event type.
func MetaName(t byte) string {
	switch t {
	case MetaText:
		return "Text"
	case MetaCopyright:
		return "Copyright"
	case MetaTrackName:
		return "TrackName"
	case MetaInstrumentName:
		return "InstrumentName"
	case MetaLyric:
		return "Lyric"
	case MetaMarker:
		return "Marker"
	case MetaCuePoint:
		return "CuePoint"
	case MetaEndOfTrack:
		return "EndOfTrack"
	case MetaTempo:
		return "Tempo"
	}
	return fmt.Sprintf("Meta(0x%02X)", t)
}

// Event is a single track event.
type Event struct {
	Delta    uint32    // Ticks elapsed since the previous event of the same track.
	Kind     EventKind // What the player does with the event.
	Raw      []byte    // Encoded bytes; sent verbatim for transmitted kinds.
	Tempo    uint32    // Microseconds per beat, TempoChange only.
	MetaType byte      // Meta type byte, meta kinds only.
	Text     string    // Decoded text, Metadata only.
}

func (e Event) String() string {
	switch e.Kind {
	case TempoChange:
		return fmt.Sprintf("Tempo(%dus/beat)", e.Tempo)
	case Metadata:
		return fmt.Sprintf("%s(%q)", MetaName(e.MetaType), e.Text)
	case OtherMeta:
		return MetaName(e.MetaType)
	}
	return fmt.Sprintf("%s(% X)", e.Kind, e.Raw)
}

// Track is an ordered sequence of events. It is never mutated during playback.
type Track []Event

// Song is a parsed Standard MIDI File.
type Song struct {
	Format uint16  // SMF format 0, 1 or 2.
	PPQN   uint16  // Pulses per quarter note.
	Tracks []Track // Tracks in file order.
}
