// Package smftest assembles small Standard MIDI Files for tests.
package smftest

import "encoding/binary"

// File returns an SMF with the given format, division and track chunks.
func File(format, division uint16, tracks ...[]byte) []byte {
	out := []byte("MThd")
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, format)
	out = binary.BigEndian.AppendUint16(out, uint16(len(tracks)))
	out = binary.BigEndian.AppendUint16(out, division)
	for _, tr := range tracks {
		out = append(out, "MTrk"...)
		out = binary.BigEndian.AppendUint32(out, uint32(len(tr)))
		out = append(out, tr...)
	}
	return out
}

// Track concatenates encoded events and appends an end-of-track event.
func Track(events ...[]byte) []byte {
	var out []byte
	for _, ev := range events {
		out = append(out, ev...)
	}
	return append(out, 0x00, 0xFF, 0x2F, 0x00)
}

// Event encodes a delta time followed by the message bytes.
func Event(delta uint32, msg ...byte) []byte {
	return append(VLQ(delta), msg...)
}

// Tempo encodes a set-tempo meta event.
func Tempo(delta, microsecondsPerBeat uint32) []byte {
	us := microsecondsPerBeat
	return Event(delta, 0xFF, 0x51, 0x03, byte(us>>16), byte(us>>8), byte(us))
}

// Meta encodes a text-like meta event.
func Meta(delta uint32, typ byte, text string) []byte {
	msg := append([]byte{0xFF, typ}, VLQ(uint32(len(text)))...)
	return Event(delta, append(msg, text...)...)
}

// VLQ encodes v as a MIDI variable length quantity.
func VLQ(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
	}
	return out
}
