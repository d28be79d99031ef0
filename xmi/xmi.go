// Package xmi converts XMIDI (XMI) music records into standard MIDI
// files. XMI stores note durations inline and counts time in fixed
// 1/120 second intervals; conversion schedules explicit note-off
// events and rewrites timing as standard deltas.
package xmi

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// ErrNotXMI reports input that contains no XMIDI event chunk.
var ErrNotXMI = errors.New("not an XMI stream")

// a 120 Hz tick stream maps onto 60 ticks per quarter at 120 BPM
const (
	division     = 60
	defaultTempo = 500000 // microseconds per quarter
)

type event struct {
	time uint64
	data []byte
}

// ToMIDI converts an XMI track into a type-0 standard MIDI file.
func ToMIDI(data []byte) ([]byte, error) {
	evnt := findEVNT(data)
	if evnt == nil {
		return nil, ErrNotXMI
	}
	events, err := convertEvents(evnt)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].time < events[j].time
	})
	return writeSMF(events), nil
}

// findEVNT walks the IFF chunk tree (FORM:XDIR, CAT:XMID, FORM:XMID)
// and returns the body of the first EVNT chunk.
func findEVNT(data []byte) []byte {
	for len(data) >= 8 {
		tag := string(data[:4])
		size := int(binary.BigEndian.Uint32(data[4:8]))
		if size < 0 || size > len(data)-8 {
			return nil
		}
		body := data[8 : 8+size]
		switch tag {
		case "EVNT":
			return body
		case "FORM", "CAT ":
			// skip the subtype, then search the contained chunks
			if len(body) >= 4 {
				if ev := findEVNT(body[4:]); ev != nil {
					return ev
				}
			}
		}
		// chunks are padded to even length
		if size%2 != 0 {
			size++
		}
		if len(data) < 8+size {
			return nil
		}
		data = data[8+size:]
	}
	return nil
}

// convertEvents translates the XMI event stream into absolutely-timed
// MIDI events. Bytes below 0x80 accumulate time; note-on events carry
// their duration as a trailing variable-length quantity.
func convertEvents(ev []byte) ([]event, error) {
	events := []event{
		{0, []byte{0xFF, 0x51, 0x03,
			defaultTempo >> 16 & 0xFF, defaultTempo >> 8 & 0xFF, defaultTempo & 0xFF}},
	}
	var t uint64
	p := 0
	for p < len(ev) {
		b := ev[p]
		if b < 0x80 {
			t += uint64(b)
			p++
			continue
		}
		switch {
		case b == 0xFF:
			if p+2 > len(ev) {
				return nil, fmt.Errorf("xmi: truncated meta event")
			}
			typ := ev[p+1]
			l, n, err := readVLQ(ev[p+2:])
			if err != nil {
				return nil, err
			}
			end := p + 2 + n + int(l)
			if end > len(ev) {
				return nil, fmt.Errorf("xmi: meta event past stream end")
			}
			if typ == 0x2F { // end of track, emitted by the writer
				return events, nil
			}
			events = append(events, event{t, append([]byte(nil), ev[p:end]...)})
			p = end
		case b == 0xF0 || b == 0xF7:
			l, n, err := readVLQ(ev[p+1:])
			if err != nil {
				return nil, err
			}
			end := p + 1 + n + int(l)
			if end > len(ev) {
				return nil, fmt.Errorf("xmi: sysex past stream end")
			}
			events = append(events, event{t, append([]byte(nil), ev[p:end]...)})
			p = end
		case b&0xF0 == 0x90:
			if p+3 > len(ev) {
				return nil, fmt.Errorf("xmi: truncated note-on")
			}
			note, vel := ev[p+1], ev[p+2]
			dur, n, err := readVLQ(ev[p+3:])
			if err != nil {
				return nil, err
			}
			events = append(events, event{t, []byte{b, note, vel}})
			events = append(events, event{t + dur, []byte{0x80 | b&0x0F, note, 0}})
			p += 3 + n
		default:
			n := 2
			if c := b & 0xF0; c == 0xC0 || c == 0xD0 {
				n = 1
			}
			if p+1+n > len(ev) {
				return nil, fmt.Errorf("xmi: truncated channel event %#x", b)
			}
			events = append(events, event{t, append([]byte(nil), ev[p:p+1+n]...)})
			p += 1 + n
		}
	}
	return events, nil
}

func readVLQ(data []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(data) && i < 4; i++ {
		v = v<<7 | uint64(data[i]&0x7F)
		if data[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("xmi: unterminated variable-length quantity")
}

func appendVLQ(out []byte, v uint64) []byte {
	var tmp [8]byte
	n := 0
	for {
		tmp[n] = byte(v & 0x7F)
		v >>= 7
		n++
		if v == 0 {
			break
		}
	}
	for i := n - 1; i > 0; i-- {
		out = append(out, tmp[i]|0x80)
	}
	return append(out, tmp[0])
}

func writeSMF(events []event) []byte {
	var track []byte
	var last uint64
	for _, e := range events {
		track = appendVLQ(track, e.time-last)
		track = append(track, e.data...)
		last = e.time
	}
	track = append(track, 0x00, 0xFF, 0x2F, 0x00)

	out := make([]byte, 0, 14+8+len(track))
	out = append(out, "MThd"...)
	out = binary.BigEndian.AppendUint32(out, 6)
	out = binary.BigEndian.AppendUint16(out, 0) // format 0
	out = binary.BigEndian.AppendUint16(out, 1) // one track
	out = binary.BigEndian.AppendUint16(out, division)
	out = append(out, "MTrk"...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(track)))
	out = append(out, track...)
	return out
}
