package xmi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// wrapEVNT builds a FORM:XMID container around raw event bytes.
func wrapEVNT(events []byte) []byte {
	body := append([]byte("XMID"), "EVNT"...)
	body = binary.BigEndian.AppendUint32(body, uint32(len(events)))
	body = append(body, events...)
	out := append([]byte("FORM"), binary.BigEndian.AppendUint32(nil, uint32(len(body)))...)
	return append(out, body...)
}

func TestToMIDINoteDurations(t *testing.T) {
	mid, err := ToMIDI(wrapEVNT([]byte{
		0x0A,                   // wait 10 intervals
		0x90, 0x3C, 0x40, 0x05, // note on, duration 5
		0xFF, 0x2F, 0x00, // end of track
	}))
	if err != nil {
		t.Fatal(err)
	}
	if string(mid[:4]) != "MThd" {
		t.Fatalf("bad header: % x", mid[:8])
	}
	if div := binary.BigEndian.Uint16(mid[12:14]); div != division {
		t.Errorf("division = %d, want %d", div, division)
	}
	track := mid[22:] // after MThd and the MTrk chunk header
	want := []byte{
		0x00, 0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20, // default tempo
		0x0A, 0x90, 0x3C, 0x40, // note on after 10 ticks
		0x05, 0x80, 0x3C, 0x00, // scheduled note off 5 ticks later
		0x00, 0xFF, 0x2F, 0x00, // end of track
	}
	if !bytes.Equal(track, want) {
		t.Errorf("track = % x\nwant % x", track, want)
	}
	if n := binary.BigEndian.Uint32(mid[18:22]); int(n) != len(want) {
		t.Errorf("track length = %d, want %d", n, len(want))
	}
}

func TestToMIDIOverlappingNotes(t *testing.T) {
	mid, err := ToMIDI(wrapEVNT([]byte{
		0x90, 0x30, 0x40, 0x10, // long note
		0x02,                   // short note starts 2 ticks in
		0x90, 0x32, 0x40, 0x04, // and ends before the first
		0xFF, 0x2F, 0x00,
	}))
	if err != nil {
		t.Fatal(err)
	}
	off1 := bytes.Index(mid, []byte{0x80, 0x32, 0x00})
	off2 := bytes.Index(mid, []byte{0x80, 0x30, 0x00})
	if off1 < 0 || off2 < 0 {
		t.Fatal("missing scheduled note offs")
	}
	if off1 > off2 {
		t.Error("note offs not ordered by time")
	}
}

func TestToMIDIChannelAndMetaEvents(t *testing.T) {
	mid, err := ToMIDI(wrapEVNT([]byte{
		0xC0, 0x05, // program change, one operand
		0xB0, 0x07, 0x64, // controller, two operands
		0xFF, 0x51, 0x03, 0x06, 0x8A, 0x1B, // tempo meta passes through
		0xFF, 0x2F, 0x00,
	}))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range [][]byte{
		{0xC0, 0x05},
		{0xB0, 0x07, 0x64},
		{0xFF, 0x51, 0x03, 0x06, 0x8A, 0x1B},
	} {
		if !bytes.Contains(mid, want) {
			t.Errorf("output missing event % x", want)
		}
	}
}

func TestToMIDINestedCAT(t *testing.T) {
	inner := wrapEVNT([]byte{0xFF, 0x2F, 0x00})
	cat := append([]byte("CAT "), binary.BigEndian.AppendUint32(nil, uint32(4+len(inner)))...)
	cat = append(cat, "XMID"...)
	cat = append(cat, inner...)
	if _, err := ToMIDI(cat); err != nil {
		t.Fatalf("nested CAT form rejected: %v", err)
	}
}

func TestToMIDINotXMI(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("RIFF"), []byte("FORM\x00\x00\x00\x04ABCD")} {
		if _, err := ToMIDI(data); !errors.Is(err, ErrNotXMI) {
			t.Errorf("ToMIDI(% x) = %v, want ErrNotXMI", data, err)
		}
	}
}

func TestToMIDITruncatedEvent(t *testing.T) {
	if _, err := ToMIDI(wrapEVNT([]byte{0x90, 0x3C})); err == nil {
		t.Fatal("truncated note-on accepted")
	}
}

func TestVLQRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 0x7F, 0x80, 0x3FFF, 0x4000, 0x1FFFFF} {
		enc := appendVLQ(nil, v)
		got, n, err := readVLQ(enc)
		if err != nil {
			t.Fatalf("readVLQ(% x): %v", enc, err)
		}
		if got != v || n != len(enc) {
			t.Errorf("round trip of %d: got %d from %d bytes of %d", v, got, n, len(enc))
		}
	}
}
