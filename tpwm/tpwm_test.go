package tpwm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func packed(size uint32, stream ...byte) []byte {
	out := append([]byte("TPWM"), binary.LittleEndian.AppendUint32(nil, size)...)
	return append(out, stream...)
}

func TestUnpackLiteralsAndBackReferences(t *testing.T) {
	// two literals, then a back-reference of length 4 at distance 2
	got, err := Unpack(packed(6, 0x20, 'A', 'B', 0x01, 0x02))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("ABABAB")) {
		t.Errorf("Unpack = %q, want %q", got, "ABABAB")
	}
}

func TestUnpackLiteralOnly(t *testing.T) {
	got, err := Unpack(packed(3, 0x00, 'x', 'y', 'z'))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("xyz")) {
		t.Errorf("Unpack = %q, want %q", got, "xyz")
	}
}

func TestUnpackHighDistanceNibble(t *testing.T) {
	// distance 0x102 takes the high nibble of the first reference byte
	const dist = 0x102
	var stream []byte
	for i := 0; i < 256; i += 8 { // 32 full groups of literals
		stream = append(stream, 0x00)
		for j := 0; j < 8; j++ {
			stream = append(stream, byte(i+j))
		}
	}
	// two more literals, then a length-3 reference back to the start
	stream = append(stream, 0x20, 0x00, 0x01, 0x10, 0x02)
	got, err := Unpack(packed(dist+3, stream...))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != dist+3 {
		t.Fatalf("unpacked %d bytes, want %d", len(got), dist+3)
	}
	if !bytes.Equal(got[dist:], got[:3]) {
		t.Errorf("back-reference copied % x, want % x", got[dist:], got[:3])
	}
}

func TestUnpackNotPacked(t *testing.T) {
	if _, err := Unpack([]byte("MPWT....data")); !errors.Is(err, ErrNotPacked) {
		t.Fatalf("err = %v, want ErrNotPacked", err)
	}
	if _, err := Unpack([]byte("TP")); !errors.Is(err, ErrNotPacked) {
		t.Fatalf("short input: err = %v, want ErrNotPacked", err)
	}
}

func TestUnpackTruncatedBackReference(t *testing.T) {
	if _, err := Unpack(packed(4, 0x80, 0x01)); err == nil {
		t.Fatal("truncated back-reference accepted")
	}
}

func TestUnpackBadDistance(t *testing.T) {
	// back-reference before any output exists
	if _, err := Unpack(packed(4, 0x80, 0x01, 0x05)); err == nil {
		t.Fatal("out-of-range distance accepted")
	}
}

func TestUnpackSizeMismatch(t *testing.T) {
	if _, err := Unpack(packed(10, 0x00, 'a', 'b')); err == nil {
		t.Fatal("short stream accepted")
	}
}
