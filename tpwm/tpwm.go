// Package tpwm unpacks the TPWM whole-file compression some
// distributions of the DOS Settlers data files ship with.
package tpwm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotPacked reports input without the TPWM signature, so callers
// can fall back to treating the bytes as already unpacked.
var ErrNotPacked = errors.New("not a TPWM stream")

var signature = []byte("TPWM")

// Unpack decompresses a TPWM stream. The format is a flag-byte LZ
// scheme: after the signature and the little-endian output size, each
// flag byte governs eight items, most significant bit first. A clear
// bit is a literal. A set bit is a two-byte back-reference: the low
// nibble of the first byte plus 3 is the length, and the high nibble
// with the second byte forms a 12-bit distance.
func Unpack(data []byte) ([]byte, error) {
	if len(data) < 8 || !bytes.Equal(data[:4], signature) {
		return nil, ErrNotPacked
	}
	want := int(binary.LittleEndian.Uint32(data[4:8]))
	src := data[8:]
	out := make([]byte, 0, want)
	for len(src) > 0 && len(out) < want {
		flags := src[0]
		src = src[1:]
		for bit := 0; bit < 8 && len(out) < want; bit++ {
			ref := flags&0x80 != 0
			flags <<= 1
			if !ref {
				if len(src) < 1 {
					return nil, fmt.Errorf("tpwm: truncated literal")
				}
				out = append(out, src[0])
				src = src[1:]
				continue
			}
			if len(src) < 2 {
				return nil, fmt.Errorf("tpwm: truncated back-reference")
			}
			length := int(src[0]&0x0F) + 3
			dist := int(src[1]) | int(src[0]&0xF0)<<4
			src = src[2:]
			if dist <= 0 || dist > len(out) {
				return nil, fmt.Errorf("tpwm: back-reference distance %d outside %d bytes of output",
					dist, len(out))
			}
			for i := 0; i < length && len(out) < want; i++ {
				out = append(out, out[len(out)-dist])
			}
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("tpwm: unpacked %d bytes, header declared %d",
			len(out), want)
	}
	return out, nil
}
