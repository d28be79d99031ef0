// Package sfx decodes the raw sound effect records of the DOS
// Settlers data file. The records are headerless 8-bit unsigned mono
// samples at 8 kHz; decoding widens them to signed 16-bit PCM.
package sfx

import (
	"encoding/binary"
	"errors"
)

// Sound holds decoded PCM data and parameters. Data is little-endian
// 16-bit samples.
type Sound struct {
	Data       []byte
	SampleRate uint32
	Channels   uint32
	Bits       uint16
}

// ErrEmpty reports a record with no sample data.
var ErrEmpty = errors.New("empty SFX record")

const sampleRate = 8000

// Decode converts a raw SFX record into 16-bit mono PCM. level is
// added to every source sample before widening; the game's clips need
// -32 to sit at a reasonable loudness.
func Decode(data []byte, level int) (*Sound, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	pcm := make([]byte, 0, len(data)*2)
	for _, b := range data {
		v := int(b) + level
		if v < 0 {
			v = 0
		} else if v > 0xFF {
			v = 0xFF
		}
		s := uint16((v - 0x80) << 8)
		pcm = append(pcm, byte(s), byte(s>>8))
	}
	return &Sound{
		Data:       pcm,
		SampleRate: sampleRate,
		Channels:   1,
		Bits:       16,
	}, nil
}

// Samples returns the PCM stream as one int per sample, the layout
// used by go-audio buffers.
func (s *Sound) Samples() []int {
	out := make([]int, len(s.Data)/2)
	for i := range out {
		out[i] = int(int16(binary.LittleEndian.Uint16(s.Data[i*2:])))
	}
	return out
}

// WAV wraps the PCM data in a RIFF/WAVE container.
func (s *Sound) WAV() []byte {
	blockAlign := s.Channels * uint32(s.Bits) / 8
	out := make([]byte, 0, 44+len(s.Data))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(s.Data)))
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, uint16(s.Channels))
	out = binary.LittleEndian.AppendUint32(out, s.SampleRate)
	out = binary.LittleEndian.AppendUint32(out, s.SampleRate*blockAlign)
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, s.Bits)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(s.Data)))
	out = append(out, s.Data...)
	return out
}
