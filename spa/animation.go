package spa

import (
	"encoding/binary"
	"fmt"
)

// Animation is one frame of a serf animation: the body sprite to draw
// and its pixel displacement.
type Animation struct {
	Sprite uint8
	X      int8
	Y      int8
}

const animationCount = 200

// loadAnimationTable parses the serf animation table record, minus its
// length prefix. The table opens with 200 big-endian offsets measured
// from the table start, each pointing at a run of 3-byte frames. A run
// extends to the closest larger offset, or to the end of the table.
func (a *Archive) loadAnimationTable(data []byte) error {
	if len(data) < animationCount*4 {
		return fmt.Errorf("animation table of %d bytes: %w", len(data), ErrFormat)
	}
	offsets := make([]uint32, animationCount)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}
	for i, off := range offsets {
		if int64(off) > int64(len(data)) {
			return fmt.Errorf("animation %d at offset %d past table end: %w",
				i, off, ErrFormat)
		}
		end := len(data)
		for _, o := range offsets {
			if o > off && int(o) < end {
				end = int(o)
			}
		}
		run := data[off:end]
		frames := make([]Animation, 0, len(run)/3)
		for len(run) >= 3 {
			frames = append(frames, Animation{
				Sprite: run[0],
				X:      int8(run[1]),
				Y:      int8(run[2]),
			})
			run = run[3:]
		}
		a.anims[i] = frames
	}
	return nil
}

// Animations returns the frame run for animation i, or nil when i is
// out of range.
func (a *Archive) Animations(i int) []Animation {
	if i < 0 || i >= animationCount {
		return nil
	}
	return a.anims[i]
}
