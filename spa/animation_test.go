package spa

import (
	"encoding/binary"
	"errors"
	"testing"
)

// animationTable builds the table body (without the length prefix):
// 200 offsets followed by frame bytes. Offsets not given explicitly
// point at the end of the table.
func animationTable(offsets map[int]uint32, frames []byte) []byte {
	body := make([]byte, animationCount*4, animationCount*4+len(frames))
	end := uint32(animationCount*4 + len(frames))
	for i := 0; i < animationCount; i++ {
		off, ok := offsets[i]
		if !ok {
			off = end
		}
		binary.BigEndian.PutUint32(body[i*4:], off)
	}
	return append(body, frames...)
}

func TestLoadAnimationTable(t *testing.T) {
	frames := []byte{
		1, 0xFF, 2, // animation 0, frame 0: sprite 1, x -1, y 2
		3, 4, 5, // animation 0, frame 1
		6, 0, 0xFE, // animation 1, single frame
	}
	base := uint32(animationCount * 4)
	a := &Archive{}
	err := a.loadAnimationTable(animationTable(map[int]uint32{
		0: base,
		1: base + 6,
	}, frames))
	if err != nil {
		t.Fatal(err)
	}

	a0 := a.Animations(0)
	if len(a0) != 2 {
		t.Fatalf("animation 0 has %d frames, want 2", len(a0))
	}
	if a0[0] != (Animation{Sprite: 1, X: -1, Y: 2}) {
		t.Errorf("frame 0 = %+v", a0[0])
	}
	if a0[1] != (Animation{Sprite: 3, X: 4, Y: 5}) {
		t.Errorf("frame 1 = %+v", a0[1])
	}

	a1 := a.Animations(1)
	if len(a1) != 1 {
		t.Fatalf("animation 1 has %d frames, want 1", len(a1))
	}
	if a1[0] != (Animation{Sprite: 6, X: 0, Y: -2}) {
		t.Errorf("frame = %+v", a1[0])
	}

	if got := a.Animations(2); len(got) != 0 {
		t.Errorf("animation 2 has %d frames, want 0", len(got))
	}
	if a.Animations(-1) != nil || a.Animations(animationCount) != nil {
		t.Error("out-of-range animation returned frames")
	}
}

func TestLoadAnimationTableTooShort(t *testing.T) {
	a := &Archive{}
	if err := a.loadAnimationTable(make([]byte, 100)); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestLoadAnimationTableOffsetPastEnd(t *testing.T) {
	a := &Archive{}
	err := a.loadAnimationTable(animationTable(map[int]uint32{5: 100000}, nil))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}
