package spa

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// Sprite is one decoded image. Pixels holds four bytes per pixel in
// BGRA order, row-major from the top left. A decoder may emit fewer
// than Width*Height pixels when the encoded run data ends early; the
// missing tail is fully transparent.
type Sprite struct {
	Width, Height    int
	DeltaX, DeltaY   int // historical pen offsets, kept for completeness
	OffsetX, OffsetY int // draw anchor relative to the sprite position
	Pixels           []byte
}

const spriteHeaderSize = 10

// parseSpriteHeader reads the geometry header every sprite record
// starts with and returns the sprite shell plus the encoded payload.
func parseSpriteHeader(data []byte) (*Sprite, []byte, error) {
	if len(data) < spriteHeaderSize {
		return nil, nil, fmt.Errorf("sprite record of %d bytes: %w",
			len(data), ErrCorruptSprite)
	}
	s := &Sprite{
		DeltaX:  int(int8(data[0])),
		DeltaY:  int(int8(data[1])),
		Width:   int(binary.LittleEndian.Uint16(data[2:4])),
		Height:  int(binary.LittleEndian.Uint16(data[4:6])),
		OffsetX: int(int16(binary.LittleEndian.Uint16(data[6:8]))),
		OffsetY: int(int16(binary.LittleEndian.Uint16(data[8:10]))),
	}
	return s, data[spriteHeaderSize:], nil
}

// decodeSolid decodes an unpacked rectangular sprite: one palette
// index byte per pixel, all pixels opaque.
func decodeSolid(data, pal []byte) (*Sprite, error) {
	s, payload, err := parseSpriteHeader(data)
	if err != nil {
		return nil, err
	}
	if len(payload) != s.Width*s.Height {
		return nil, fmt.Errorf("solid sprite %dx%d with %d payload bytes: %w",
			s.Width, s.Height, len(payload), ErrCorruptSprite)
	}
	pixels := make([]byte, 0, len(payload)*4)
	for _, b := range payload {
		i := int(b) * 3
		pixels = append(pixels, pal[i+2], pal[i+1], pal[i], 0xFF)
	}
	s.Pixels = pixels
	return s, nil
}

// decodeTransparent decodes the run-length encoding used for
// buildings, serfs and fonts: alternating counts of transparent
// pixels to skip and palette index bytes to draw. colorOffset shifts
// every index before lookup, which is how serf player colors work.
func decodeTransparent(data, pal []byte, colorOffset int) (*Sprite, error) {
	s, payload, err := parseSpriteHeader(data)
	if err != nil {
		return nil, err
	}
	pixels := make([]byte, 0, s.Width*s.Height*4)
	for len(payload) > 0 {
		if len(payload) < 2 {
			return nil, fmt.Errorf("transparent sprite run cut short: %w",
				ErrCorruptSprite)
		}
		drop := int(payload[0])
		fill := int(payload[1])
		if len(payload) < 2+fill {
			return nil, fmt.Errorf("transparent sprite run of %d missing bytes: %w",
				fill, ErrCorruptSprite)
		}
		for i := 0; i < drop; i++ {
			pixels = append(pixels, 0, 0, 0, 0)
		}
		for _, b := range payload[2 : 2+fill] {
			i := ((int(b) + colorOffset) & 0xFF) * 3
			pixels = append(pixels, pal[i+2], pal[i+1], pal[i], 0xFF)
		}
		payload = payload[2+fill:]
	}
	s.Pixels = pixels
	return s, nil
}

// decodeOverlay decodes shadow sprites: the same run structure as
// transparent sprites but with no pixel bytes, every visible pixel
// taking the fixed palette entry and carrying it as its alpha level.
func decodeOverlay(data, pal []byte, value uint8) (*Sprite, error) {
	s, payload, err := parseSpriteHeader(data)
	if err != nil {
		return nil, err
	}
	i := int(value) * 3
	b, g, r := pal[i+2], pal[i+1], pal[i]
	pixels := make([]byte, 0, s.Width*s.Height*4)
	for len(payload) > 0 {
		if len(payload) < 2 {
			return nil, fmt.Errorf("overlay sprite run cut short: %w",
				ErrCorruptSprite)
		}
		drop := int(payload[0])
		fill := int(payload[1])
		payload = payload[2:]
		for j := 0; j < drop; j++ {
			pixels = append(pixels, 0, 0, 0, 0)
		}
		for j := 0; j < fill; j++ {
			pixels = append(pixels, b, g, r, value)
		}
	}
	s.Pixels = pixels
	return s, nil
}

// decodeMask decodes stencil sprites: runs of all-zero and all-one
// pixels used only to gate composition, never drawn directly.
func decodeMask(data []byte) (*Sprite, error) {
	s, payload, err := parseSpriteHeader(data)
	if err != nil {
		return nil, err
	}
	pixels := make([]byte, 0, s.Width*s.Height*4)
	for len(payload) > 0 {
		if len(payload) < 2 {
			return nil, fmt.Errorf("mask sprite run cut short: %w",
				ErrCorruptSprite)
		}
		drop := int(payload[0])
		fill := int(payload[1])
		payload = payload[2:]
		for j := 0; j < drop; j++ {
			pixels = append(pixels, 0, 0, 0, 0)
		}
		for j := 0; j < fill; j++ {
			pixels = append(pixels, 0xFF, 0xFF, 0xFF, 0xFF)
		}
	}
	s.Pixels = pixels
	return s, nil
}

// separateSprites splits two decodes of the same record into a
// (stencil, image) pair. The stencil is opaque wherever the second
// decode produced a visible pixel; the first decode is the image,
// returned as-is. Mismatched dimensions yield no pair.
func separateSprites(s1, s2 *Sprite) (mask, img *Sprite) {
	if s1 == nil || s2 == nil || s1.Width != s2.Width || s1.Height != s2.Height {
		return nil, nil
	}
	m := &Sprite{
		Width:   s2.Width,
		Height:  s2.Height,
		DeltaX:  s2.DeltaX,
		DeltaY:  s2.DeltaY,
		OffsetX: s2.OffsetX,
		OffsetY: s2.OffsetY,
		Pixels:  make([]byte, len(s2.Pixels)),
	}
	for i := 3; i < len(s2.Pixels); i += 4 {
		if s2.Pixels[i] != 0 {
			m.Pixels[i-3], m.Pixels[i-2], m.Pixels[i-1], m.Pixels[i] = 0xFF, 0xFF, 0xFF, 0xFF
		}
	}
	return m, s1
}

// Stick pastes overlay onto s at pixel offset (dx, dy). Overlay pixels
// with zero alpha leave the base untouched; pixels landing outside the
// base are clipped. The base is modified in place.
func (s *Sprite) Stick(overlay *Sprite, dx, dy int) {
	if overlay == nil || overlay.Width == 0 {
		return
	}
	n := len(overlay.Pixels) / 4
	for i := 0; i < n; i++ {
		src := i * 4
		if overlay.Pixels[src+3] == 0 {
			continue
		}
		tx := i%overlay.Width + dx
		ty := i/overlay.Width + dy
		if tx < 0 || ty < 0 || tx >= s.Width || ty >= s.Height {
			continue
		}
		dst := (ty*s.Width + tx) * 4
		if dst+4 > len(s.Pixels) {
			continue
		}
		copy(s.Pixels[dst:dst+4], overlay.Pixels[src:src+4])
	}
}

// RGBA converts the sprite into a standard image for export or
// display. Pixels the decoder never reached stay fully transparent.
func (s *Sprite) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	if s.Width == 0 {
		return img
	}
	n := len(s.Pixels) / 4
	for i := 0; i < n; i++ {
		x, y := i%s.Width, i/s.Width
		if y >= s.Height {
			break
		}
		p := i * 4
		img.SetRGBA(x, y, color.RGBA{
			R: s.Pixels[p+2],
			G: s.Pixels[p+1],
			B: s.Pixels[p],
			A: s.Pixels[p+3],
		})
	}
	return img
}
