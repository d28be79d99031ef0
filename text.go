package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"goserf/spa"
)

const glyphSpacing = 1

// glyphIndex maps one code page 437 byte to a font sprite index. The
// game font covers upper-case letters, digits and a few punctuation
// marks; anything else renders as a gap.
func glyphIndex(b byte) (uint32, bool) {
	switch {
	case b >= 'A' && b <= 'Z':
		return uint32(b - 'A'), true
	case b >= '0' && b <= '9':
		return uint32(b-'0') + 26, true
	}
	switch b {
	case '.':
		return 36, true
	case '-':
		return 37, true
	case ':':
		return 38, true
	case '?':
		return 39, true
	}
	return 0, false
}

// writeBanner renders text with the archive's font sprites and saves
// it as a PNG. Input is recoded to the DOS code page first, the way
// the original game stored its strings.
func writeBanner(a *spa.Archive, text, out string, scale int) error {
	dosText, err := charmap.CodePage437.NewEncoder().String(strings.ToUpper(text))
	if err != nil {
		return fmt.Errorf("encode %q for the DOS font: %w", text, err)
	}

	glyphs := make([]*spa.Sprite, len(dosText))
	width, height, spaceW := 0, 0, 0
	for i := 0; i < len(dosText); i++ {
		gi, ok := glyphIndex(dosText[i])
		if !ok {
			continue
		}
		_, g := a.GetSpriteParts(spa.AssetFont, gi)
		if g == nil {
			return fmt.Errorf("font glyph %d missing from archive", gi)
		}
		glyphs[i] = g
		if g.Height > height {
			height = g.Height
		}
		if g.Width > spaceW {
			spaceW = g.Width
		}
	}
	if height == 0 {
		return fmt.Errorf("no drawable characters in %q", text)
	}
	for _, g := range glyphs {
		if g != nil {
			width += g.Width + glyphSpacing
		} else {
			width += spaceW + glyphSpacing
		}
	}

	canvas := &spa.Sprite{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*4),
	}
	x := 0
	for _, g := range glyphs {
		if g == nil {
			x += spaceW + glyphSpacing
			continue
		}
		canvas.Stick(g, x, 0)
		x += g.Width + glyphSpacing
	}

	img := canvas.RGBA()
	if scale > 1 {
		img = scaleImage(img, scale)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
