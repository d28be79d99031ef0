// Package spa reads the indexed data archive shipped with the DOS
// release of the original Settlers game (SPAE.PA and its language
// siblings) and turns its records into sprites, animation tables,
// sound effects and music.
package spa

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"goserf/sfx"
	"goserf/tpwm"
	"goserf/xmi"
)

type entry struct {
	size   uint32
	offset uint32
}

// Archive provides access to the records of one loaded data file.
// It is read-only after Load and safe for concurrent extraction.
type Archive struct {
	path    string
	data    []byte
	entries []entry
	anims   [animationCount][]Animation
}

// Record ids with a fixed meaning in the shipped data files.
const (
	animationTableRecord = 2
	serfArmsBase         = 1850 // transparent arm sprites matching serf torsos
	sfxBase              = 3900 // SFX clips, index 0 is undefined
	musicBase            = 3990 // XMI tracks
)

const (
	sfxLevelAdjust     = -32
	shadowOverlayValue = 0x80
)

var (
	// ErrFormat reports an index table or record that does not match
	// its declared layout.
	ErrFormat = errors.New("malformed index table")
	// ErrCorruptSprite reports a sprite record whose payload does not
	// match its header.
	ErrCorruptSprite = errors.New("corrupt sprite record")
)

var defaultFileNames = []string{
	"SPAE.PA", // English
	"SPAF.PA", // French
	"SPAD.PA", // German
	"SPAU.PA", // English (US)
}

// locate resolves path to a readable data file. A directory is probed
// for the known default file names.
func locate(path string) (string, error) {
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return path, nil
	}
	for _, name := range defaultFileNames {
		p := filepath.Join(path, name)
		log.Printf("spa: looking for game data in %s", p)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no game data file found under %s", path)
}

// Load reads and indexes the data file at path. Path may name the file
// itself or a directory containing one of the default file names.
func Load(path string) (*Archive, error) {
	p, err := locate(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	// Some distributions ship the file whole-file compressed.
	if unpacked, err := tpwm.Unpack(data); err == nil {
		log.Printf("spa: %s is TPWM compressed", filepath.Base(p))
		data = unpacked
	}

	a := &Archive{path: p, data: data}
	if err := a.parseIndex(); err != nil {
		return nil, err
	}
	a.fixup()

	// The animation table opens with its own byte length in big
	// endian order; a mismatch means the index is unusable.
	anim := a.object(animationTableRecord)
	if len(anim) < 4 {
		return nil, fmt.Errorf("animation table record missing: %w", ErrFormat)
	}
	if n := binary.BigEndian.Uint32(anim[:4]); int(n) != len(anim)-4 {
		return nil, fmt.Errorf("animation table declares %d bytes, has %d: %w",
			n, len(anim)-4, ErrFormat)
	}
	if err := a.loadAnimationTable(anim[4:]); err != nil {
		return nil, err
	}
	return a, nil
}

// Path returns the location of the loaded data file.
func (a *Archive) Path() string { return a.path }

// EntryCount returns the number of index slots, including undefined ones.
func (a *Archive) EntryCount() int { return len(a.entries) }

func (a *Archive) parseIndex() error {
	if len(a.data) < 4 {
		return fmt.Errorf("file of %d bytes: %w", len(a.data), ErrFormat)
	}
	count := binary.LittleEndian.Uint32(a.data[:4])
	if int64(len(a.data)-4) < int64(count)*8 {
		return fmt.Errorf("index table of %d entries runs past end of file: %w",
			count, ErrFormat)
	}
	// Slot 0 stands for the whole file and stays undefined, so record
	// ids line up with the 1-based numbering the game uses.
	a.entries = make([]entry, 1, count+1)
	r := a.data[4:]
	for i := uint32(0); i < count; i++ {
		a.entries = append(a.entries, entry{
			size:   binary.LittleEndian.Uint32(r[0:4]),
			offset: binary.LittleEndian.Uint32(r[4:8]),
		})
		r = r[8:]
	}
	return nil
}

// fixup fills undefined index slots from defined ones elsewhere in the
// table. The slot numbers are fixed properties of the shipped data
// files, not derived from content; they must stay exactly as they are.
func (a *Archive) fixup() {
	cp := func(dst, src int) {
		if dst < len(a.entries) && src < len(a.entries) {
			a.entries[dst] = a.entries[src]
		}
	}

	// 48 groups of six slots share their group's first record.
	for i := 0; i < 48; i++ {
		for j := 1; j < 6; j++ {
			cp(3450+6*i+j, 3450+6*i)
		}
	}

	for i := 0; i < 3; i++ {
		cp(3765+i, 3762+i)
	}

	for i := 0; i < 6; i++ {
		cp(1363+i, 1352)
		cp(1613+i, 1602)
	}
}

// object returns the raw bytes of one record, or nil when the record
// is undefined, out of range, or would reach past the file end. All
// archive reads go through here.
func (a *Archive) object(id uint32) []byte {
	if id >= uint32(len(a.entries)) {
		return nil
	}
	e := a.entries[id]
	if e.offset == 0 {
		return nil
	}
	end := uint64(e.offset) + uint64(e.size)
	if end > uint64(len(a.data)) {
		return nil
	}
	return a.data[e.offset:end]
}

// palette returns the 256-entry RGB table stored in the given record,
// or nil when the record is absent or not exactly 768 bytes.
func (a *Archive) palette(id uint32) []byte {
	p := a.object(id)
	if len(p) != 256*3 {
		return nil
	}
	return p
}

// GetSpriteParts extracts the sprite for an asset kind and index. The
// result is a (mask, image) pair where either part may be nil: plain
// sprites come back as image-only, stencil kinds as mask-only, and
// composite kinds (serf torsos, flags) as both. A missing record or a
// decode failure anywhere yields (nil, nil); partial sprites are never
// returned.
func (a *Archive) GetSpriteParts(res Asset, index uint32) (mask, img *Sprite) {
	if res <= AssetNone || res >= assetCount {
		return nil, nil
	}
	r := &resources[res]
	if index >= uint32(r.count) {
		return nil, nil
	}
	pal := a.palette(r.palette)
	if pal == nil {
		log.Printf("spa: no palette record %d for %s", r.palette, r.name)
		return nil, nil
	}

	switch {
	case res == AssetSerfTorso:
		return a.serfTorso(r, index, pal)
	case res == AssetMapObject && index >= 128 && index <= 143:
		return a.flagSprite(r, index, pal)
	case res == AssetFont || res == AssetFontShadow:
		data := a.object(r.index + index)
		if data == nil {
			return nil, nil
		}
		s, err := decodeTransparent(data, pal, 0)
		if err != nil {
			log.Printf("spa: decode %s #%d: %v", r.name, index, err)
			return nil, nil
		}
		return nil, s
	}

	data := a.object(r.index + index)
	if data == nil {
		return nil, nil
	}
	var s *Sprite
	var err error
	switch r.kind {
	case SpriteTypeSolid:
		s, err = decodeSolid(data, pal)
	case SpriteTypeTransparent:
		s, err = decodeTransparent(data, pal, 0)
	case SpriteTypeOverlay:
		s, err = decodeOverlay(data, pal, shadowOverlayValue)
	case SpriteTypeMask:
		s, err = decodeMask(data)
	default:
		return nil, nil
	}
	if err != nil {
		log.Printf("spa: decode %s #%d: %v", r.name, index, err)
		return nil, nil
	}
	if r.kind == SpriteTypeMask {
		return s, nil
	}
	return nil, s
}

// serfTorso decodes the torso record twice at the two player-color
// offsets, splits the pair into stencil and image, and pastes the
// matching arm sprite onto the image at its origin.
func (a *Archive) serfTorso(r *resource, index uint32, pal []byte) (mask, img *Sprite) {
	data := a.object(r.index + index)
	if data == nil {
		return nil, nil
	}
	torso, err := decodeTransparent(data, pal, 64)
	if err != nil {
		log.Printf("spa: decode %s #%d: %v", r.name, index, err)
		return nil, nil
	}
	torso2, err := decodeTransparent(data, pal, 72)
	if err != nil {
		log.Printf("spa: decode %s #%d: %v", r.name, index, err)
		return nil, nil
	}
	mask, img = separateSprites(torso, torso2)
	if img == nil {
		return nil, nil
	}

	arms := a.object(serfArmsBase + index)
	if arms == nil {
		return nil, nil
	}
	armSprite, err := decodeTransparent(arms, pal, 0)
	if err != nil {
		log.Printf("spa: decode serf arms #%d: %v", index, err)
		return nil, nil
	}
	img.Stick(armSprite, 0, 0)

	return mask, img
}

// flagSprite resolves map-object indices 128..143, which pack four
// flag animation frames as color/stencil pairs four records apart.
func (a *Archive) flagSprite(r *resource, index uint32, pal []byte) (mask, img *Sprite) {
	frame := (index - 128) % 4
	data := a.object(r.index + 128 + frame)
	if data == nil {
		return nil, nil
	}
	s1, err := decodeTransparent(data, pal, 0)
	if err != nil {
		log.Printf("spa: decode %s #%d: %v", r.name, index, err)
		return nil, nil
	}
	data = a.object(r.index + 128 + 4 + frame)
	if data == nil {
		return nil, nil
	}
	s2, err := decodeTransparent(data, pal, 0)
	if err != nil {
		log.Printf("spa: decode %s #%d: %v", r.name, index, err)
		return nil, nil
	}
	return separateSprites(s1, s2)
}

// SoundPCM extracts one SFX record and decodes it to 16-bit PCM.
// Absent records and malformed clips both come back nil; the log line
// tells them apart.
func (a *Archive) SoundPCM(index uint32) *sfx.Sound {
	data := a.object(sfxBase + index)
	if data == nil {
		log.Printf("spa: no SFX clip #%d", index)
		return nil
	}
	s, err := sfx.Decode(data, sfxLevelAdjust)
	if err != nil {
		log.Printf("spa: convert SFX clip #%d: %v", index, err)
		return nil
	}
	return s
}

// GetSound returns one SFX clip as a complete WAV file.
func (a *Archive) GetSound(index uint32) []byte {
	s := a.SoundPCM(index)
	if s == nil {
		return nil
	}
	return s.WAV()
}

// GetMusic returns one music track as a standard MIDI file.
func (a *Archive) GetMusic(index uint32) []byte {
	data := a.object(musicBase + index)
	if data == nil {
		log.Printf("spa: no XMI track #%d", index)
		return nil
	}
	mid, err := xmi.ToMIDI(data)
	if err != nil {
		log.Printf("spa: convert XMI track #%d: %v", index, err)
		return nil
	}
	return mid
}
