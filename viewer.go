package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"goserf/spa"
)

const (
	viewerW    = 640
	viewerH    = 480
	viewScale  = 4
	maskOffset = 8
)

// viewer is a small browser over the archive: up/down switch asset
// kinds, left/right step the index, enter plays sound clips.
type viewer struct {
	archive *spa.Archive
	kinds   []spa.Asset
	kind    int
	index   int
	img     *ebiten.Image
	mask    *ebiten.Image
	dirty   bool
}

func runViewer(a *spa.Archive) error {
	kinds := make([]spa.Asset, 0, len(spa.Assets()))
	for _, res := range spa.Assets() {
		if res.Count() > 0 && res != spa.AssetAnimation && res != spa.AssetMusic {
			kinds = append(kinds, res)
		}
	}
	ebiten.SetWindowSize(viewerW, viewerH)
	ebiten.SetWindowTitle("goserf asset viewer")
	return ebiten.RunGame(&viewer{archive: a, kinds: kinds, dirty: true})
}

func (v *viewer) current() spa.Asset { return v.kinds[v.kind] }

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		v.kind = (v.kind + len(v.kinds) - 1) % len(v.kinds)
		v.index = 0
		v.dirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		v.kind = (v.kind + 1) % len(v.kinds)
		v.index = 0
		v.dirty = true
	}
	if count := v.current().Count(); count > 0 {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			v.index = (v.index + count - 1) % count
			v.dirty = true
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			v.index = (v.index + 1) % count
			v.dirty = true
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && v.current() == spa.AssetSound {
		playSound(v.archive, uint32(v.index))
	}
	if v.dirty {
		v.refresh()
		v.dirty = false
	}
	return nil
}

func (v *viewer) refresh() {
	v.img, v.mask = nil, nil
	res := v.current()
	if res == spa.AssetSound {
		return
	}
	mask, img := v.archive.GetSpriteParts(res, uint32(v.index))
	if img != nil {
		v.img = ebiten.NewImageFromImage(img.RGBA())
	}
	if mask != nil {
		v.mask = ebiten.NewImageFromImage(mask.RGBA())
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{32, 32, 32, 255})
	x := 16.0
	if v.img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(viewScale, viewScale)
		op.GeoM.Translate(x, 48)
		screen.DrawImage(v.img, op)
		x += float64(v.img.Bounds().Dx()*viewScale + maskOffset)
	}
	if v.mask != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(viewScale, viewScale)
		op.GeoM.Translate(x, 48)
		screen.DrawImage(v.mask, op)
	}

	res := v.current()
	label := fmt.Sprintf("%s %d/%d", res.Name(), v.index, res.Count()-1)
	if res == spa.AssetSound {
		label += "  (enter: play)"
	} else if v.img == nil && v.mask == nil {
		label += "  (absent)"
	}
	ebitenutil.DebugPrintAt(screen, label, 16, 16)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewerW, viewerH
}
