package main

import (
	"encoding/binary"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"goserf/spa"
)

var audioContext *audio.Context

const playbackRate = 44100

func initSoundContext() {
	audioContext = audio.NewContext(playbackRate)
}

// playSound previews one extracted SFX clip through the ebiten audio
// context, resampling the 8 kHz mono source up to the context rate.
func playSound(a *spa.Archive, index uint32) {
	if audioContext == nil {
		return
	}
	s := a.SoundPCM(index)
	if s == nil {
		return
	}
	src := make([]int16, len(s.Data)/2)
	for i := range src {
		src[i] = int16(binary.LittleEndian.Uint16(s.Data[i*2:]))
	}
	mono := resampleLinear(src, int(s.SampleRate), playbackRate)

	// interleave to the stereo stream the player expects
	pcm := make([]byte, 0, len(mono)*4)
	for _, v := range mono {
		lo, hi := byte(uint16(v)), byte(uint16(v)>>8)
		pcm = append(pcm, lo, hi, lo, hi)
	}
	p := audioContext.NewPlayerFromBytes(pcm)
	p.SetVolume(0.5)
	p.Play()
}

// resampleLinear resamples src from srcRate to dstRate with linear
// interpolation. Preview quality is all that is needed here.
func resampleLinear(src []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(src) == 0 {
		return append([]int16(nil), src...)
	}
	n := len(src) * dstRate / srcRate
	dst := make([]int16, n)
	ratio := float64(srcRate) / float64(dstRate)
	for i := range dst {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= len(src)-1 {
			dst[i] = src[len(src)-1]
			continue
		}
		frac := pos - float64(j)
		dst[i] = int16(float64(src[j])*(1-frac) + float64(src[j+1])*frac)
	}
	return dst
}
