package main

import (
	"archive/tar"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hako/durafmt"
	"github.com/klauspost/compress/zstd"
	"github.com/remeh/sizedwaitgroup"
	xdraw "golang.org/x/image/draw"

	"goserf/spa"
)

const dumpWorkers = 4

// dumpAll extracts every asset kind into dir, one file per asset, and
// optionally packs the result into a tar.zst bundle.
func dumpAll(a *spa.Archive, dir string, scale int, bundle string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	start := time.Now()
	var total int64

	swg := sizedwaitgroup.New(dumpWorkers)
	for _, res := range spa.Assets() {
		res := res
		swg.Add()
		go func() {
			defer swg.Done()
			n, err := dumpKind(a, dir, res, scale)
			if err != nil {
				logError("dump %s: %v", res.Name(), err)
			}
			atomic.AddInt64(&total, n)
		}()
	}
	swg.Wait()

	logError("dumped %s to %s in %s",
		humanize.Bytes(uint64(atomic.LoadInt64(&total))), dir,
		durafmt.Parse(time.Since(start).Round(time.Millisecond)).LimitFirstN(2))

	if bundle != "" {
		return writeBundle(dir, bundle)
	}
	return nil
}

func dumpKind(a *spa.Archive, dir string, res spa.Asset, scale int) (int64, error) {
	var total int64
	switch res {
	case spa.AssetSound:
		for i := 0; i < res.Count(); i++ {
			s := a.SoundPCM(uint32(i))
			if s == nil {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%03d.wav", res.Name(), i))
			n, err := writeWAV(path, s.Samples(), int(s.SampleRate), int(s.Bits), int(s.Channels))
			if err != nil {
				return total, err
			}
			total += n
		}
	case spa.AssetMusic:
		for i := 0; i < res.Count(); i++ {
			mid := a.GetMusic(uint32(i))
			if mid == nil {
				continue
			}
			path := filepath.Join(dir, fmt.Sprintf("%s_%03d.mid", res.Name(), i))
			if err := os.WriteFile(path, mid, 0644); err != nil {
				return total, err
			}
			total += int64(len(mid))
		}
	case spa.AssetAnimation:
		n, err := writeAnimationIndex(a, filepath.Join(dir, "animations.txt"))
		if err != nil {
			return total, err
		}
		total += n
	default:
		for i := 0; i < res.Count(); i++ {
			mask, img := a.GetSpriteParts(res, uint32(i))
			if img != nil {
				n, err := writePNG(filepath.Join(dir,
					fmt.Sprintf("%s_%03d.png", res.Name(), i)), img.RGBA(), scale)
				if err != nil {
					return total, err
				}
				total += n
			}
			if mask != nil {
				n, err := writePNG(filepath.Join(dir,
					fmt.Sprintf("%s_%03d_mask.png", res.Name(), i)), mask.RGBA(), scale)
				if err != nil {
					return total, err
				}
				total += n
			}
		}
	}
	return total, nil
}

func writePNG(path string, img *image.RGBA, scale int) (int64, error) {
	if scale > 1 {
		img = scaleImage(img, scale)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		return 0, nil
	}
	return fi.Size(), nil
}

func scaleImage(src *image.RGBA, n int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*n, b.Dy()*n))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func writeWAV(path string, samples []int, rate, bits, channels int) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, rate, bits, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		return 0, nil
	}
	return fi.Size(), nil
}

// writeAnimationIndex lists the serf animation table as text, one line
// per animation with its frame runs.
func writeAnimationIndex(a *spa.Archive, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	for i := 0; i < spa.AssetAnimation.Count(); i++ {
		frames := a.Animations(i)
		fmt.Fprintf(f, "animation %3d: %d frames", i, len(frames))
		for _, fr := range frames {
			fmt.Fprintf(f, " (%d,%+d,%+d)", fr.Sprite, fr.X, fr.Y)
		}
		fmt.Fprintln(f)
	}
	fi, err := f.Stat()
	if err != nil {
		return 0, nil
	}
	return fi.Size(), nil
}

// writeBundle packs the dump directory into a zstd-compressed tar.
func writeBundle(dir, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return zw.Close()
}
