package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/sqweek/dialog"

	"goserf/spa"
)

var (
	baseDir   string
	debugMode bool
)

func main() {
	dataPath := flag.String("data", "", "path to the game data file (SPAE.PA) or its directory")
	dumpDir := flag.String("dump", "", "extract every asset into this directory")
	scale := flag.Int("scale", 1, "integer upscale factor for exported sprites")
	bundle := flag.String("bundle", "", "also pack the dump into a tar.zst bundle at this path")
	banner := flag.String("banner", "", "render text with the game font instead of dumping")
	outPath := flag.String("out", "banner.png", "output file for -banner")
	flag.BoolVar(&debugMode, "debug", false, "verbose/debug logging")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}
	setupLogging(debugMode)

	path := *dataPath
	if path == "" {
		p, err := dialog.File().Title("Select Settlers data file (SPAE.PA)").Load()
		if err != nil {
			log.Fatalf("no data file given (use -data)")
		}
		path = p
	}

	start := time.Now()
	archive, err := spa.Load(path)
	if err != nil {
		log.Fatalf("load game data: %v", err)
	}
	logArchiveInfo(archive, time.Since(start))

	switch {
	case *dumpDir != "":
		if err := dumpAll(archive, *dumpDir, *scale, *bundle); err != nil {
			log.Fatalf("dump assets: %v", err)
		}
	case *banner != "":
		if err := writeBanner(archive, *banner, *outPath, *scale); err != nil {
			log.Fatalf("render banner: %v", err)
		}
	default:
		initSoundContext()
		if err := runViewer(archive); err != nil {
			log.Fatalf("viewer: %v", err)
		}
	}
}

// logArchiveInfo fingerprints the raw data file so logs identify which
// language variant produced a dump.
func logArchiveInfo(a *spa.Archive, d time.Duration) {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		return
	}
	logDebug("archive fingerprint %016x", xxhash.Sum64(data))
	logError("loaded %s: %s, %d index entries, in %s",
		filepath.Base(a.Path()),
		humanize.Bytes(uint64(len(data))),
		a.EntryCount(),
		durafmt.Parse(d.Round(time.Millisecond)).LimitFirstN(2))
}
