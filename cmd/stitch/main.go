package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ovasilenko/roomproof/internal/capture"
	"github.com/ovasilenko/roomproof/internal/panorama"
)

// stitch assembles a 360° panorama from a directory of frames captured
// in rotation order (sorted by filename).
func main() {
	var (
		dir = flag.String("dir", "", "Directory of captured frames")
		out = flag.String("out", "panorama.jpg", "Output file")
	)
	flag.Parse()

	if *dir == "" {
		log.Fatal("Please provide a frame directory with -dir")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal("Failed to read frame directory:", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(*dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	frames := make([]capture.Frame, 0, len(paths))
	for _, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		frames = append(frames, capture.Frame{
			Image:     img,
			Timestamp: time.Now(),
			Index:     len(frames),
		})
	}

	fmt.Printf("Loaded %d frames\n", len(frames))

	composite := panorama.Assemble(frames)
	if composite == nil {
		log.Fatal("No frames to assemble")
	}

	if err := imaging.Save(composite, *out, imaging.JPEGQuality(90)); err != nil {
		log.Fatal("Failed to save panorama:", err)
	}

	fmt.Printf("Wrote %dx%d panorama to %s\n", composite.Bounds().Dx(), composite.Bounds().Dy(), *out)
}
