// Package writer places transformed images in the output directory.
package writer

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/bagtoad/papersynth/internal/imageio"
)

// Writer saves images under Dir, keeping each input's file name.
type Writer struct {
	Dir       string
	DryRun    bool
	NoClobber bool
	Quality   int
}

// New returns a Writer for dir, creating the directory unless dryRun is set.
func New(dir string, dryRun, noClobber bool, quality int) (*Writer, error) {
	if !dryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create output folder %q: %w", dir, err)
		}
	}
	return &Writer{Dir: dir, DryRun: dryRun, NoClobber: noClobber, Quality: quality}, nil
}

// Path maps an input file to its output path. An empty ext keeps the input's
// extension; otherwise ext (with its leading dot) replaces it.
func (w *Writer) Path(input, ext string) string {
	name := filepath.Base(input)
	if ext != "" {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
	}
	return filepath.Join(w.Dir, name)
}

// Write saves img for input and returns the path written. In dry-run mode
// nothing is written and the would-be path is returned.
func (w *Writer) Write(img image.Image, input, ext string) (string, error) {
	destPath := w.Path(input, ext)
	if w.DryRun {
		return destPath, nil
	}
	if w.NoClobber {
		destPath = resolveConflict(destPath)
	}
	if err := imageio.Save(img, destPath, w.Quality); err != nil {
		return "", err
	}
	return destPath, nil
}

// resolveConflict appends a numeric suffix if a file already exists at destPath.
func resolveConflict(destPath string) string {
	if _, err := os.Stat(destPath); os.IsNotExist(err) {
		return destPath
	}

	ext := filepath.Ext(destPath)
	base := strings.TrimSuffix(destPath, ext)

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
