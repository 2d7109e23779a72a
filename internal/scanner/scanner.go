// Package scanner lists the input images of a run.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// ErrNoImages is returned when a directory holds no file with an accepted
// extension.
var ErrNoImages = errors.New("no image files found")

// DefaultExtensions is every format papersynth can decode.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".tiff", ".tif"}

// PNGOnly accepts handwriting glyphs, which need an alpha channel.
var PNGOnly = []string{".png"}

// JPEGOnly accepts photographed backgrounds.
var JPEGOnly = []string{".jpg", ".jpeg"}

// Result holds the output of scanning a directory.
type Result struct {
	ImagePaths   []string
	SkippedCount int
}

// Scan lists dir (non-recursive) and returns the paths of files whose
// extension, compared case-insensitively, is in exts, sorted by name.
// Hidden files and sub-directories are ignored; any other file counts as
// skipped. A nil exts means DefaultExtensions.
func Scan(dir string, exts []string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	if exts == nil {
		exts = DefaultExtensions
	}
	accepted := lo.Map(exts, func(e string, _ int) string { return strings.ToLower(e) })

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if lo.Contains(accepted, ext) {
			result.ImagePaths = append(result.ImagePaths, filepath.Join(dir, entry.Name()))
		} else {
			result.SkippedCount++
		}
	}

	if len(result.ImagePaths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}
	sort.Strings(result.ImagePaths)

	return result, nil
}

// Limit caps paths at n entries when quickTest is set. n below 1 is treated
// as 1.
func Limit(paths []string, quickTest bool, n int) []string {
	if !quickTest {
		return paths
	}
	if n < 1 {
		n = 1
	}
	if len(paths) > n {
		return paths[:n]
	}
	return paths
}
