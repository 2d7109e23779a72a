// Package imageio loads and saves the raster images papersynth works on.
//
// Decoding goes through disintegration/imaging, which uses the formats
// registered with the image package. Besides the standard PNG, JPEG and GIF
// decoders this package registers BMP, TIFF and WebP from golang.org/x/image.
package imageio

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Open decodes the image at path, applying any EXIF orientation so that
// photographed backgrounds come out upright.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path. The format follows the extension; quality only
// applies to JPEG output.
func Save(img image.Image, path string, quality int) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// Cache keeps decoded images keyed by path so that a pool of large
// background photographs is decoded at most once per run.
//
// Cache is safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]image.Image)}
}

// Load returns the cached image for path, decoding it on first use.
func (c *Cache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
