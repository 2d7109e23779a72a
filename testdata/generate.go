// This program generates sample inputs for trying the papersynth subcommands
// by hand:
//
//	testdata/handwriting  transparent word and character PNGs (lines, backgrounds)
//	testdata/backgrounds  paper photographs with a margin and ruling (backgrounds)
//	testdata/scans        unevenly lit scans of writing (preprocess)
//
//go:build ignore

package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

func main() {
	hw := filepath.Join("testdata", "handwriting")
	bgs := filepath.Join("testdata", "backgrounds")
	scans := filepath.Join("testdata", "scans")
	for _, dir := range []string{hw, bgs, scans} {
		os.MkdirAll(dir, 0755)
	}

	// A wide word and a tall single character
	generateWord(filepath.Join(hw, "word.png"), 320, 110)
	generateWord(filepath.Join(hw, "char.png"), 70, 110)

	// Notebook photos must be larger than the 800px border plus a glyph
	generatePaper(filepath.Join(bgs, "notebook.jpg"), 1400, 1200, color.RGBA{246, 243, 232, 255})
	generatePaper(filepath.Join(bgs, "recycled.jpg"), 1300, 1100, color.RGBA{228, 224, 210, 255})

	generateScan(filepath.Join(scans, "shadowed.png"), 400, 220)

	// A non-image file for skip testing
	os.WriteFile(filepath.Join(hw, "readme.txt"), []byte("not an image"), 0644)
}

// generateWord draws a wavy pen stroke on a transparent background.
func generateWord(path string, w, h int) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 8; x < w-8; x++ {
		cy := float64(h)/2 + float64(h)/4*math.Sin(float64(x)/9)
		for dy := -3; dy <= 3; dy++ {
			img.Set(x, int(cy)+dy, color.NRGBA{20, 20, 20, 255})
		}
	}
	savePNG(path, img)
}

// generatePaper draws a tinted sheet with a red margin and blue ruling.
func generatePaper(path string, w, h int, paper color.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := paper
			// Slight vignetting
			d := math.Hypot(float64(x-w/2), float64(y-h/2)) / float64(w)
			c.R -= uint8(20 * d)
			c.G -= uint8(20 * d)
			c.B -= uint8(20 * d)
			switch {
			case x >= 120 && x < 123:
				c = color.RGBA{210, 90, 90, 255}
			case y%48 == 0:
				c = color.RGBA{150, 170, 215, 255}
			}
			img.Set(x, y, c)
		}
	}
	saveJPEG(path, img)
}

// generateScan draws text-like strokes under a shadow that darkens to the
// right.
func generateScan(path string, w, h int) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 235 - 90*x/w
			img.SetGray(x, y, color.Gray{uint8(v)})
		}
	}
	for line := 0; line < 6; line++ {
		y := 25 + line*32
		for x := 20; x < w-20; x++ {
			if (x/14)%4 == 3 {
				continue
			}
			for dy := 0; dy < 3; dy++ {
				img.SetGray(x, y+dy, color.Gray{30})
			}
		}
	}
	savePNG(path, img)
}

func saveJPEG(path string, img image.Image) {
	f, _ := os.Create(path)
	defer f.Close()
	jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func savePNG(path string, img image.Image) {
	f, _ := os.Create(path)
	defer f.Close()
	png.Encode(f, img)
}
