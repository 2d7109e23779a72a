// Package composite places handwriting glyphs on photographed paper.
package composite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/bagtoad/papersynth/internal/imageio"
	"github.com/bagtoad/papersynth/internal/palette"
	"github.com/bagtoad/papersynth/internal/random"
)

const (
	// Channel values above inkCutoff become 255, the rest 0.
	inkCutoff = 110

	// A roll of at least borderRollCutoff crops the background border.
	borderRollCutoff = 20

	// DefaultBorder is how much of a background's top and left edges is cut
	// off to lose notebook margins and binding holes.
	DefaultBorder = 800
)

// Options are the user's choices for a run.
type Options struct {
	Recolor bool
	Border  int
}

// Params are the random choices made for one glyph.
type Params struct {
	Pen           string
	Background    string
	BorderCropped bool
}

func (p Params) String() string {
	s := "background=" + filepath.Base(p.Background)
	if p.Pen != "" {
		s += " pen=" + p.Pen
	}
	if p.BorderCropped {
		s += " border-cropped"
	}
	return s
}

// Compositor pastes glyphs onto backgrounds drawn from a fixed pool.
type Compositor struct {
	src         *random.Source
	cache       *imageio.Cache
	backgrounds []string
	opts        Options
}

// New returns a Compositor drawing from the background paths. Backgrounds are
// decoded lazily through cache.
func New(src *random.Source, cache *imageio.Cache, backgrounds []string, opts Options) (*Compositor, error) {
	if len(backgrounds) == 0 {
		return nil, errors.New("no background images")
	}
	if opts.Border < 0 {
		return nil, fmt.Errorf("border must not be negative, got %d", opts.Border)
	}
	return &Compositor{src: src, cache: cache, backgrounds: backgrounds, opts: opts}, nil
}

// Compose recolours glyph if requested, picks and trims a background, and
// pastes the glyph at its top-left corner. The result has the glyph's size.
func (c *Compositor) Compose(glyph image.Image) (image.Image, Params, error) {
	var p Params

	ink := imaging.Clone(glyph)
	if c.opts.Recolor {
		pen := random.Choice(c.src, palette.Pens)
		ink = Recolor(Binarize(ink), pen)
		p.Pen = pen.Name
	}

	p.Background = random.Choice(c.src, c.backgrounds)
	bg, err := c.cache.Load(p.Background)
	if err != nil {
		return nil, p, err
	}

	if c.src.Roll() >= borderRollCutoff {
		bg = CropBorder(bg, c.opts.Border)
		p.BorderCropped = true
	}

	fitted := Fit(bg, ink.Bounds().Size())
	return Flatten(Paste(fitted, ink)), p, nil
}

// Binarize snaps every channel of img, alpha included, to 0 or 255.
func Binarize(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i, v := range dst.Pix {
		if v > inkCutoff {
			dst.Pix[i] = 255
		} else {
			dst.Pix[i] = 0
		}
	}
	return dst
}

// Recolor returns a copy of img with every pure black pixel's colour replaced
// by the pen's. Alpha and all other pixels are left alone. A Keep pen returns
// an unchanged copy.
func Recolor(img *image.NRGBA, pen palette.Pen) *image.NRGBA {
	dst := imaging.Clone(img)
	if pen.Keep {
		return dst
	}
	r, g, b := pen.Value.RGB255()
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		px := dst.Pix[i : i+3 : i+3]
		if px[0] == 0 && px[1] == 0 && px[2] == 0 {
			px[0], px[1], px[2] = r, g, b
		}
	}
	return dst
}

// CropBorder cuts border pixels off the top and left of bg. A border as wide
// or tall as bg leaves an empty image.
func CropBorder(bg image.Image, border int) image.Image {
	b := bg.Bounds()
	if border >= b.Dx() || border >= b.Dy() {
		return &image.NRGBA{}
	}
	return imaging.Crop(bg, image.Rect(b.Min.X+border, b.Min.Y+border, b.Max.X, b.Max.Y))
}

// Fit crops bg to size, anchored at its top-left corner. Whatever bg does not
// cover is filled with black.
func Fit(bg image.Image, size image.Point) image.Image {
	b := bg.Bounds()
	if b.Dx() >= size.X && b.Dy() >= size.Y {
		return imaging.Crop(bg, image.Rectangle{Min: b.Min, Max: b.Min.Add(size)})
	}
	return imaging.Paste(imaging.New(size.X, size.Y, color.Black), bg, image.Point{})
}

// Paste composites glyph over bg at the origin, using the glyph's alpha as
// the mask.
func Paste(bg, glyph image.Image) *image.NRGBA {
	dst := imaging.Clone(bg)
	draw.Copy(dst, image.Point{}, glyph, glyph.Bounds(), draw.Over, nil)
	return dst
}

// Flatten drops transparency by compositing img over white.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
