// Package lines draws ruled and graph paper lines over handwriting images.
//
// Line placement mimics notebook paper: the number of rows scales with the
// image height, rows are evenly spaced and may share a small slant, and half
// of the images also get vertical lines that turn them into graph paper.
// Images narrower than they are tall are treated as a single character and
// get fewer, heavier lines.
package lines

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/bagtoad/papersynth/internal/palette"
	"github.com/bagtoad/papersynth/internal/random"
)

const (
	minWidth       = 3.0
	maxWidth       = 4.0
	minSingleWidth = 10.0
	maxSingleWidth = 13.0

	// Rows stop this many pixels short of the bottom edge.
	edgeInset = 10.0

	slantPercent  = 40
	minSlant      = 5
	maxSlant      = 15
	maxGraphStart = 10
)

// SlantDir names the way rows lean towards the right-hand edge. Up moves the
// end of a row down the image (y grows), Down moves it towards the top.
type SlantDir int

const (
	Level SlantDir = iota
	Up
	Down
)

func (d SlantDir) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "level"
	}
}

// Slant shifts the right-hand end of every row by Amount pixels.
type Slant struct {
	Dir    SlantDir
	Amount int
}

// Apply returns the end y of each row starting at ys.
func (s Slant) Apply(ys []float64) []float64 {
	ends := make([]float64, len(ys))
	for i, y := range ys {
		switch s.Dir {
		case Up:
			ends[i] = y + float64(s.Amount)
		case Down:
			ends[i] = y - float64(s.Amount)
		default:
			ends[i] = y
		}
	}
	return ends
}

// Options are the user's choices for a run.
type Options struct {
	// Colors is the pool each image's line colour is drawn from.
	Colors []palette.Color
	// Width fixes the line width; 0 draws it from [3, 4).
	Width float64
}

// Params are the random choices made for one image.
type Params struct {
	Color  palette.Color
	Width  float64
	Graph  bool
	Single bool
	Count  int
	Slant  Slant
}

func (p Params) String() string {
	s := fmt.Sprintf("color=%s width=%.1f lines=%d slant=%s", p.Color, p.Width, p.Count, p.Slant.Dir)
	if p.Slant.Dir != Level {
		s += fmt.Sprintf(":%d", p.Slant.Amount)
	}
	if p.Graph {
		s += " graph"
	}
	if p.Single {
		s += " single"
	}
	return s
}

// Segment is a straight line from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Layout is the set of lines to draw on one image.
type Layout struct {
	Horizontal []Segment
	Vertical   []Segment
}

// Plan makes every random choice for a width x height image and lays out
// its lines.
func Plan(src *random.Source, opts Options, width, height int) (Params, Layout) {
	colors := opts.Colors
	if len(colors) == 0 {
		colors = palette.DefaultLineColors
	}

	p := Params{
		Color:  random.Choice(src, colors),
		Width:  opts.Width,
		Single: width < height,
	}
	if p.Width <= 0 {
		p.Width = src.Uniform(minWidth, maxWidth)
	}
	p.Graph = src.Coin()

	if p.Single {
		p.Width = src.Uniform(minSingleWidth, maxSingleWidth)
		p.Count = src.IntRange(1, 3)
	} else {
		p.Count = NumLines(src, height)
	}
	p.Slant = ChooseSlant(src)

	w, h := float64(width), float64(height)
	n := float64(p.Count)

	var layout Layout
	ys := Linspace(h/n-edgeInset, h-edgeInset, p.Count)
	ends := p.Slant.Apply(ys)
	for i := range ys {
		layout.Horizontal = append(layout.Horizontal, Segment{X1: 0, Y1: ys[i], X2: w, Y2: ends[i]})
	}

	if p.Graph {
		var start, stop float64
		if p.Single {
			start, stop = w/n-edgeInset, w-edgeInset
		} else {
			start, stop = float64(src.IntRange(0, maxGraphStart)), w
		}
		cols := int(math.RoundToEven(n * w / h))
		for _, x := range Linspace(start, stop, cols) {
			layout.Vertical = append(layout.Vertical, Segment{X1: x, Y1: 0, X2: x, Y2: h})
		}
	}

	return p, layout
}

// NumLines draws the row count for an image of the given height.
func NumLines(src *random.Source, height int) int {
	switch {
	case height < 90:
		return 2
	case height < 200:
		return src.IntRange(2, 3)
	case height < 300:
		return src.IntRange(3, 4)
	case height < 400:
		return src.IntRange(3, 5)
	default:
		return src.IntRange(5, 7)
	}
}

// ChooseSlant leaves rows level 60% of the time and otherwise tilts them
// 5 to 15 pixels up or down.
func ChooseSlant(src *random.Source) Slant {
	if src.Roll() > slantPercent {
		return Slant{Dir: Level}
	}
	amount := src.IntRange(minSlant, maxSlant)
	if src.Roll() <= 50 {
		return Slant{Dir: Up, Amount: amount}
	}
	return Slant{Dir: Down, Amount: amount}
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Draw renders layout over img with the colour and width from p. The result
// has the same size as img. Coordinates are relative to img's top-left corner.
func Draw(img image.Image, p Params, layout Layout) image.Image {
	dc := gg.NewContextForImage(normalize(img))
	dc.SetColor(p.Color.Value)
	dc.SetLineWidth(p.Width)
	dc.SetLineCapButt()

	for _, s := range append(layout.Horizontal, layout.Vertical...) {
		dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		dc.Stroke()
	}
	return dc.Image()
}

// normalize moves img's origin to (0, 0), which gg assumes.
func normalize(img image.Image) image.Image {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	return imaging.Clone(img)
}

// Overlay plans and draws lines on img in one step.
func Overlay(img image.Image, src *random.Source, opts Options) (image.Image, Params) {
	b := img.Bounds()
	p, layout := Plan(src, opts, b.Dx(), b.Dy())
	return Draw(img, p, layout), p
}
