// Package cleanup turns photographed or scanned handwriting into clean
// black-on-white images.
//
// The pipeline converts to grayscale, smooths sensor noise with an
// edge-preserving bilateral filter, flattens uneven lighting by subtracting
// a dilated and median-blurred estimate of the paper, and finally binarizes
// with either a fixed cutoff or Otsu's automatic threshold.
package cleanup

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/ernyoke/imger/grayscale"
	"github.com/ernyoke/imger/threshold"
	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/draw"
)

// ErrUnknownThreshold is returned for a threshold type other than simple or
// otsu.
var ErrUnknownThreshold = errors.New("unknown threshold type")

// ThresholdType selects how the binarization cutoff is chosen.
type ThresholdType string

const (
	Simple ThresholdType = "simple"
	Otsu   ThresholdType = "otsu"
)

// ParseThresholdType validates a --threshold-type value.
func ParseThresholdType(s string) (ThresholdType, error) {
	switch t := ThresholdType(strings.ToLower(strings.TrimSpace(s))); t {
	case Simple, Otsu:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q (want simple or otsu)", ErrUnknownThreshold, s)
	}
}

// Defaults mirror the values the training data was tuned with.
const (
	DefaultThresholdValue = 190
	DefaultShadowKernel   = 20
	DefaultMedianSize     = 21

	bilateralDiameter = 7
	bilateralSigma    = 75.0
)

// Options configure Clean.
type Options struct {
	Type  ThresholdType
	Value uint8
	// ShadowKernel is the side of the square dilation window.
	ShadowKernel int
	// MedianSize is the side of the median blur window.
	MedianSize int
}

// DefaultOptions returns simple thresholding at 190.
func DefaultOptions() Options {
	return Options{
		Type:         Simple,
		Value:        DefaultThresholdValue,
		ShadowKernel: DefaultShadowKernel,
		MedianSize:   DefaultMedianSize,
	}
}

// Validate checks the options before any image is read.
func (o Options) Validate() error {
	if _, err := ParseThresholdType(string(o.Type)); err != nil {
		return err
	}
	if o.ShadowKernel < 1 {
		return fmt.Errorf("shadow kernel must be at least 1, got %d", o.ShadowKernel)
	}
	if o.MedianSize < 1 {
		return fmt.Errorf("median size must be at least 1, got %d", o.MedianSize)
	}
	return nil
}

func (o Options) String() string {
	if o.Type == Otsu {
		return "threshold=otsu"
	}
	return fmt.Sprintf("threshold=simple:%d", o.Value)
}

// Clean runs the full pipeline on img. The result has img's size and every
// pixel is either 0 or 255.
func Clean(img image.Image, opts Options) (*image.Gray, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	gray := grayscale.Grayscale(img)
	filtered := Bilateral(gray, bilateralDiameter, bilateralSigma, bilateralSigma)
	flat := RemoveShadow(filtered, opts.ShadowKernel, opts.MedianSize)
	return Binarize(flat, opts)
}

// RemoveShadow estimates the paper's brightness with a dilation followed by
// a median blur and returns 255 - |gray - paper|, which turns uneven
// lighting into flat white while keeping ink dark.
func RemoveShadow(gray *image.Gray, kernel, medianSize int) *image.Gray {
	dilated := effect.Dilate(gray, float64(kernel)/2)
	paper := toGray(effect.Median(dilated, float64(medianSize/2)))

	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	pb := paper.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			p := int(paper.GrayAt(pb.Min.X+x, pb.Min.Y+y).Y)
			d := v - p
			if d < 0 {
				d = -d
			}
			out.Pix[y*out.Stride+x] = uint8(255 - d)
		}
	}
	return out
}

// toGray converts img to 8-bit gray with the standard library's exact
// luma weights, so gray input survives an RGBA round trip unchanged.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Binarize applies the threshold chosen by opts.
func Binarize(gray *image.Gray, opts Options) (*image.Gray, error) {
	var (
		out *image.Gray
		err error
	)
	switch opts.Type {
	case Otsu:
		out, err = threshold.OtsuThreshold(gray, threshold.ThreshBinary)
	case Simple:
		// Imger keeps pixels >= its cutoff; a pixel must exceed Value to turn white.
		if opts.Value == 255 {
			b := gray.Bounds()
			return image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy())), nil
		}
		out, err = threshold.Threshold(gray, opts.Value+1, threshold.ThreshBinary)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownThreshold, opts.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("threshold failed: %w", err)
	}
	return out, nil
}

// Bilateral smooths gray while keeping edges: each output pixel is the mean
// of its neighbours within diameter/2, weighted both by distance
// (sigmaSpace) and by intensity difference (sigmaColor). Neighbours outside
// the image are ignored rather than reflected, so border pixels differ
// slightly from a reflect-101 implementation.
func Bilateral(gray *image.Gray, diameter int, sigmaColor, sigmaSpace float64) *image.Gray {
	radius := diameter / 2
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	type tap struct {
		dx, dy int
		weight float64
	}
	var taps []tap
	spaceCoeff := -0.5 / (sigmaSpace * sigmaSpace)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r2 := float64(dx*dx + dy*dy)
			if r2 > float64(radius*radius) {
				continue
			}
			taps = append(taps, tap{dx, dy, math.Exp(r2 * spaceCoeff)})
		}
	}

	var colorWeight [256]float64
	colorCoeff := -0.5 / (sigmaColor * sigmaColor)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	at := func(x, y int) int {
		return int(gray.Pix[y*gray.Stride+x])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := at(x, y)
			var sum, norm float64
			for _, t := range taps {
				nx, ny := x+t.dx, y+t.dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				v := at(nx, ny)
				d := v - center
				if d < 0 {
					d = -d
				}
				wt := t.weight * colorWeight[d]
				sum += wt * float64(v)
				norm += wt
			}
			out.Pix[y*out.Stride+x] = uint8(math.Round(sum / norm))
		}
	}
	return out
}
