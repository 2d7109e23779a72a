package composite

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagtoad/papersynth/internal/imageio"
	"github.com/bagtoad/papersynth/internal/palette"
	"github.com/bagtoad/papersynth/internal/random"
)

func fill(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// glyph returns a transparent width x height image with an opaque black
// stroke along row y.
func glyph(width, height, y int) *image.NRGBA {
	img := fill(width, height, color.NRGBA{255, 255, 255, 0})
	for x := 0; x < width; x++ {
		img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
	}
	return img
}

func pen(t *testing.T, name string) palette.Pen {
	t.Helper()
	for _, p := range palette.Pens {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no pen %q", name)
	return palette.Pen{}
}

func writeJPEG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 95}))
	return path
}

func TestBinarize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{100, 110, 111, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 50, 120, 30})

	out := Binarize(img)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 255, 0}, out.NRGBAAt(1, 0))
	// Input is not modified.
	assert.Equal(t, color.NRGBA{100, 110, 111, 255}, img.NRGBAAt(0, 0))
}

func TestRecolorOnlyTouchesBlack(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	img.SetNRGBA(2, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(3, 0, color.NRGBA{255, 0, 0, 255})

	for _, name := range []string{"red", "blue", "pencil"} {
		t.Run(name, func(t *testing.T) {
			p := pen(t, name)
			r, g, b := p.Value.RGB255()

			out := Recolor(img, p)
			assert.Equal(t, color.NRGBA{r, g, b, 255}, out.NRGBAAt(0, 0))
			assert.Equal(t, color.NRGBA{r, g, b, 0}, out.NRGBAAt(1, 0), "alpha is kept")
			assert.Equal(t, img.NRGBAAt(2, 0), out.NRGBAAt(2, 0))
			assert.Equal(t, img.NRGBAAt(3, 0), out.NRGBAAt(3, 0))
		})
	}
}

func TestRecolorBlackPenKeepsImage(t *testing.T) {
	img := glyph(10, 5, 2)
	out := Recolor(img, pen(t, "black"))
	assert.Equal(t, img.Pix, out.Pix)
}

func TestCropBorder(t *testing.T) {
	bg := fill(1000, 900, color.White)

	cropped := CropBorder(bg, 800)
	assert.Equal(t, image.Pt(200, 100), cropped.Bounds().Size())

	assert.Equal(t, bg.Bounds().Size(), CropBorder(bg, 0).Bounds().Size())
	assert.True(t, CropBorder(bg, 900).Bounds().Empty(), "border as tall as the image")
}

func TestFit(t *testing.T) {
	bg := fill(300, 200, color.NRGBA{10, 20, 30, 255})
	out := Fit(bg, image.Pt(120, 40))
	assert.Equal(t, image.Pt(120, 40), out.Bounds().Size())
	r, g, b, _ := out.At(119, 39).RGBA()
	assert.Equal(t, [3]uint32{10, 20, 30}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestFitPadsWithBlack(t *testing.T) {
	bg := fill(50, 30, color.NRGBA{200, 200, 200, 255})

	out := Fit(bg, image.Pt(100, 40))
	require.Equal(t, image.Pt(100, 40), out.Bounds().Size())

	assert.Equal(t, color.NRGBA{200, 200, 200, 255}, color.NRGBAModel.Convert(out.At(10, 10)))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, color.NRGBAModel.Convert(out.At(60, 10)), "right of the background")
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, color.NRGBAModel.Convert(out.At(10, 35)), "below the background")

	empty := Fit(&image.NRGBA{}, image.Pt(8, 4))
	assert.Equal(t, image.Pt(8, 4), empty.Bounds().Size())
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, color.NRGBAModel.Convert(empty.At(3, 2)))
}

func TestPaste(t *testing.T) {
	bg := fill(20, 10, color.NRGBA{200, 180, 160, 255})
	out := Paste(bg, glyph(20, 10, 4))

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(5, 4), "opaque ink replaces paper")
	assert.Equal(t, color.NRGBA{200, 180, 160, 255}, out.NRGBAAt(5, 0), "transparent glyph shows paper")
}

func TestFlatten(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0})
	img.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 255})

	out := Flatten(img)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, out.RGBAAt(1, 0))
}

func TestNewValidates(t *testing.T) {
	_, err := New(random.New(1), imageio.NewCache(), nil, Options{})
	assert.Error(t, err)

	_, err = New(random.New(1), imageio.NewCache(), []string{"a.jpg"}, Options{Border: -1})
	assert.Error(t, err)
}

func TestComposeKeepsGlyphSize(t *testing.T) {
	dir := t.TempDir()
	bgPath := writeJPEG(t, dir, "paper.jpg", fill(1200, 1000, color.NRGBA{230, 225, 210, 255}))

	c, err := New(random.New(5), imageio.NewCache(), []string{bgPath}, Options{Recolor: true, Border: DefaultBorder})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		out, p, err := c.Compose(glyph(150, 60, 30))
		require.NoError(t, err)
		assert.Equal(t, image.Pt(150, 60), out.Bounds().Size())
		assert.Equal(t, bgPath, p.Background)
		assert.Contains(t, []string{"red", "black", "blue", "pencil"}, p.Pen)

		// Ink colour lands on row 30; paper shows elsewhere.
		r, g, b, _ := out.At(10, 30).RGBA()
		pr, pg, pb := pen(t, p.Pen).Value.RGB255()
		if p.Pen == "black" {
			pr, pg, pb = 0, 0, 0
		}
		assert.Equal(t, [3]uint8{pr, pg, pb}, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})

		r, _, _, _ = out.At(10, 5).RGBA()
		assert.InDelta(t, 230, int(r>>8), 3, "paper colour survives JPEG round trip")
	}
}

func TestComposeWithoutRecolor(t *testing.T) {
	dir := t.TempDir()
	bgPath := writeJPEG(t, dir, "paper.jpg", fill(400, 300, color.White))

	c, err := New(random.New(3), imageio.NewCache(), []string{bgPath}, Options{Border: 100})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		out, p, err := c.Compose(glyph(100, 40, 10))
		require.NoError(t, err)
		assert.Empty(t, p.Pen)
		assert.Equal(t, image.Pt(100, 40), out.Bounds().Size())

		r, _, _, _ := out.At(50, 30).RGBA()
		assert.InDelta(t, 255, int(r>>8), 3, "white paper covers the glyph")
	}
}

func TestComposeSmallBackgroundIsPadded(t *testing.T) {
	dir := t.TempDir()
	bgPath := writeJPEG(t, dir, "scrap.jpg", fill(50, 50, color.White))

	c, err := New(random.New(3), imageio.NewCache(), []string{bgPath}, Options{Border: DefaultBorder})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		out, p, err := c.Compose(glyph(100, 40, 10))
		require.NoError(t, err)
		require.Equal(t, image.Pt(100, 40), out.Bounds().Size())

		// Past the 50px background, or everywhere once the 800px border
		// has cropped it away, the paper is black.
		r, _, _, _ := out.At(80, 30).RGBA()
		assert.Equal(t, uint32(0), r>>8)
		if p.BorderCropped {
			r, _, _, _ = out.At(20, 30).RGBA()
			assert.Equal(t, uint32(0), r>>8)
		} else {
			r, _, _, _ = out.At(20, 30).RGBA()
			assert.InDelta(t, 255, int(r>>8), 3)
		}
	}
}

func TestParamsString(t *testing.T) {
	p := Params{Pen: "blue", Background: "/bg/paper.jpg", BorderCropped: true}
	assert.Equal(t, "background=paper.jpg pen=blue border-cropped", p.String())
}
