package guidance

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	// Empty path resolves to the builtin face, which is always available.
	return NewRenderer(ResolveFonts(""))
}

func decodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func hexColor(t *testing.T, hex string) color.NRGBA {
	t.Helper()
	var r, g, b uint8
	_, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b)
	require.NoError(t, err)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func colorAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func mustGet(t *testing.T, catalog *Catalog, name string) Category {
	t.Helper()
	cat, ok := catalog.Get(name)
	require.True(t, ok)
	return cat
}

func TestRenderMain(t *testing.T) {
	r := testRenderer(t)
	cat := mustGet(t, NewCatalog(), "Plastic Waste")

	data, err := r.RenderMain(cat)
	require.NoError(t, err)
	img := decodeImage(t, data)

	t.Run("canvas and background", func(t *testing.T) {
		assert.Equal(t, 800, img.Bounds().Dx())
		assert.Equal(t, 400, img.Bounds().Dy())
		assert.Equal(t, hexColor(t, cat.Palette[0]), colorAt(img, 790, 10))
	})

	t.Run("decorative bars use the palette", func(t *testing.T) {
		// The fifth bar covers x [240,540], y [320,370] and nothing draws
		// over its right edge.
		assert.Equal(t, hexColor(t, cat.Palette[4]), colorAt(img, 530, 360))
	})

	t.Run("deterministic output", func(t *testing.T) {
		again, err := r.RenderMain(cat)
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})
}

func TestRenderStep(t *testing.T) {
	r := testRenderer(t)
	cat := mustGet(t, NewCatalog(), "Organic Waste")
	color0 := cat.Palette[0]

	t.Run("header band and white body", func(t *testing.T) {
		data, err := r.RenderStep(cat, 1, cat.Steps[0], color0)
		require.NoError(t, err)
		img := decodeImage(t, data)

		assert.Equal(t, 600, img.Bounds().Dx())
		assert.Equal(t, 300, img.Bounds().Dy())
		assert.Equal(t, hexColor(t, color0), colorAt(img, 10, 25))
		assert.Equal(t, color.NRGBA{255, 255, 255, 255}, colorAt(img, 590, 290))
	})

	t.Run("final step fills the whole track", func(t *testing.T) {
		data, err := r.RenderStep(cat, len(cat.Steps), cat.Steps[3], color0)
		require.NoError(t, err)
		img := decodeImage(t, data)

		// Track spans x [50,550], y [250,270]; both ends must carry the
		// fill color.
		assert.Equal(t, hexColor(t, color0), colorAt(img, 52, 260))
		assert.Equal(t, hexColor(t, color0), colorAt(img, 547, 260))
	})

	t.Run("step zero leaves the track empty", func(t *testing.T) {
		data, err := r.RenderStep(cat, 0, "placeholder", color0)
		require.NoError(t, err)
		img := decodeImage(t, data)

		assert.Equal(t, color.NRGBA{255, 255, 255, 255}, colorAt(img, 300, 260))
	})

	t.Run("deterministic output", func(t *testing.T) {
		a, err := r.RenderStep(cat, 2, cat.Steps[1], cat.Palette[1])
		require.NoError(t, err)
		b, err := r.RenderStep(cat, 2, cat.Steps[1], cat.Palette[1])
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("no steps is an error", func(t *testing.T) {
		_, err := r.RenderStep(Category{Name: "Empty"}, 1, "text", "#000000")
		assert.Error(t, err)
	})
}

func TestWrapBody(t *testing.T) {
	dc := gg.NewContext(600, 300)
	dc.SetFontFace(ResolveFonts("").Body)

	t.Run("every line fits the budget", func(t *testing.T) {
		const maxWidth = 560.0
		text := "Separate fluids (oil, coolant, brake fluid) into appropriate containers and keep them away from storm drains at all times"
		lines := wrapBody(dc, text, maxWidth)
		require.NotEmpty(t, lines)
		for _, line := range lines {
			w, _ := dc.MeasureString(line)
			assert.Less(t, w, maxWidth, line)
		}
	})

	t.Run("wrap preserves every word in order", func(t *testing.T) {
		text := "one two three four five six seven eight nine ten"
		lines := wrapBody(dc, text, 120)
		assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
	})

	t.Run("unbreakable word gets its own line untruncated", func(t *testing.T) {
		lines := wrapBody(dc, "a thiswordiswiderthanthebudget b", 60)
		require.Contains(t, lines, "thiswordiswiderthanthebudget")
	})

	t.Run("empty text wraps to nothing", func(t *testing.T) {
		assert.Empty(t, wrapBody(dc, "   ", 560))
	})
}
