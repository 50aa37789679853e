package guidance

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/gg"
)

const (
	mainWidth  = 800
	mainHeight = 400
	stepWidth  = 600
	stepHeight = 300

	// Horizontal room the wrapped body text may use on a step canvas.
	wrapMargin = 40
)

// Renderer draws guidance images. Rendering has no side effects: both
// methods return PNG bytes and leave persistence to the caller. Output is
// deterministic for a given category and font set.
type Renderer struct {
	fonts FontSet
}

func NewRenderer(fonts FontSet) *Renderer {
	return &Renderer{fonts: fonts}
}

// RenderMain draws the 800x400 banner for a category: palette[0]
// background, centered "<name> <icon>" title and "Proper Disposal Guide"
// subtitle in palette[2], and five staggered decorative bars along the
// bottom-left colored from the palette.
func (r *Renderer) RenderMain(cat Category) ([]byte, error) {
	if len(cat.Palette) < 3 {
		return nil, fmt.Errorf("category %q: palette needs at least 3 colors, got %d", cat.Name, len(cat.Palette))
	}

	dc := gg.NewContext(mainWidth, mainHeight)
	dc.SetHexColor(cat.Palette[0])
	dc.Clear()

	title := cat.Name + " " + cat.Icon
	dc.SetFontFace(r.fonts.Title)
	dc.SetHexColor(cat.Palette[2])
	dc.DrawStringAnchored(title, mainWidth/2, 80, 0.5, 1)

	dc.SetFontFace(r.fonts.Subtitle)
	dc.DrawStringAnchored("Proper Disposal Guide", mainWidth/2, 150, 0.5, 1)

	for i := 0; i < 5; i++ {
		x := float64(i * 60)
		y := float64(mainHeight - 100 + i*5)
		dc.SetHexColor(cat.Palette[i%len(cat.Palette)])
		dc.DrawRectangle(x, y, 300, 50)
		dc.Fill()
	}

	return encodePNG(dc)
}

// RenderStep draws the 600x300 image for one disposal step: a colored
// header band, the wrapped step text, and a progress bar filled in
// proportion to stepNum out of the category's total steps.
func (r *Renderer) RenderStep(cat Category, stepNum int, text, colorHex string) ([]byte, error) {
	total := len(cat.Steps)
	if total == 0 {
		return nil, fmt.Errorf("category %q has no steps", cat.Name)
	}

	dc := gg.NewContext(stepWidth, stepHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetHexColor(colorHex)
	dc.DrawRectangle(0, 0, stepWidth, 50)
	dc.Fill()

	header := fmt.Sprintf("%s: Step %d of %d", cat.Name, stepNum, total)
	dc.SetFontFace(r.fonts.Header)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(header, stepWidth/2, 10, 0.5, 1)

	dc.SetFontFace(r.fonts.Body)
	dc.SetRGB(0, 0, 0)
	y := 80.0
	for _, line := range wrapBody(dc, text, stepWidth-wrapMargin) {
		dc.DrawStringAnchored(line, stepWidth/2, y, 0.5, 1)
		y += 30
	}

	// Progress track and fill. A stepNum equal to total fills the track
	// end to end.
	fill := math.Round(float64(stepNum) / float64(total) * (stepWidth - 100))
	dc.SetHexColor("#D3D3D3")
	dc.SetLineWidth(1)
	dc.DrawRectangle(50, stepHeight-50, stepWidth-100, 20)
	dc.Stroke()
	if fill > 0 {
		dc.SetHexColor(colorHex)
		dc.DrawRectangle(50, stepHeight-50, fill, 20)
		dc.Fill()
	}

	return encodePNG(dc)
}

// wrapBody greedily packs words into lines: a word joins the current line
// only while the measured width stays strictly under maxWidth. A single
// word wider than the budget gets its own line, untruncated.
func wrapBody(dc *gg.Context, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		joined := current + " " + word
		if w, _ := dc.MeasureString(joined); w < maxWidth {
			current = joined
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
