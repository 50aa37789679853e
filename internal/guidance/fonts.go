package guidance

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSet holds the one concrete face per text role used for both
// measurement and drawing, so word-wrap math always matches what ends up
// on the canvas.
type FontSet struct {
	Title    font.Face
	Subtitle font.Face
	Header   font.Face
	Body     font.Face
}

const (
	titleSize    = 48
	subtitleSize = 24
	headerSize   = 24
	bodySize     = 20
)

// ResolveFonts tries to load the preferred TrueType file at each role's
// size and falls back to the builtin bitmap face if the file is missing or
// unreadable. The fallback is all-or-nothing: mixing a loaded face with the
// builtin one would make the images look broken rather than merely plain.
func ResolveFonts(ttfPath string) FontSet {
	if ttfPath != "" {
		title, err1 := gg.LoadFontFace(ttfPath, titleSize)
		subtitle, err2 := gg.LoadFontFace(ttfPath, subtitleSize)
		header, err3 := gg.LoadFontFace(ttfPath, headerSize)
		body, err4 := gg.LoadFontFace(ttfPath, bodySize)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			return FontSet{Title: title, Subtitle: subtitle, Header: header, Body: body}
		}
	}
	builtin := basicfont.Face7x13
	return FontSet{Title: builtin, Subtitle: builtin, Header: builtin, Body: builtin}
}
