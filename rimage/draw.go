// Package rimage holds the small image helpers the map renderer and
// watermarker share: font loading, text drawing, and arrow drawing over a
// gg context, plus image file writing.
package rimage

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the font we want to use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Font returns the font we use for drawing.
func Font() *truetype.Font {
	return font
}

// DrawString writes a string into the context centered on (x, y).
func DrawString(dc *gg.Context, text string, x, y float64, c color.Color, size float64) {
	dc.SetFontFace(truetype.NewFace(Font(), &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// DrawBoldString writes a string twice with a one pixel offset, a cheap
// double-stroke bold that needs no bold font face.
func DrawBoldString(dc *gg.Context, text string, x, y float64, c color.Color, size float64) {
	DrawString(dc, text, x, y, c, size)
	DrawString(dc, text, x+1, y, c, size)
}

// DrawArrow draws a line from (x1, y1) to (x2, y2) with a v-shaped head at
// the far end.
func DrawArrow(dc *gg.Context, x1, y1, x2, y2 float64, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()

	theta := math.Atan2(y2-y1, x2-x1)
	headLen := math.Max(4, math.Hypot(x2-x1, y2-y1)*0.3)
	for _, side := range []float64{1, -1} {
		angle := theta + side*(math.Pi-math.Pi/6)
		dc.DrawLine(x2, y2, x2+headLen*math.Cos(angle), y2+headLen*math.Sin(angle))
		dc.Stroke()
	}
}
