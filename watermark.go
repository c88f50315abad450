package spatialmap

import (
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"

	"go.viam.com/spatialmap/rimage"
)

// KeyframeImage pairs a keyframe id with the camera image captured at its
// promotion.
type KeyframeImage struct {
	ID    int64
	Image image.Image
}

// WatermarkKeyframes stamps each keyframe image with the same color and
// 1-indexed label its marker carries on the map, for visual
// cross-referencing. Labels index by position in the input list, matching
// promotion order. Every id must be present in colors (the map returned by
// GenerateMap); otherwise the call fails with FrameNotFoundError and
// produces no output. Input images are never mutated.
func WatermarkKeyframes(keyframes []KeyframeImage, colors map[int64]color.NRGBA) ([]image.Image, error) {
	for _, kf := range keyframes {
		if _, ok := colors[kf.ID]; !ok {
			return nil, NewFrameNotFoundError(kf.ID)
		}
	}

	out := make([]image.Image, 0, len(keyframes))
	for i, kf := range keyframes {
		out = append(out, watermarkOne(kf.Image, colors[kf.ID], i+1))
	}
	return out, nil
}

// watermarkOne draws a filled, bordered, labeled square in the top-left
// corner of a copy of img. The square side is a sixth of the image height
// and its padding a sixth of that.
func watermarkOne(img image.Image, c color.NRGBA, label int) image.Image {
	// gg copies the source image into a fresh canvas
	dc := gg.NewContextForImage(img)

	size := float64(img.Bounds().Dy()) / 6
	pad := size / 6
	borderWidth := size / 30
	if borderWidth < 2 {
		borderWidth = 2
	}

	dc.SetColor(c)
	dc.DrawRectangle(pad, pad, size, size)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.SetLineWidth(borderWidth)
	dc.DrawRectangle(pad, pad, size, size)
	dc.Stroke()

	rimage.DrawBoldString(dc, strconv.Itoa(label), pad+size/2, pad+size/2, color.Black, size*0.6)
	return dc.Image()
}
