package spatialmap

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"go.viam.com/spatialmap/rimage"
)

const (
	// arrowFootOffset is how far, as a fraction of the marker half size,
	// the orientation arrow starts from the marker center.
	arrowFootOffset = 0.7
	// arrowExtraLength is added to the marker radius for the arrow length.
	arrowExtraLength = 8
	// flatForwardEpsilon is the planar norm below which a keyframe's
	// forward axis points too close to vertical to draw an arrow.
	flatForwardEpsilon = 1e-6
	// baseLabelFontSize is multiplied by MapConfig.FontScale.
	baseLabelFontSize = 10.0
)

var robotFillColor = color.NRGBA{R: 50, G: 50, B: 50, A: 255}

// GenerateMap renders the egocentric bird's-eye-view map: the robot at the
// canvas center and every keyframe as a colored square with its 1-indexed
// label and an orientation arrow. It returns the canvas and the id->color
// assignment so downstream consumers (the watermarker) stay consistent with
// the map. The keyframe set and current pose are snapshotted up front, so
// the render is atomic with respect to later additions.
func (sc *SpatialContext) GenerateMap() (image.Image, map[int64]color.NRGBA, error) {
	current := sc.CurrentPose()
	keyframes := sc.snapshotKeyframes()

	points, scale, err := computeLayout(current, keyframes, sc.cfg)
	if err != nil {
		return nil, nil, err
	}
	placements := placeMarkers(points, scale, sc.cfg, true)

	dc := gg.NewContext(sc.cfg.ImageSize, sc.cfg.ImageSize)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	sc.drawRobot(dc)

	colors := make(map[int64]color.NRGBA, len(placements))
	for i, pl := range placements {
		sc.drawKeyframe(dc, pl, points[i], i)
		colors[pl.ID] = pl.Color
	}

	if sc.logger != nil {
		sc.logger.Debugf("rendered map with %d keyframes at %.1f px/m", len(placements), scale)
	}
	return dc.Image(), colors, nil
}

// drawRobot draws the current-position indicator at the canvas center: a
// filled circle, a border ring, and a fixed upward arrow. The map is
// egocentric, so the robot always faces the same canvas direction.
func (sc *SpatialContext) drawRobot(dc *gg.Context) {
	cx := float64(sc.cfg.ImageSize) / 2
	cy := float64(sc.cfg.ImageSize) / 2
	r := float64(sc.cfg.RobotRadius)

	dc.SetColor(robotFillColor)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.SetLineWidth(float64(sc.cfg.BorderThickness))
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()

	rimage.DrawArrow(dc, cx, cy-r-2, cx, cy-r-float64(arrowExtraLength), color.Black, 1.5)
}

// drawKeyframe draws one keyframe marker: filled square, black border,
// centered bold 1-indexed label, and an orientation arrow along the
// keyframe's forward axis projected onto the map plane.
func (sc *SpatialContext) drawKeyframe(dc *gg.Context, pl Placement, pt layoutPoint, index int) {
	r := float64(sc.cfg.KeyframeRadius)
	x := float64(pl.X)
	y := float64(pl.Y)

	dc.SetColor(pl.Color)
	dc.DrawRectangle(x-r, y-r, 2*r, 2*r)
	dc.Fill()

	dc.SetColor(color.Black)
	dc.SetLineWidth(float64(sc.cfg.BorderThickness))
	dc.DrawRectangle(x-r, y-r, 2*r, 2*r)
	dc.Stroke()

	rimage.DrawBoldString(dc, strconv.Itoa(index+1), x, y, color.Black, baseLabelFontSize*sc.cfg.FontScale)

	// forward axis of the relative rotation, projected onto the map plane
	fx := pt.rel.At(0, 2)
	fy := pt.rel.At(1, 2)
	norm := math.Hypot(fx, fy)
	if norm < flatForwardEpsilon {
		// camera axis nearly vertical, no meaningful heading
		return
	}
	// canvas y grows downward, world y renders upward
	dx := fx / norm
	dy := -fy / norm
	footX := x + arrowFootOffset*r*dx
	footY := y + arrowFootOffset*r*dy
	length := r + arrowExtraLength
	rimage.DrawArrow(dc, footX, footY, footX+length*dx, footY+length*dy, color.Black, 1.5)
}
