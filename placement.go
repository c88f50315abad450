package spatialmap

import (
	"image/color"
	"math"
)

const (
	// maxCollisionRings bounds the outward spiral search.
	maxCollisionRings = 10
	// whitewashFraction blends marker colors toward white so the black
	// labels stay legible on top of them.
	whitewashFraction = 0.45
)

// markerPalette is the fixed 8-color cycle assigned to keyframes by
// promotion order. Kept in sync with the watermarked keyframe images via
// the id->color map returned by GenerateMap.
var markerPalette = []color.NRGBA{
	{R: 230, G: 60, B: 60, A: 255},  // red
	{R: 60, G: 180, B: 75, A: 255},  // green
	{R: 65, G: 100, B: 225, A: 255}, // blue
	{R: 245, G: 150, B: 40, A: 255}, // orange
	{R: 150, G: 60, B: 190, A: 255}, // purple
	{R: 70, G: 200, B: 200, A: 255}, // cyan
	{R: 220, G: 70, B: 190, A: 255}, // magenta
	{R: 190, G: 190, B: 50, A: 255}, // olive
}

// paletteColor returns the whitewashed palette color for the i-th placed
// keyframe.
func paletteColor(i int) color.NRGBA {
	c := markerPalette[i%len(markerPalette)]
	return color.NRGBA{
		R: whitewash(c.R),
		G: whitewash(c.G),
		B: whitewash(c.B),
		A: 255,
	}
}

func whitewash(channel uint8) uint8 {
	return uint8(float64(channel) + (255-float64(channel))*whitewashFraction)
}

// Placement is one keyframe's final canvas position and color for a single
// render. Placements are recomputed on every render and never persisted.
type Placement struct {
	ID    int64
	X, Y  int
	Color color.NRGBA
}

type placedCircle struct {
	x, y, r float64
}

func (c placedCircle) collides(x, y, r float64) bool {
	return math.Hypot(c.x-x, c.y-y) < c.r+r
}

// placeMarkers converts egocentric displacements to canvas pixels. The
// current pose sits at the canvas center; world +x goes right and world +y
// goes up (pixel y decreases). Markers are clamped inside the border, and
// overlaps with the robot indicator or previously placed keyframes are
// resolved by an outward ring search.
func placeMarkers(points []layoutPoint, scale float64, cfg MapConfig, avoidCollisions bool) []Placement {
	center := cfg.ImageSize / 2
	radius := float64(cfg.KeyframeRadius)

	// the robot indicator is placed first and never moves
	occupied := []placedCircle{{
		x: float64(center), y: float64(center), r: float64(cfg.RobotRadius),
	}}

	placements := make([]Placement, 0, len(points))
	for i, p := range points {
		px := center + int(math.Round(p.x*scale))
		py := center - int(math.Round(p.y*scale))
		px = clamp(px, cfg.BorderSize+cfg.KeyframeRadius, cfg.ImageSize-cfg.BorderSize-cfg.KeyframeRadius)
		py = clamp(py, cfg.BorderSize+cfg.KeyframeRadius, cfg.ImageSize-cfg.BorderSize-cfg.KeyframeRadius)

		if avoidCollisions {
			px, py = resolveCollision(px, py, radius, occupied)
			px = clamp(px, cfg.BorderSize+cfg.KeyframeRadius, cfg.ImageSize-cfg.BorderSize-cfg.KeyframeRadius)
			py = clamp(py, cfg.BorderSize+cfg.KeyframeRadius, cfg.ImageSize-cfg.BorderSize-cfg.KeyframeRadius)
		}

		occupied = append(occupied, placedCircle{x: float64(px), y: float64(py), r: radius})
		placements = append(placements, Placement{ID: p.id, X: px, Y: py, Color: paletteColor(i)})
	}
	return placements
}

// resolveCollision searches concentric rings around the candidate for the
// first free spot: ring i has radius i*markerRadius and max(8, i*8) evenly
// spaced samples. If every ring is exhausted it degrades to a fixed offset
// of 3*markerRadius to the right, unchecked; a still-overlapping marker is
// preferred over losing it.
func resolveCollision(px, py int, radius float64, occupied []placedCircle) (int, int) {
	if !anyCollision(float64(px), float64(py), radius, occupied) {
		return px, py
	}
	for ring := 1; ring <= maxCollisionRings; ring++ {
		ringRadius := float64(ring) * radius
		samples := 8
		if ring*8 > samples {
			samples = ring * 8
		}
		for s := 0; s < samples; s++ {
			angle := 2 * math.Pi * float64(s) / float64(samples)
			cx := float64(px) + ringRadius*math.Cos(angle)
			cy := float64(py) + ringRadius*math.Sin(angle)
			if !anyCollision(cx, cy, radius, occupied) {
				return int(math.Round(cx)), int(math.Round(cy))
			}
		}
	}
	return px + int(3*radius), py
}

func anyCollision(x, y, r float64, occupied []placedCircle) bool {
	for _, c := range occupied {
		if c.collides(x, y, r) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
