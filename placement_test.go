package spatialmap

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestPaletteColor(t *testing.T) {
	// whitewashed 45% toward white: 230 -> 241 on the red channel
	first := paletteColor(0)
	test.That(t, first.R, test.ShouldEqual, uint8(230+(255-230)*45/100))
	test.That(t, first.A, test.ShouldEqual, uint8(255))

	// palette cycles every 8 placements
	test.That(t, paletteColor(8), test.ShouldResemble, paletteColor(0))
	test.That(t, paletteColor(9), test.ShouldResemble, paletteColor(1))
	test.That(t, paletteColor(1), test.ShouldNotResemble, paletteColor(0))
}

func TestPlaceMarkersPositions(t *testing.T) {
	cfg := DefaultMapConfig()
	points := []layoutPoint{
		{id: 7, x: 0.5, y: 0},
		{id: 8, x: 0, y: 0.5},
	}
	placements := placeMarkers(points, 100, cfg, false)
	test.That(t, len(placements), test.ShouldEqual, 2)

	// world +x renders right, world +y renders up
	test.That(t, placements[0].X, test.ShouldEqual, 128+50)
	test.That(t, placements[0].Y, test.ShouldEqual, 128)
	test.That(t, placements[1].X, test.ShouldEqual, 128)
	test.That(t, placements[1].Y, test.ShouldEqual, 128-50)

	// ids carried through, colors assigned by placement order
	test.That(t, placements[0].ID, test.ShouldEqual, 7)
	test.That(t, placements[0].Color, test.ShouldResemble, paletteColor(0))
	test.That(t, placements[1].Color, test.ShouldResemble, paletteColor(1))
}

func TestPlaceMarkersClamping(t *testing.T) {
	cfg := DefaultMapConfig()
	points := []layoutPoint{{id: 0, x: 1000, y: -1000}}
	placements := placeMarkers(points, 110, cfg, false)

	hi := cfg.ImageSize - cfg.BorderSize - cfg.KeyframeRadius
	test.That(t, placements[0].X, test.ShouldEqual, hi)
	test.That(t, placements[0].Y, test.ShouldEqual, hi)
}

func TestPlaceMarkersCollisionResolution(t *testing.T) {
	cfg := DefaultMapConfig()
	// both keyframes land exactly on the robot marker at the center
	points := []layoutPoint{{id: 0}, {id: 1}}
	placements := placeMarkers(points, 50, cfg, true)
	test.That(t, len(placements), test.ShouldEqual, 2)

	center := float64(cfg.ImageSize / 2)
	for _, pl := range placements {
		// pushed off the robot marker
		dist := math.Hypot(float64(pl.X)-center, float64(pl.Y)-center)
		test.That(t, dist, test.ShouldBeGreaterThanOrEqualTo,
			float64(cfg.RobotRadius+cfg.KeyframeRadius))
	}
	// and off each other
	dist := math.Hypot(float64(placements[0].X-placements[1].X),
		float64(placements[0].Y-placements[1].Y))
	test.That(t, dist, test.ShouldBeGreaterThanOrEqualTo, float64(2*cfg.KeyframeRadius)-1)

	test.That(t, placements[0].Color, test.ShouldResemble, paletteColor(0))
	test.That(t, placements[1].Color, test.ShouldResemble, paletteColor(1))
}

func TestResolveCollisionFallback(t *testing.T) {
	// occupy everything: one huge circle no ring sample can escape
	occupied := []placedCircle{{x: 128, y: 128, r: 1000}}
	x, y := resolveCollision(128, 128, 10, occupied)
	test.That(t, x, test.ShouldEqual, 128+30)
	test.That(t, y, test.ShouldEqual, 128)
}

func TestWhitewash(t *testing.T) {
	test.That(t, whitewash(0), test.ShouldEqual, uint8(114))
	test.That(t, whitewash(255), test.ShouldEqual, uint8(255))
}
