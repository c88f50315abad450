package spatialmap

import (
	"testing"

	"go.viam.com/test"
)

func TestGenerateMapEmpty(t *testing.T) {
	sc := newTestContext(t, DefaultMapConfig())
	img, colors, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Bounds().Dx(), test.ShouldEqual, 256)
	test.That(t, img.Bounds().Dy(), test.ShouldEqual, 256)
	test.That(t, colors, test.ShouldBeEmpty)

	// robot indicator fill at the canvas center
	r, g, b, _ := img.At(128, 128).RGBA()
	test.That(t, r>>8, test.ShouldEqual, uint32(robotFillColor.R))
	test.That(t, g>>8, test.ShouldEqual, uint32(robotFillColor.G))
	test.That(t, b>>8, test.ShouldEqual, uint32(robotFillColor.B))

	// background is white
	r, g, b, _ = img.At(30, 200).RGBA()
	test.That(t, r>>8, test.ShouldEqual, uint32(255))
	test.That(t, g>>8, test.ShouldEqual, uint32(255))
	test.That(t, b>>8, test.ShouldEqual, uint32(255))
}

func TestGenerateMapColors(t *testing.T) {
	sc := newTestContext(t, DefaultMapConfig())
	var ids []int64
	for _, pos := range [][2]float64{{1, 0}, {0, 1}, {-1, -1}} {
		id, err := sc.AddFrameWithPose(poseAt(pos[0], pos[1], 0))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sc.PromoteToKeyframe(id), test.ShouldBeNil)
		ids = append(ids, id)
	}

	_, colors, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(colors), test.ShouldEqual, 3)
	for i, id := range ids {
		test.That(t, colors[id], test.ShouldResemble, paletteColor(i))
	}
}

func TestGenerateMapDrawsMarkers(t *testing.T) {
	sc := newTestContext(t, DefaultMapConfig())
	id, err := sc.AddFrameWithPose(poseAt(0, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.PromoteToKeyframe(id), test.ShouldBeNil)

	// one more frame so the current pose differs from the keyframe
	_, err = sc.AddFrameWithPose(poseAt(1, 0, 0))
	test.That(t, err, test.ShouldBeNil)

	img, colors, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(colors), test.ShouldEqual, 1)

	// the keyframe sits 1m behind along x: left of center, 10px inside
	// the scale margin. Sample just inside the marker corner, away from
	// the border stroke and the label.
	cfg := sc.cfg
	px := 128 - 110
	want := colors[id]
	r, g, b, _ := img.At(px-cfg.KeyframeRadius+4, 128-cfg.KeyframeRadius+4).RGBA()
	test.That(t, uint8(r>>8), test.ShouldEqual, want.R)
	test.That(t, uint8(g>>8), test.ShouldEqual, want.G)
	test.That(t, uint8(b>>8), test.ShouldEqual, want.B)
}

func TestGenerateMapTwoCoincident(t *testing.T) {
	// two keyframes exactly at the current position: collision resolution
	// must separate them from the robot marker and from each other
	sc := newTestContext(t, DefaultMapConfig())
	for i := 0; i < 2; i++ {
		id, err := sc.AddFrameWithPose(poseAt(0, 0, 0))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sc.PromoteToKeyframe(id), test.ShouldBeNil)
	}

	current := sc.CurrentPose()
	points, scale, err := computeLayout(current, sc.snapshotKeyframes(), sc.cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, scale, test.ShouldEqual, 50.0)
	placements := placeMarkers(points, scale, sc.cfg, true)
	test.That(t, placements[0].X != placements[1].X || placements[0].Y != placements[1].Y,
		test.ShouldBeTrue)

	img, colors, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img, test.ShouldNotBeNil)
	test.That(t, colors[0], test.ShouldResemble, paletteColor(0))
	test.That(t, colors[1], test.ShouldResemble, paletteColor(1))
}

func TestGenerateMapSnapshotAtomicity(t *testing.T) {
	sc := newTestContext(t, DefaultMapConfig())
	id, err := sc.AddFrameWithPose(poseAt(1, 1, 0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sc.PromoteToKeyframe(id), test.ShouldBeNil)

	_, colors, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(colors), test.ShouldEqual, 1)

	// adding frames after a render does not disturb prior output
	_, err = sc.AddFrameWithPose(poseAt(5, 5, 0))
	test.That(t, err, test.ShouldBeNil)
	_, colors2, err := sc.GenerateMap()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, colors2[id], test.ShouldResemble, colors[id])
}
