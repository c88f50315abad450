package spatialmap

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/spatialmap/spatialmath"
)

const (
	// defaultScale is used when there is nothing meaningful to fit: an
	// empty keyframe set, or every keyframe at the current position.
	defaultScale = 50.0 // pixels per meter
	// scaleMargin keeps the farthest inlier off the border.
	scaleMargin = 10 // pixels
	// minOutlierSamples is the smallest keyframe count worth running
	// outlier statistics on.
	minOutlierSamples = 5
	// degenerateEpsilon guards divisions by near-zero distances and
	// deviations.
	degenerateEpsilon = 1e-6
)

// layoutPoint is one keyframe's egocentric 2D placement input: displacement
// in meters in the current pose's frame, the relative pose (for the
// orientation arrow), and whether it was excluded from scale selection.
type layoutPoint struct {
	id      int64
	x, y    float64
	rel     mgl64.Mat4
	outlier bool
}

// computeLayout computes each keyframe's displacement in the current pose's
// frame and a single scale fitting the inliers to the usable canvas radius.
// Outliers stay in the returned slice; they are only excluded from the scale.
func computeLayout(current mgl64.Mat4, keyframes []keyframe, cfg MapConfig) ([]layoutPoint, float64, error) {
	points := make([]layoutPoint, 0, len(keyframes))
	for _, kf := range keyframes {
		rel, err := spatialmath.RelativePose(current, kf.pose)
		if err != nil {
			return nil, 0, err
		}
		disp, err := spatialmath.Displacement(rel)
		if err != nil {
			return nil, 0, err
		}
		// z discarded: the map is a top-down projection
		points = append(points, layoutPoint{id: kf.id, x: disp.X, y: disp.Y, rel: rel})
	}
	if len(points) == 0 {
		return points, defaultScale, nil
	}

	distances := make([]float64, len(points))
	for i, p := range points {
		distances[i] = math.Hypot(p.x, p.y)
	}

	maxGoverning := maxOf(distances)
	if len(distances) >= minOutlierSamples {
		mean := stat.Mean(distances, nil)
		sigma := stat.PopStdDev(distances, nil)
		if sigma >= degenerateEpsilon {
			threshold := mean + cfg.OutlierStdDevs*sigma
			maxInlier := 0.0
			anyInlier := false
			for i, d := range distances {
				if d > threshold {
					points[i].outlier = true
					continue
				}
				anyInlier = true
				if d > maxInlier {
					maxInlier = d
				}
			}
			if anyInlier {
				maxGoverning = maxInlier
			}
		}
	}

	return points, computeScale(maxGoverning, cfg), nil
}

// computeScale converts the governing distance to pixels per meter so that
// distance lands scaleMargin pixels inside the bordered canvas.
func computeScale(maxDist float64, cfg MapConfig) float64 {
	if maxDist < degenerateEpsilon {
		return defaultScale
	}
	usableRadius := float64(cfg.ImageSize-2*cfg.BorderSize)/2 - scaleMargin
	return usableRadius / maxDist
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
