// Package localization defines the visual-odometry collaborator consumed by
// the spatial map engine, plus a pose-file replay implementation for offline
// runs. A localizer produces world-frame camera poses and reports an explicit
// warming-up state while it initializes.
package localization

import (
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Fix is the result of a localization update: either a world-frame pose
// (Ready true) or a report that the odometry is still initializing.
type Fix struct {
	Pose  mgl64.Mat4
	Ready bool
}

// WarmingUp is the Fix returned while the localizer has not yet initialized.
func WarmingUp() Fix {
	return Fix{}
}

// ReadyFix wraps a world-frame pose in a ready Fix.
func ReadyFix(pose mgl64.Mat4) Fix {
	return Fix{Pose: pose, Ready: true}
}

// A Localizer estimates world-frame camera poses from imagery.
type Localizer interface {
	// Update feeds one frame and returns the current fix.
	Update(img image.Image, timestamp time.Duration) (Fix, error)
	// Trajectory returns every pose estimated so far, in order.
	Trajectory() ([]mgl64.Mat4, error)
}
