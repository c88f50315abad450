package localization

import (
	"bufio"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/spatialmap/spatialmath"
)

// DefaultMinInitFrames is how many updates a replay reports as warming up,
// mirroring the initialization window of the live odometry.
const DefaultMinInitFrames = 5

// LoadPoseFile reads a visual-odometry trajectory dump, one pose per line in
// the form "idx tx ty tz qx qy qz qw" (scalar-last quaternion). Lines with
// the wrong field count are skipped; a pose that does not form a valid rigid
// transform is an error.
func LoadPoseFile(path string) ([]mgl64.Mat4, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var poses []mgl64.Mat4
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 8 {
			continue
		}
		vals := make([]float64, 7)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "pose file %s line %d", path, lineNum)
			}
			vals[i] = v
		}
		pose, err := spatialmath.PoseFromTranslationQuaternion(
			r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]},
			quat.Number{Imag: vals[3], Jmag: vals[4], Kmag: vals[5], Real: vals[6]},
		)
		if err != nil {
			return nil, errors.Wrapf(err, "pose file %s line %d", path, lineNum)
		}
		if err := spatialmath.CheckTransform(pose, spatialmath.DefaultTransformTolerance); err != nil {
			return nil, errors.Wrapf(err, "pose file %s line %d", path, lineNum)
		}
		poses = append(poses, pose)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return poses, nil
}

// Replay is a Localizer that serves poses from a recorded trajectory. The
// first MinInitFrames updates report warming up, like the live system does
// while its odometry initializes.
type Replay struct {
	poses         []mgl64.Mat4
	minInitFrames int
	frameCount    int
}

// NewReplay wraps a pose list in a Localizer.
func NewReplay(poses []mgl64.Mat4, minInitFrames int) *Replay {
	if minInitFrames < 0 {
		minInitFrames = DefaultMinInitFrames
	}
	return &Replay{poses: poses, minInitFrames: minInitFrames}
}

// NewReplayFromFile loads a pose file and wraps it in a Replay with the
// default warm-up window.
func NewReplayFromFile(path string) (*Replay, error) {
	poses, err := LoadPoseFile(path)
	if err != nil {
		return nil, err
	}
	return NewReplay(poses, DefaultMinInitFrames), nil
}

// Len returns the number of recorded poses.
func (r *Replay) Len() int {
	return len(r.poses)
}

// Update advances the replay by one frame. The image and timestamp are
// accepted for interface compatibility and ignored.
func (r *Replay) Update(_ image.Image, _ time.Duration) (Fix, error) {
	if r.frameCount >= len(r.poses) {
		return Fix{}, errors.Errorf("replay exhausted after %d poses", len(r.poses))
	}
	pose := r.poses[r.frameCount]
	r.frameCount++
	if r.frameCount <= r.minInitFrames {
		return WarmingUp(), nil
	}
	return ReadyFix(pose), nil
}

// Trajectory returns the poses served so far.
func (r *Replay) Trajectory() ([]mgl64.Mat4, error) {
	out := make([]mgl64.Mat4, r.frameCount)
	copy(out, r.poses[:r.frameCount])
	return out, nil
}
