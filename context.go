// Package spatialmap tracks camera poses over a robot run and renders an
// egocentric bird's-eye-view map of the promoted keyframes. It is the
// spatial grounding layer consumed by the high-level policy: frames are
// appended at the odometry rate, a few are promoted to keyframes, and
// GenerateMap draws where those keyframes sit relative to the current pose.
//
// Canvas convention: world +x renders to the right and world +y renders
// upward (pixel y decreases), with the current pose always at the center.
package spatialmap

import (
	"github.com/edaniels/golog"
	"github.com/go-gl/mathgl/mgl64"

	"go.viam.com/spatialmap/kinematics"
	"go.viam.com/spatialmap/spatialmath"
)

// keyframe pairs a frame id with the pose it was promoted at. The keyframe
// set is an ordered slice because promotion order is observable: it decides
// marker colors and labels.
type keyframe struct {
	id   int64
	pose mgl64.Mat4
}

// SpatialContext owns the frame store and the keyframe set for one robot
// run. It is not safe for concurrent use; callers running ingestion and
// rendering on independent schedules must serialize access.
type SpatialContext struct {
	cfg    MapConfig
	kin    kinematics.Kinematics
	logger golog.Logger

	nextID    int64
	allPoses  map[int64]mgl64.Mat4
	keyframes []keyframe
}

// NewSpatialContext validates the config and returns an empty context. The
// kinematics model may be nil if frames are only ever added with explicit
// poses.
func NewSpatialContext(cfg MapConfig, kin kinematics.Kinematics, logger golog.Logger) (*SpatialContext, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SpatialContext{
		cfg:      cfg,
		kin:      kin,
		logger:   logger,
		allPoses: map[int64]mgl64.Mat4{},
	}, nil
}

// AddFrame computes the world-frame end-effector pose for a joint
// configuration, basePose * FK(robotState), and stores it under a newly
// allocated frame id. A nil basePose means no external localization is
// available and the robot base frame is taken as the world frame.
func (sc *SpatialContext) AddFrame(robotState []float64, basePose *mgl64.Mat4) (int64, error) {
	if sc.kin == nil {
		return 0, spatialmath.NewInvalidInputError("no kinematics model configured")
	}
	eePose, err := sc.kin.ForwardKinematics(robotState)
	if err != nil {
		return 0, err
	}
	base := mgl64.Ident4()
	if basePose != nil {
		base = *basePose
	}
	return sc.AddFrameWithPose(base.Mul4(eePose))
}

// AddFrameWithPose stores a world-frame pose supplied directly, e.g. from
// visual odometry, under a newly allocated frame id.
func (sc *SpatialContext) AddFrameWithPose(pose mgl64.Mat4) (int64, error) {
	if err := spatialmath.CheckTransform(pose, spatialmath.DefaultTransformTolerance); err != nil {
		return 0, err
	}
	id := sc.nextID
	sc.nextID++
	sc.allPoses[id] = pose
	return id, nil
}

// PromoteToKeyframe copies the current pose of the given frame into the
// keyframe set. Re-promoting an id overwrites its stored pose but keeps its
// position in promotion order.
func (sc *SpatialContext) PromoteToKeyframe(frameID int64) error {
	pose, ok := sc.allPoses[frameID]
	if !ok {
		return NewFrameNotFoundError(frameID)
	}
	for i := range sc.keyframes {
		if sc.keyframes[i].id == frameID {
			sc.keyframes[i].pose = pose
			return nil
		}
	}
	sc.keyframes = append(sc.keyframes, keyframe{id: frameID, pose: pose})
	if sc.logger != nil {
		sc.logger.Debugf("promoted frame %d to keyframe %d", frameID, len(sc.keyframes))
	}
	return nil
}

// RemoveKeyframe removes a frame from the keyframe set only; the frame
// itself stays tracked. Removing an absent id is a no-op.
func (sc *SpatialContext) RemoveKeyframe(frameID int64) {
	for i := range sc.keyframes {
		if sc.keyframes[i].id == frameID {
			sc.keyframes = append(sc.keyframes[:i], sc.keyframes[i+1:]...)
			return
		}
	}
}

// KeyframeIDs returns the keyframe ids in promotion order.
func (sc *SpatialContext) KeyframeIDs() []int64 {
	ids := make([]int64, len(sc.keyframes))
	for i, kf := range sc.keyframes {
		ids[i] = kf.id
	}
	return ids
}

// NumFrames returns how many frames have been added.
func (sc *SpatialContext) NumFrames() int {
	return len(sc.allPoses)
}

// CurrentPose returns the pose of the most recently allocated frame, or the
// identity transform if no frame has been added yet.
func (sc *SpatialContext) CurrentPose() mgl64.Mat4 {
	if sc.nextID == 0 {
		return spatialmath.NewPose()
	}
	return sc.allPoses[sc.nextID-1]
}

// snapshotKeyframes copies the keyframe slice so a render observes a
// consistent set even if frames are promoted afterwards.
func (sc *SpatialContext) snapshotKeyframes() []keyframe {
	out := make([]keyframe, len(sc.keyframes))
	copy(out, sc.keyframes)
	return out
}
