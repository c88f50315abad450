// Package kinematics maps robot joint configurations to end-effector poses
// in the robot's base frame.
package kinematics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"go.viam.com/spatialmap/spatialmath"
)

// Kinematics computes the end-effector pose, in the robot base frame, for a
// joint configuration.
type Kinematics interface {
	ForwardKinematics(joints []float64) (mgl64.Mat4, error)
}

// DHParam holds one row of classic Denavit-Hartenberg parameters. Theta is
// the fixed joint offset added to the commanded joint angle.
type DHParam struct {
	A     float64 `json:"a"`
	D     float64 `json:"d"`
	Alpha float64 `json:"alpha"`
	Theta float64 `json:"theta"`
}

// Transform returns the homogeneous transform of this link for joint angle q:
// RotZ(theta+q) TransZ(d) TransX(a) RotX(alpha).
func (p DHParam) Transform(q float64) mgl64.Mat4 {
	t := mgl64.HomogRotate3DZ(p.Theta + q)
	t = t.Mul4(mgl64.Translate3D(0, 0, p.D))
	t = t.Mul4(mgl64.Translate3D(p.A, 0, 0))
	t = t.Mul4(mgl64.HomogRotate3DX(p.Alpha))
	return t
}

// Arm is a serial kinematic chain described by DH parameters, one row per
// revolute joint.
type Arm struct {
	dhParams []DHParam
}

// NewArm builds an arm from DH rows.
func NewArm(dhParams []DHParam) *Arm {
	return &Arm{dhParams: dhParams}
}

// NewArm7DOF returns a generic seven joint arm (spherical shoulder, elbow,
// spherical wrist) with link lengths of a common collaborative arm.
func NewArm7DOF() *Arm {
	const halfPi = 1.5707963267948966
	return NewArm([]DHParam{
		{D: 0.340, Alpha: -halfPi},
		{Alpha: halfPi},
		{D: 0.400, Alpha: halfPi},
		{Alpha: -halfPi},
		{D: 0.400, Alpha: -halfPi},
		{Alpha: halfPi},
		{D: 0.126},
	})
}

// DOF returns the number of joints in the chain.
func (a *Arm) DOF() int {
	return len(a.dhParams)
}

// ForwardKinematics composes the chain for the given joint angles (radians).
// The joint vector length must match the chain's DOF.
func (a *Arm) ForwardKinematics(joints []float64) (mgl64.Mat4, error) {
	if len(joints) != len(a.dhParams) {
		return mgl64.Mat4{}, spatialmath.NewInvalidInputError(
			fmt.Sprintf("expected %d joint angles, got %d", len(a.dhParams), len(joints)))
	}
	ee := mgl64.Ident4()
	for i, p := range a.dhParams {
		ee = ee.Mul4(p.Transform(joints[i]))
	}
	return ee, nil
}
