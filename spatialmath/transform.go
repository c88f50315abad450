// Package spatialmath implements the SE(3) operations used by the spatial
// map engine: validity checking, inversion, relative-pose composition, and
// quaternion conversions. Poses are homogeneous 4x4 matrices (mgl64.Mat4)
// whose top-left 3x3 block is a proper rotation.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// DefaultTransformTolerance is the maximum absolute deviation allowed by the
// rigid-transform checks when no explicit tolerance is given.
const DefaultTransformTolerance = 1e-3

const zeroQuatEpsilon = 1e-12

// NewPose returns the identity transform.
func NewPose() mgl64.Mat4 {
	return mgl64.Ident4()
}

// RotationBlock extracts the top-left 3x3 block of a homogeneous transform.
func RotationBlock(t mgl64.Mat4) mgl64.Mat3 {
	var r mgl64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, t.At(i, j))
		}
	}
	return r
}

// CheckTransform verifies that t is a valid rigid-body transform within the
// given tolerance: all entries finite, rotation block orthonormal with
// determinant +1, bottom row [0 0 0 1]. The returned error names the first
// check that failed.
func CheckTransform(t mgl64.Mat4, tolerance float64) error {
	for _, e := range t {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return NewInvalidTransformError("matrix has non-finite entries")
		}
	}

	r := RotationBlock(t)
	rt := r.Transpose()
	if !mat3Near(rt.Mul3(r), mgl64.Ident3(), tolerance) || !mat3Near(r.Mul3(rt), mgl64.Ident3(), tolerance) {
		return NewInvalidTransformError("rotation block is not orthonormal")
	}
	if math.Abs(r.Det()-1.0) > tolerance {
		return NewInvalidTransformError("rotation block determinant is not +1")
	}

	for j := 0; j < 3; j++ {
		if math.Abs(t.At(3, j)) > tolerance {
			return NewInvalidTransformError("bottom row is not [0 0 0 1]")
		}
	}
	if math.Abs(t.At(3, 3)-1.0) > tolerance {
		return NewInvalidTransformError("bottom row is not [0 0 0 1]")
	}
	return nil
}

// TransformIsValid reports whether t passes CheckTransform.
func TransformIsValid(t mgl64.Mat4, tolerance float64) bool {
	return CheckTransform(t, tolerance) == nil
}

// TransformInverse returns the inverse of a rigid transform, computed as
// R^-1 = R^T, p^-1 = -R^T p. The input is validated first and never mutated.
func TransformInverse(t mgl64.Mat4) (mgl64.Mat4, error) {
	if err := CheckTransform(t, DefaultTransformTolerance); err != nil {
		return mgl64.Mat4{}, err
	}

	inv := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			inv.Set(i, j, t.At(j, i))
		}
	}
	for i := 0; i < 3; i++ {
		var p float64
		for j := 0; j < 3; j++ {
			p += t.At(j, i) * t.At(j, 3)
		}
		inv.Set(i, 3, -p)
	}
	return inv, nil
}

// RelativePose returns aTb, the pose of b expressed in the local frame of a,
// given both poses in the same world frame. RelativePose(a, a) is the
// identity for any valid a.
func RelativePose(a, b mgl64.Mat4) (mgl64.Mat4, error) {
	if err := CheckTransform(a, DefaultTransformTolerance); err != nil {
		return mgl64.Mat4{}, err
	}
	if err := CheckTransform(b, DefaultTransformTolerance); err != nil {
		return mgl64.Mat4{}, err
	}
	aInv, err := TransformInverse(a)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return aInv.Mul4(b), nil
}

// QuaternionToRotationMatrix converts a Hamilton-convention quaternion to a
// 3x3 rotation matrix, normalizing it first. A zero-norm quaternion is an
// InvalidInputError rather than a NaN matrix.
func QuaternionToRotationMatrix(q quat.Number) (mgl64.Mat3, error) {
	norm := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if norm < zeroQuatEpsilon {
		return mgl64.Mat3{}, NewInvalidInputError("quaternion has zero norm")
	}
	qw := q.Real / norm
	qx := q.Imag / norm
	qy := q.Jmag / norm
	qz := q.Kmag / norm

	var r mgl64.Mat3
	r.Set(0, 0, 1-2*(qy*qy+qz*qz))
	r.Set(0, 1, 2*(qx*qy-qz*qw))
	r.Set(0, 2, 2*(qx*qz+qy*qw))
	r.Set(1, 0, 2*(qx*qy+qz*qw))
	r.Set(1, 1, 1-2*(qx*qx+qz*qz))
	r.Set(1, 2, 2*(qy*qz-qx*qw))
	r.Set(2, 0, 2*(qx*qz-qy*qw))
	r.Set(2, 1, 2*(qy*qz+qx*qw))
	r.Set(2, 2, 1-2*(qx*qx+qy*qy))
	return r, nil
}

// PoseFromTranslationQuaternion assembles a homogeneous transform from a
// translation vector and a quaternion. The result is not itself validated;
// callers holding untrusted input should run CheckTransform on it.
func PoseFromTranslationQuaternion(trans r3.Vector, q quat.Number) (mgl64.Mat4, error) {
	r, err := QuaternionToRotationMatrix(q)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	t := mgl64.Ident4()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.Set(i, j, r.At(i, j))
		}
	}
	t.Set(0, 3, trans.X)
	t.Set(1, 3, trans.Y)
	t.Set(2, 3, trans.Z)
	return t, nil
}

// Displacement returns the translation column of a valid transform.
func Displacement(t mgl64.Mat4) (r3.Vector, error) {
	if err := CheckTransform(t, DefaultTransformTolerance); err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: t.At(0, 3), Y: t.At(1, 3), Z: t.At(2, 3)}, nil
}

func mat3Near(a, b mgl64.Mat3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}
