// Package alignment re-expresses an incoming displacement from TCP frame
// into the robot's end-effector frame using site-configured rotation
// offsets.
package alignment

import (
	"math"

	"github.com/tmscore/control/pkg/spatialmath"
)

// Offsets are the site-configured alignment angles, degrees. The zero
// value is the alignment-neutral default (identity transform).
type Offsets struct {
	Rx, Ry, Rz float64
}

// rotationOnly builds R = Rx·Ry·Rz from the offsets, discarding any
// translation. This is the opposite composition order from
// Pose.ToMatrix (which builds Rz·Ry·Rx for its own forward-kinematics
// convention), so the product is built explicitly here rather than
// reused from it.
func (o Offsets) rotationOnly() spatialmath.Matrix4 {
	rx := o.Rx * math.Pi / 180
	ry := o.Ry * math.Pi / 180
	rz := o.Rz * math.Pi / 180

	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	var m spatialmath.Matrix4
	m[0][0] = cy * cz
	m[0][1] = -cy * sz
	m[0][2] = sy
	m[1][0] = sx*sy*cz + cx*sz
	m[1][1] = cx*cz - sx*sy*sz
	m[1][2] = -sx * cy
	m[2][0] = sx*sz - cx*sy*cz
	m[2][1] = cx*sy*sz + sx*cz
	m[2][2] = cx * cy
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

// Align applies R⁻¹ · M_offset · R to the 4x4 matrix built from
// displacement, where R is the alignment rotation from offsets, and
// decomposes the result back into (translation, Euler degrees).
//
// When offsets are all zero, R is identity and this is a no-op
// (alignment neutrality).
func Align(displacement spatialmath.Pose, offsets Offsets) spatialmath.Pose {
	r := offsets.rotationOnly()
	mOffset := displacement.ToMatrix()
	result := r.Inverse().Multiply(mOffset).Multiply(r)
	return spatialmath.FromMatrix(result)
}
