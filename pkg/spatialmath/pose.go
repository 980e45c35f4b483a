// Package spatialmath provides the pose and homogeneous-transform algebra
// shared by every component of the control core: 6-DOF poses, 4x4
// transformation matrices, and conversion between the two.
package spatialmath

// Pose is a 6-DOF pose: translation in millimetres, rotation in degrees,
// using the static-axis XYZ Euler convention (equivalent to rotating-frame
// ZYX).
type Pose struct {
	X, Y, Z    float64
	Rx, Ry, Rz float64
}

// Translation returns the pose's translation component as a 3-vector.
func (p Pose) Translation() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// Sub returns the element-wise difference p - q.
func (p Pose) Sub(q Pose) Pose {
	return Pose{
		X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z,
		Rx: p.Rx - q.Rx, Ry: p.Ry - q.Ry, Rz: p.Rz - q.Rz,
	}
}

// Add returns the element-wise sum p + q.
func (p Pose) Add(q Pose) Pose {
	return Pose{
		X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z,
		Rx: p.Rx + q.Rx, Ry: p.Ry + q.Ry, Rz: p.Rz + q.Rz,
	}
}
