package spatialmath

import "math"

// Matrix4 is a 4x4 homogeneous transformation matrix, row-major,
// right-handed.
type Matrix4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Matrix4 {
	var m Matrix4
	for i := 0; i < 4; i++ {
		m[i][i] = 1
	}
	return m
}

// Multiply returns m * other.
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var out Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// Compose is an alias for Multiply, read as "m applied after other is
// applied", i.e. m.Compose(other) == other then m.
func (m Matrix4) Compose(other Matrix4) Matrix4 {
	return m.Multiply(other)
}

// Inverse returns the inverse of a rigid (rotation+translation) homogeneous
// transform: the rotation block transposed, translation re-projected.
func (m Matrix4) Inverse() Matrix4 {
	var out Matrix4
	// Rᵀ
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	// -Rᵀ t
	for i := 0; i < 3; i++ {
		var sum float64
		for k := 0; k < 3; k++ {
			sum += out[i][k] * m[k][3]
		}
		out[i][3] = -sum
	}
	out[3] = [4]float64{0, 0, 0, 1}
	return out
}

// ToMatrix builds a homogeneous transform from a Pose using static-axis
// XYZ Euler rotation (rotating-frame ZYX), degrees, then translation.
func (p Pose) ToMatrix() Matrix4 {
	rx := p.Rx * math.Pi / 180
	ry := p.Ry * math.Pi / 180
	rz := p.Rz * math.Pi / 180

	cx, sx := math.Cos(rx), math.Sin(rx)
	cy, sy := math.Cos(ry), math.Sin(ry)
	cz, sz := math.Cos(rz), math.Sin(rz)

	// R = Rz * Ry * Rx (static-axis XYZ == rotating-frame ZYX composition).
	var m Matrix4
	m[0][0] = cy * cz
	m[0][1] = sx*sy*cz - cx*sz
	m[0][2] = cx*sy*cz + sx*sz
	m[1][0] = cy * sz
	m[1][1] = sx*sy*sz + cx*cz
	m[1][2] = cx*sy*sz - sx*cz
	m[2][0] = -sy
	m[2][1] = sx * cy
	m[2][2] = cx * cy

	m[0][3] = p.X
	m[1][3] = p.Y
	m[2][3] = p.Z
	m[3] = [4]float64{0, 0, 0, 1}
	return m
}

// FromMatrix extracts a Pose from a homogeneous transform, reversing
// ToMatrix. Handles the gimbal-lock case where ry ≈ ±90°.
func FromMatrix(m Matrix4) Pose {
	r00, r10, r20 := m[0][0], m[1][0], m[2][0]
	r21, r22 := m[2][1], m[2][2]

	sy := math.Sqrt(r00*r00 + r10*r10)

	var rx, ry, rz float64
	if sy >= 1e-6 {
		rx = math.Atan2(r21, r22)
		ry = math.Atan2(-r20, sy)
		rz = math.Atan2(r10, r00)
	} else {
		rx = math.Atan2(-m[1][2], m[1][1])
		ry = math.Atan2(-r20, sy)
		rz = 0
	}

	return Pose{
		X:  m[0][3],
		Y:  m[1][3],
		Z:  m[2][3],
		Rx: rx * 180 / math.Pi,
		Ry: ry * 180 / math.Pi,
		Rz: rz * 180 / math.Pi,
	}
}

// Orthonormalize re-orthonormalizes the rotation block of m, correcting
// the small numeric drift that accumulates across repeated composition.
func (m Matrix4) Orthonormalize() Matrix4 {
	x := [3]float64{m[0][0], m[1][0], m[2][0]}
	y := [3]float64{m[0][1], m[1][1], m[2][1]}

	x = normalize3(x)
	dot := x[0]*y[0] + x[1]*y[1] + x[2]*y[2]
	y[0] -= dot * x[0]
	y[1] -= dot * x[1]
	y[2] -= dot * x[2]
	y = normalize3(y)
	z := cross3(x, y)

	out := m
	out[0][0], out[1][0], out[2][0] = x[0], x[1], x[2]
	out[0][1], out[1][1], out[2][1] = y[0], y[1], y[2]
	out[0][2], out[1][2], out[2][2] = z[0], z[1], z[2]
	return out
}

func normalize3(v [3]float64) [3]float64 {
	mag := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if mag < 1e-10 {
		return [3]float64{1, 0, 0}
	}
	return [3]float64{v[0] / mag, v[1] / mag, v[2] / mag}
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
