package calibration

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tmscore/control/pkg/spatialmath"
)

// fitAffine performs an ordinary-least-squares affine fit mapping robot
// positions to coil (tracker-space) positions: coil ≈ A*robot + b. It
// returns the 4x4 homogeneous affine_robot_to_tracker matrix.
func fitAffine(robotPositions, coilPositions [][3]float64) (spatialmath.Matrix4, error) {
	n := len(robotPositions)
	xData := make([]float64, n*4)
	yData := make([]float64, n*3)
	for i, p := range robotPositions {
		xData[i*4+0] = p[0]
		xData[i*4+1] = p[1]
		xData[i*4+2] = p[2]
		xData[i*4+3] = 1
	}
	for i, p := range coilPositions {
		yData[i*3+0] = p[0]
		yData[i*3+1] = p[1]
		yData[i*3+2] = p[2]
	}

	X := mat.NewDense(n, 4, xData)
	Y := mat.NewDense(n, 3, yData)

	var beta mat.Dense
	if err := beta.Solve(X, Y); err != nil {
		return spatialmath.Matrix4{}, ErrSingular
	}

	var m spatialmath.Matrix4
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m[row][col] = beta.At(col, row) // A[row][col] = Beta[col][row]
		}
		m[row][3] = beta.At(3, row)
	}
	m[3] = [4]float64{0, 0, 0, 1}
	return m, nil
}

// invertAffine inverts a general (not necessarily rigid) 4x4 homogeneous
// affine transform using a full matrix inverse, unlike
// spatialmath.Matrix4.Inverse which assumes an orthonormal rotation
// block.
func invertAffine(m spatialmath.Matrix4) (spatialmath.Matrix4, error) {
	dense := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			dense.Set(i, j, m[i][j])
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(dense); err != nil {
		return spatialmath.Matrix4{}, ErrSingular
	}
	var out spatialmath.Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}
