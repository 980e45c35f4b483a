package calibration

import (
	"math/rand"

	"github.com/tmscore/control/pkg/spatialmath"
)

// handEyeSeed fixes the pseudo-random sample ordering used by the
// alternating estimation so results are reproducible across runs given
// identical sample arrays.
const handEyeSeed = 1

// averageMatrix4 averages translation arithmetically and averages the
// rotation block column-wise before re-orthonormalizing, giving a
// reasonable rigid-transform average.
func averageMatrix4(matrices []spatialmath.Matrix4) spatialmath.Matrix4 {
	var sum spatialmath.Matrix4
	n := float64(len(matrices))
	for _, m := range matrices {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				sum[i][j] += m[i][j]
			}
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum[i][j] /= n
		}
	}
	sum[3] = [4]float64{0, 0, 0, 1}
	return sum.Orthonormalize()
}

// estimateHandEye solves for the rigid offset from TCP to coil (X) and
// from tracker base to robot base (Y) such that robot·X ≈ Y·coil across
// samples, via three rounds of alternating averaging (X, then Y, then X
// again) seeded
// with a fixed pseudo-random sample order for reproducibility.
func estimateHandEye(robotPoses, coilPoses []spatialmath.Matrix4) (xEst, yEst spatialmath.Matrix4, err error) {
	n := len(robotPoses)
	rng := rand.New(rand.NewSource(handEyeSeed))
	order := rng.Perm(n)

	robotInv := make([]spatialmath.Matrix4, n)
	for i, m := range robotPoses {
		robotInv[i] = m.Inverse()
	}
	coilInv := make([]spatialmath.Matrix4, n)
	for i, m := range coilPoses {
		coilInv[i] = m.Inverse()
	}

	// Round 1: assume Y = I, estimate X_i = robot_i⁻¹ · coil_i.
	round1 := make([]spatialmath.Matrix4, n)
	for idx, i := range order {
		round1[idx] = robotInv[i].Multiply(coilPoses[i])
	}
	x0 := averageMatrix4(round1)

	// Round 2: given X_est, estimate Y_i = robot_i · X · coil_i⁻¹.
	round2 := make([]spatialmath.Matrix4, n)
	for idx, i := range order {
		round2[idx] = robotPoses[i].Multiply(x0).Multiply(coilInv[i])
	}
	y0 := averageMatrix4(round2)

	// Round 3: refine X given Y_est: X_i = robot_i⁻¹ · Y · coil_i.
	round3 := make([]spatialmath.Matrix4, n)
	for idx, i := range order {
		round3[idx] = robotInv[i].Multiply(y0).Multiply(coilPoses[i])
	}
	x1 := averageMatrix4(round3)

	return x1, y0, nil
}
