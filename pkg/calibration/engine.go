package calibration

import "github.com/tmscore/control/pkg/spatialmath"

// Result is the full calibration output: the affine position fit (both
// directions) and the hand-eye (X, Y) rigid-offset estimate.
type Result struct {
	AffineRobotToTracker spatialmath.Matrix4
	AffineTrackerToRobot spatialmath.Matrix4
	XEst                 spatialmath.Matrix4
	YEst                 spatialmath.Matrix4
}

// Engine runs the Calibration Engine's two estimation routines over a
// SampleSet.
type Engine struct{}

// NewEngine returns a ready-to-use Calibration Engine.
func NewEngine() *Engine {
	return &Engine{}
}

const minSamples = 4

// Estimate computes the affine position fit and hand-eye (X, Y) estimate
// from samples. On a singular system it returns ErrSingular and the
// caller must leave the prior matrix triple untouched.
func (e *Engine) Estimate(samples SampleSet) (Result, error) {
	n := samples.Len()
	if n < minSamples || len(samples.CoilPoses) != n {
		return Result{}, ErrInsufficientSamples
	}

	affineRobotToTracker, err := fitAffine(samples.RobotPositions, samples.CoilPositions)
	if err != nil {
		return Result{}, err
	}
	affineTrackerToRobot, err := invertAffine(affineRobotToTracker)
	if err != nil {
		return Result{}, err
	}

	xEst, yEst, err := estimateHandEye(samples.RobotPoses, samples.CoilPoses)
	if err != nil {
		return Result{}, err
	}

	return Result{
		AffineRobotToTracker: affineRobotToTracker,
		AffineTrackerToRobot: affineTrackerToRobot,
		XEst:                 xEst,
		YEst:                 yEst,
	}, nil
}
