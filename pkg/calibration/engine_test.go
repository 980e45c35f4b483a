package calibration

import (
	"math"
	"testing"

	"github.com/tmscore/control/pkg/spatialmath"
)

// buildSamples constructs 6 paired samples where Y (tracker base to
// robot base) is identity and X (TCP to coil) is a pure [10,0,0]
// translation, i.e. coil = robot * X.
func buildSamples() SampleSet {
	var s SampleSet
	x := spatialmath.Pose{X: 10}.ToMatrix()
	robotPoses := []spatialmath.Pose{
		{X: 0, Y: 0, Z: 100},
		{X: 50, Y: 0, Z: 100},
		{X: 0, Y: 50, Z: 100},
		{X: 0, Y: 0, Z: 150},
		{X: 30, Y: 30, Z: 120},
		{X: -20, Y: 40, Z: 90},
	}
	for _, rp := range robotPoses {
		robotM := rp.ToMatrix()
		coilM := robotM.Multiply(x)
		s.Append(robotM, coilM)
	}
	return s
}

func TestCalibrationHandEyeRecoversTranslation(t *testing.T) {
	samples := buildSamples()
	e := NewEngine()

	result, err := e.Estimate(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	xPose := spatialmath.FromMatrix(result.XEst)
	if math.Abs(xPose.X-10) > 0.1 {
		t.Errorf("expected X_est translation near [10,0,0], got %+v", xPose)
	}

	yPose := spatialmath.FromMatrix(result.YEst)
	if math.Abs(yPose.X) > 0.1 || math.Abs(yPose.Y) > 0.1 || math.Abs(yPose.Z) > 0.1 {
		t.Errorf("expected Y_est near identity, got %+v", yPose)
	}
}

func TestCalibrationDeterministic(t *testing.T) {
	samples := buildSamples()
	e := NewEngine()

	r1, err := e.Estimate(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := e.Estimate(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.XEst != r2.XEst || r1.YEst != r2.YEst {
		t.Errorf("expected bit-identical results across runs, got %+v vs %+v", r1, r2)
	}
}

func TestCalibrationInsufficientSamples(t *testing.T) {
	var s SampleSet
	s.Append(spatialmath.Identity(), spatialmath.Identity())
	e := NewEngine()
	if _, err := e.Estimate(s); err != ErrInsufficientSamples {
		t.Errorf("expected ErrInsufficientSamples, got %v", err)
	}
}
