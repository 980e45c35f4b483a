package movement

import (
	"testing"

	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
)

func TestDirectlyUpwardProgressesThroughThreePhases(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	a := NewDirectlyUpward(driver, 150)

	target := spatialmath.Pose{X: 50, Y: 50, Z: 0, Rx: 10, Ry: 0, Rz: 0}
	d := Decision{
		TargetFromDisplacement: target.ToMatrix(),
		RobotPose:              spatialmath.Pose{X: 0, Y: 0, Z: 0},
		HeadCenter:              spatialmath.Pose{X: 0, Y: 0, Z: 50},
	}

	if a.phase != upwardPhaseTranslate {
		t.Fatalf("expected initial phase translate, got %d", a.phase)
	}
	success, _ := a.MoveDecision(d)
	if !success {
		t.Fatal("expected translate move to succeed")
	}
	if len(driver.MoveLinearCalls) != 1 {
		t.Fatalf("expected one translate move, got %d", len(driver.MoveLinearCalls))
	}
	translateCall := driver.MoveLinearCalls[0]
	if translateCall.Z < 150 {
		t.Errorf("expected translate leg to clear safe height, got z=%v", translateCall.Z)
	}

	// Robot now reports having arrived above the target; next tick must
	// flip to rotate without issuing another translate.
	driver.SetPose(translateCall)
	d.RobotPose = spatialmath.Pose{X: translateCall.X, Y: translateCall.Y, Z: translateCall.Z}
	success, _ = a.MoveDecision(d)
	if !success || a.phase != upwardPhaseRotate {
		t.Fatalf("expected arrival to flip to rotate phase, got success=%v phase=%d", success, a.phase)
	}

	// Rotate in place to the target orientation.
	success, _ = a.MoveDecision(d)
	if !success || len(driver.MoveLinearCalls) != 2 {
		t.Fatalf("expected a rotate move, got success=%v calls=%d", success, len(driver.MoveLinearCalls))
	}
	rotateCall := driver.MoveLinearCalls[1]
	d.RobotPose = spatialmath.Pose{X: rotateCall.X, Y: rotateCall.Y, Z: rotateCall.Z, Rx: rotateCall.Rx, Ry: rotateCall.Ry, Rz: rotateCall.Rz}
	success, _ = a.MoveDecision(d)
	if !success || a.phase != upwardPhaseDescend {
		t.Fatalf("expected arrival to flip to descend phase, got success=%v phase=%d", success, a.phase)
	}

	// Descend onto the target, then start over at translate.
	success, normalize := a.MoveDecision(d)
	if !success || !normalize {
		t.Fatalf("expected descend move to succeed and request force normalization, got success=%v normalize=%v", success, normalize)
	}
	if len(driver.MoveLinearCalls) != 3 || driver.MoveLinearCalls[2].Z != target.Z {
		t.Fatalf("expected a descend move to the target, got %+v", driver.MoveLinearCalls)
	}
	if a.phase != upwardPhaseTranslate {
		t.Errorf("expected phase back to translate after descent, got %d", a.phase)
	}
}

func TestDirectlyUpwardMoveAwayFromHeadLiftsAlongOutwardRadial(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	a := NewDirectlyUpward(driver, 150)

	head := spatialmath.Pose{X: 0, Y: 0, Z: 300}
	robotPose := spatialmath.Pose{X: 100, Y: 0, Z: 300}

	if !a.MoveAwayFromHead(head, robotPose) {
		t.Fatal("expected MoveAwayFromHead to succeed")
	}
	call := driver.MoveLinearCalls[0]
	if call.X <= robotPose.X {
		t.Errorf("expected retraction to move further from head along +X, got x=%v", call.X)
	}
	if call.Z != robotPose.Z+150 {
		t.Errorf("expected Z to lift by safeHeight, got z=%v want %v", call.Z, robotPose.Z+150)
	}
}

func TestDirectlyUpwardResetStateReturnsToTranslate(t *testing.T) {
	driver := robot.NewTestDriver()
	a := NewDirectlyUpward(driver, 150)
	a.phase = upwardPhaseDescend
	a.ResetState()
	if a.phase != upwardPhaseTranslate {
		t.Errorf("expected ResetState to clear phase to translate, got %d", a.phase)
	}
}

func TestPoseWithinToleranceRoundTrip(t *testing.T) {
	a := spatialmath.Pose{X: 1, Y: 1, Z: 1, Rx: 1, Ry: 1, Rz: 1}
	b := spatialmath.Pose{X: 1.5, Y: 1.5, Z: 1.5, Rx: 1.5, Ry: 1.5, Rz: 1.5}
	if !poseWithinTolerance(a, b, 1.0, 1.0) {
		t.Errorf("expected poses within 1.0 tolerance to match")
	}
	if poseWithinTolerance(a, b, 0.1, 0.1) {
		t.Errorf("expected poses beyond 0.1 tolerance to not match")
	}
}
