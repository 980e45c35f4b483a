package movement

import (
	"testing"

	"github.com/tmscore/control/pkg/pidgroup"
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
)

func TestDirectlyPIDIssuesOneMoveAndUsesForceFeedbackForZ(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	group := pidgroup.New(pidgroup.Config{
		TranslationKp: 1, TranslationOutputLimit: 50,
		RotationKp: 1, RotationOutputLimit: 10,
		ForceSetpoint: 2, UseForce: true,
	})
	a := NewDirectlyPID(driver, group, 150)

	force := 0.0 // far from the 2N setpoint
	d := Decision{
		DisplacementToTarget: spatialmath.Pose{X: 5, Y: -5, Z: 0, Rx: 1, Ry: 0, Rz: 0},
		RobotPose:             spatialmath.Pose{X: 0, Y: 0, Z: 0},
		ForceFeedback:         &force,
	}

	success, normalize := a.MoveDecision(d)
	if !success {
		t.Fatal("expected single PID-driven move to succeed")
	}
	if !normalize {
		t.Errorf("expected normalizeForceHint true when force feedback present")
	}
	if len(driver.MoveLinearCalls) != 1 {
		t.Fatalf("expected exactly one motion primitive per tick, got %d", len(driver.MoveLinearCalls))
	}

	call := driver.MoveLinearCalls[0]
	if call.Z <= 0 {
		t.Errorf("expected force-coupled Z loop to drive a positive command toward the 2N setpoint, got %v", call.Z)
	}
}

func TestDirectlyPIDWithoutForceFeedbackUsesDisplacementZ(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	group := pidgroup.New(pidgroup.Config{TranslationKp: 1, TranslationOutputLimit: 50, RotationKp: 1, RotationOutputLimit: 10})
	a := NewDirectlyPID(driver, group, 150)

	d := Decision{
		DisplacementToTarget: spatialmath.Pose{X: 0, Y: 0, Z: 10},
	}
	success, normalize := a.MoveDecision(d)
	if !success {
		t.Fatal("expected move to succeed")
	}
	if normalize {
		t.Errorf("expected normalizeForceHint false with no force source")
	}
	if driver.MoveLinearCalls[0].Z <= 0 {
		t.Errorf("expected displacement-driven Z command, got %v", driver.MoveLinearCalls[0].Z)
	}
}

func TestDirectlyPIDMoveAwayFromHeadLiftsAlongOutwardRadial(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	group := pidgroup.New(pidgroup.Config{TranslationKp: 1, TranslationOutputLimit: 50, RotationKp: 1, RotationOutputLimit: 10})
	a := NewDirectlyPID(driver, group, 150)

	head := spatialmath.Pose{X: 0, Y: 0, Z: 300}
	robotPose := spatialmath.Pose{X: 100, Y: 0, Z: 300}

	if !a.MoveAwayFromHead(head, robotPose) {
		t.Fatal("expected MoveAwayFromHead to succeed")
	}
	if len(driver.MoveLinearCalls) != 1 {
		t.Fatalf("expected one motion primitive, got %d", len(driver.MoveLinearCalls))
	}
	call := driver.MoveLinearCalls[0]
	if call.X <= robotPose.X {
		t.Errorf("expected retraction to move further from head along +X, got x=%v", call.X)
	}
	if call.Z != robotPose.Z+150 {
		t.Errorf("expected Z to lift by safeHeight, got z=%v want %v", call.Z, robotPose.Z+150)
	}
}

func TestDirectlyPIDResetStateClearsIntegrators(t *testing.T) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	group := pidgroup.New(pidgroup.Config{TranslationKp: 1, TranslationKi: 1, TranslationOutputLimit: 1000, TranslationIntegratorLimit: 1000})
	a := NewDirectlyPID(driver, group, 150)

	a.MoveDecision(Decision{DisplacementToTarget: spatialmath.Pose{X: 100}})
	a.ResetState()
	translation, _ := group.GetOutputs()
	if translation.X != 0 {
		t.Errorf("expected ResetState to clear last translation output, got %v", translation.X)
	}
}
