package robot

import "testing"

func TestTestDriverRecordsMoveLinearCalls(t *testing.T) {
	d := NewTestDriver()
	d.Connect()

	target := Pose6{X: 1, Y: 2, Z: 3}
	if !d.MoveLinear(target) {
		t.Fatal("expected MoveLinear to succeed")
	}
	if len(d.MoveLinearCalls) != 1 || d.MoveLinearCalls[0] != target {
		t.Errorf("expected move recorded, got %+v", d.MoveLinearCalls)
	}
	if !d.IsMoving() {
		t.Errorf("expected IsMoving true after a move with MovesComplete=false")
	}
}

func TestTestDriverStopClearsMoving(t *testing.T) {
	d := NewTestDriver()
	d.MoveLinear(Pose6{X: 1})
	if !d.StopRobot() {
		t.Fatal("expected StopRobot to succeed")
	}
	if d.IsMoving() {
		t.Errorf("expected IsMoving false after stop")
	}
	if d.StopCalls != 1 {
		t.Errorf("expected 1 recorded stop call, got %d", d.StopCalls)
	}
}

func TestTestDriverMovesCompleteImmediately(t *testing.T) {
	d := NewTestDriver()
	d.MovesComplete = true
	d.MoveLinear(Pose6{X: 1})
	if d.IsMoving() {
		t.Errorf("expected IsMoving false when MovesComplete is set")
	}
}
