package controller

import (
	"testing"
	"time"

	"github.com/tmscore/control/internal/config"
	"github.com/tmscore/control/pkg/movement"
	"github.com/tmscore/control/pkg/pidgroup"
	"github.com/tmscore/control/pkg/protocol"
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
	"github.com/tmscore/control/pkg/trackerframe"
)

type fakeSink struct {
	published []*protocol.Message
}

func (s *fakeSink) Publish(m *protocol.Message) { s.published = append(s.published, m) }
func (s *fakeSink) ClientCount() int            { return 0 }

func (s *fakeSink) last(t protocol.MessageType) *protocol.Message {
	for i := len(s.published) - 1; i >= 0; i-- {
		if s.published[i].Type == t {
			return s.published[i]
		}
	}
	return nil
}

func newTestController() (*Controller, *robot.TestDriver, *fakeSink) {
	driver := robot.NewTestDriver()
	driver.MovesComplete = true
	sink := &fakeSink{}
	pid := pidgroup.New(pidgroup.Config{
		TranslationKp: 1, TranslationOutputLimit: 50,
		RotationKp: 1, RotationOutputLimit: 50,
	})
	alg := movement.NewDirectlyPID(driver, pid, 150)
	cfg := config.Default()
	c := New(cfg, pid, nil, sink)
	c.attachDriver(driver, alg)
	// Identity tracker→robot calibration, so tracker poses are usable in
	// robot space.
	c.frame.SetCalibration(spatialmath.Identity(), spatialmath.Identity(), spatialmath.Identity())
	return c, driver, sink
}

// S1: connect-and-idle — the controller connects, reports status, and
// issues no motion while no target is set.
func TestUpdateConnectsAndPublishesStatus(t *testing.T) {
	c, driver, sink := newTestController()

	if !c.Update() {
		t.Fatalf("Update() = false, want true on first connect")
	}
	if !driver.IsConnected() {
		t.Fatalf("driver not connected after Update")
	}
	if msg := sink.last(protocol.TypeRobotConnectionStatus); msg == nil {
		t.Fatalf("expected a robot_connection_status publish")
	}
	if len(driver.MoveLinearCalls) != 0 {
		t.Fatalf("expected no motion with no target set, got %d calls", len(driver.MoveLinearCalls))
	}
}

// S3: track-target happy path — once a target and fresh displacement
// are present, the controller issues a motion command.
func TestTrackTargetIssuesMotionOnFreshDisplacement(t *testing.T) {
	c, driver, _ := newTestController()
	c.Update() // connect

	head := spatialmath.Pose{X: 0, Y: 0, Z: 500}
	coil := spatialmath.Pose{X: 0, Y: 0, Z: 300}
	c.frame.SetPoses(head, coil, spatialmath.Pose{}, true, true, true)

	targetMatrix := spatialmath.Pose{X: 10, Y: 0, Z: 300}.ToMatrix()
	c.setTarget(trackerframe.NewTarget(targetMatrix, head))
	c.setObjective(ObjectiveTrackTarget)
	c.dispTrack.Update(trackerframe.Displacement{X: 10}, time.Now())

	c.Update()

	if len(driver.MoveLinearCalls) == 0 {
		t.Fatalf("expected MoveLinear to be called once a fresh displacement is present")
	}
}

// S4: head loss — losing head visibility mid-track stops the robot and
// emits a warning, honoring StopRobotIfHeadNotVisible.
func TestTrackTargetStopsWhenHeadNotVisible(t *testing.T) {
	c, driver, sink := newTestController()
	c.Update()

	head := spatialmath.Pose{X: 0, Y: 0, Z: 500}
	c.frame.SetPoses(head, spatialmath.Pose{}, spatialmath.Pose{}, true, true, true)
	c.setTarget(trackerframe.NewTarget(spatialmath.Pose{X: 10, Y: 0, Z: 300}.ToMatrix(), head))
	c.setObjective(ObjectiveTrackTarget)
	c.Update()

	driver.StopCalls = 0
	c.frame.SetPoses(head, spatialmath.Pose{}, spatialmath.Pose{}, true, false, true)
	c.Update()

	if driver.StopCalls == 0 {
		t.Fatalf("expected StopRobot to be called when coil marker is lost")
	}
	if msg := sink.last(protocol.TypeUpdateRobotWarning); msg == nil {
		t.Fatalf("expected an update_robot_warning publish on head/coil loss")
	}

	driver.StopCalls = 0
	c.frame.SetPoses(head, spatialmath.Pose{}, spatialmath.Pose{}, false, true, true)
	c.Update()

	if driver.StopCalls == 0 {
		t.Fatalf("expected StopRobot to be called when head marker is lost")
	}
}

// S5: frozen feed — twenty identical displacement updates trip the
// freeze detector, which stops and clears the objective.
func TestFrozenDisplacementClearsObjective(t *testing.T) {
	c, driver, _ := newTestController()
	c.Update()

	head := spatialmath.Pose{X: 0, Y: 0, Z: 500}
	c.frame.SetPoses(head, spatialmath.Pose{X: 0, Y: 0, Z: 300}, spatialmath.Pose{}, true, true, true)
	c.setTarget(trackerframe.NewTarget(spatialmath.Pose{X: 10, Y: 0, Z: 300}.ToMatrix(), head))
	c.setObjective(ObjectiveTrackTarget)

	frozen := trackerframe.Displacement{X: 5, Y: 5, Z: 5}
	for i := 0; i < 20; i++ {
		c.dispTrack.Update(frozen, time.Now())
	}

	c.Update()

	if driver.StopCalls == 0 {
		t.Fatalf("expected StopRobot to be called on a frozen feed")
	}
	c.mu.Lock()
	objective := c.objective
	c.mu.Unlock()
	if objective != ObjectiveNone {
		t.Fatalf("objective = %v, want ObjectiveNone after a frozen feed", objective)
	}
}

// S6: move-away-from-head — objective MOVE_AWAY_FROM_HEAD retracts once,
// then auto-clears back to ObjectiveNone on completion.
func TestMoveAwayFromHeadAutoClearsObjective(t *testing.T) {
	c, driver, _ := newTestController()
	c.Update()

	head := spatialmath.Pose{X: 0, Y: 0, Z: 500}
	c.frame.SetPoses(head, spatialmath.Pose{X: 50, Y: 0, Z: 300}, spatialmath.Pose{}, true, true, true)
	driver.SetPose(robot.Pose6{X: 50, Y: 0, Z: 300})
	c.setObjective(ObjectiveMoveAwayFromHead)

	// One tick issues the retract move; the state machine then needs the
	// early-finish run of not-moving ticks before it reaches WAITING and
	// the objective auto-clears.
	for i := 0; i < 15; i++ {
		c.Update()
	}

	c.mu.Lock()
	objective := c.objective
	c.mu.Unlock()
	if objective != ObjectiveNone {
		t.Fatalf("objective = %v, want ObjectiveNone after the retract completes", objective)
	}
}

func TestDispatchSetAndUnsetTarget(t *testing.T) {
	c, _, _ := newTestController()
	c.frame.SetPoses(spatialmath.Pose{X: 0, Y: 0, Z: 500}, spatialmath.Pose{}, spatialmath.Pose{}, true, true, true)

	msg, err := protocol.NewSetTargetMessage([16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1})
	if err != nil {
		t.Fatalf("NewSetTargetMessage: %v", err)
	}
	c.Dispatch(msg)
	if !c.getTarget().IsSet() {
		t.Fatalf("expected target to be set after dispatching set_target")
	}

	unset, _ := protocol.NewUnsetTargetMessage()
	c.Dispatch(unset)
	if c.getTarget().IsSet() {
		t.Fatalf("expected target to be unset after dispatching unset_target")
	}
}

// Dispatching robot_connection is what is supposed to bring the Robot
// Driver, Movement Algorithm, and State Machine into existence — before
// that, Update must decline to run a tick at all.
func TestDispatchRobotConnectionBuildsDriverAndAlgorithm(t *testing.T) {
	pid := pidgroup.New(pidgroup.DefaultConfig())
	cfg := config.Default() // Robot: RobotTest
	sink := &fakeSink{}
	c := New(cfg, pid, nil, sink)

	if c.Update() {
		t.Fatalf("expected Update to report false before any robot_connection")
	}

	msg, err := protocol.NewRobotConnectionMessage("10.0.0.5")
	if err != nil {
		t.Fatalf("NewRobotConnectionMessage: %v", err)
	}
	c.Dispatch(msg)

	c.mu.Lock()
	driver, algorithm, sm := c.driver, c.algorithm, c.sm
	c.mu.Unlock()
	if driver == nil || algorithm == nil || sm == nil {
		t.Fatalf("expected driver, algorithm, and state machine to be built after robot_connection")
	}
	if msg := sink.last(protocol.TypeRobotConnectionStatus); msg == nil {
		t.Fatalf("expected a robot_connection_status publish")
	}

	if !c.Update() {
		t.Fatalf("expected Update to succeed once a robot_connection has completed")
	}
}

// coil_at_target is an external confirmation from neuronavigation, not
// something the controller infers from a successful motion primitive.
func TestDispatchCoilAtTargetSetsTargetReached(t *testing.T) {
	c, _, _ := newTestController()

	msg, err := protocol.NewCoilAtTargetMessage(true)
	if err != nil {
		t.Fatalf("NewCoilAtTargetMessage: %v", err)
	}
	c.Dispatch(msg)
	c.mu.Lock()
	reached := c.targetReached
	c.mu.Unlock()
	if !reached {
		t.Fatalf("expected targetReached to be true after coil_at_target{state:true}")
	}

	msg, _ = protocol.NewCoilAtTargetMessage(false)
	c.Dispatch(msg)
	c.mu.Lock()
	reached = c.targetReached
	c.mu.Unlock()
	if reached {
		t.Fatalf("expected targetReached to be false after coil_at_target{state:false}")
	}
}

// A successful MoveDecision alone must not mark the target reached —
// that only happens once coil_at_target confirms it.
func TestTrackTargetDoesNotSetTargetReachedOnItsOwn(t *testing.T) {
	c, _, _ := newTestController()
	c.Update() // connect

	head := spatialmath.Pose{X: 0, Y: 0, Z: 500}
	coil := spatialmath.Pose{X: 0, Y: 0, Z: 300}
	c.frame.SetPoses(head, coil, spatialmath.Pose{}, true, true, true)
	c.setTarget(trackerframe.NewTarget(spatialmath.Pose{X: 10, Y: 0, Z: 300}.ToMatrix(), head))
	c.setObjective(ObjectiveTrackTarget)
	c.dispTrack.Update(trackerframe.Displacement{X: 10}, time.Now())

	c.Update()

	c.mu.Lock()
	reached := c.targetReached
	c.mu.Unlock()
	if reached {
		t.Fatalf("expected targetReached to remain false until coil_at_target confirms it")
	}
}

func TestDispatchSetObjectivePublishesStatus(t *testing.T) {
	c, _, sink := newTestController()
	msg, _ := protocol.NewSetObjectiveMessage(protocol.ObjectiveTrackTarget)
	c.Dispatch(msg)

	if got := sink.last(protocol.TypeSetObjectiveStatus); got == nil {
		t.Fatalf("expected a set_objective_status publish")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.objective != ObjectiveTrackTarget {
		t.Fatalf("objective = %v, want ObjectiveTrackTarget", c.objective)
	}
}
