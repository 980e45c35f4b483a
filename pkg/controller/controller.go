// Package controller implements the Controller Orchestrator: the single
// cooperative tick that ties the Pose Store, Tracker Frame, Force
// Source, State Machine, PID Group, Movement Algorithm, and Remote
// Control sink together.
package controller

import (
	"sync"
	"time"

	"github.com/tmscore/control/internal/config"
	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/alignment"
	"github.com/tmscore/control/pkg/calibration"
	"github.com/tmscore/control/pkg/forcesource"
	"github.com/tmscore/control/pkg/movement"
	"github.com/tmscore/control/pkg/pidgroup"
	"github.com/tmscore/control/pkg/posestore"
	"github.com/tmscore/control/pkg/protocol"
	"github.com/tmscore/control/pkg/remote"
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
	"github.com/tmscore/control/pkg/statemachine"
	"github.com/tmscore/control/pkg/trackerframe"
)

// displacementFreshness bounds how old the last displacement-to-target
// update may be before the track-target guard refuses to act on it.
const displacementFreshness = 300 * time.Millisecond

// headTooFastThreshold is the filtered head velocity, in mm/s, above
// which the track-target guard treats the tracker feed as unreliable
// and stops rather than chasing a moving head.
const headTooFastThreshold = 80.0

// Controller drives one tick of the control loop.
type Controller struct {
	cfg  config.Config
	sink remote.Sink

	poseStore   *posestore.Store
	frame       *trackerframe.Frame
	headFilter  *trackerframe.HeadPoseFilter
	dispTrack   *trackerframe.DisplacementTracker
	force       forcesource.Source
	pid         *pidgroup.Group
	calibEngine *calibration.Engine
	offsets     alignment.Offsets

	mu        sync.Mutex
	driver    robot.Driver          // nil until a robot_connection succeeds
	algorithm movement.Algorithm    // nil until a robot_connection succeeds
	sm        *statemachine.Machine // nil until a robot_connection succeeds

	target        trackerframe.Target
	objective     Objective
	samples       calibration.SampleSet
	lastWarning   string
	targetReached bool
	lastTuneTime  time.Time
}

// New builds a Controller with no robot connection yet. The Robot
// Driver, Movement Algorithm, and State Machine come into existence only
// once a robot_connection message succeeds, through Dispatch. force may
// be nil when neither force nor pressure sensing is enabled.
func New(cfg config.Config, pid *pidgroup.Group, force forcesource.Source, sink remote.Sink) *Controller {
	return &Controller{
		cfg:         cfg,
		sink:        sink,
		poseStore:   posestore.New(),
		frame:       trackerframe.New(),
		headFilter:  trackerframe.NewHeadPoseFilter(),
		dispTrack:   trackerframe.NewDisplacementTracker(),
		force:       force,
		pid:         pid,
		calibEngine: calibration.NewEngine(),
		offsets:     alignment.Offsets{Rx: cfg.RxOffset, Ry: cfg.RyOffset, Rz: cfg.RzOffset},
	}
}

// Frame exposes the Tracker Frame for inbound-message handlers.
func (c *Controller) Frame() *trackerframe.Frame { return c.frame }

// connectRobot builds the Robot Driver for the site-configured vendor
// against robotIP, connects it, and on success instantiates the
// Movement Algorithm and State Machine: both only make sense once a
// robot is actually reachable, so neither exists before this succeeds.
func (c *Controller) connectRobot(robotIP string) bool {
	c.publishStatus(protocol.ConnectionStateTryingToConnect)
	defer func() {
		if c.sink == nil {
			return
		}
		if msg, err := protocol.NewCloseRobotDialogMessage(); err == nil {
			c.sink.Publish(msg)
		}
	}()

	driver, err := robot.New(robot.Kind(c.cfg.Robot), robotIP)
	if err != nil {
		log.Warn("failed to construct robot driver", "error", err)
		c.publishStatus(protocol.ConnectionStateUnableToConnect)
		return false
	}
	if !driver.Connect() {
		c.publishStatus(protocol.ConnectionStateUnableToConnect)
		return false
	}
	driver.Initialize()

	var algorithm movement.Algorithm
	switch c.cfg.MovementAlgorithm {
	case config.AlgorithmRadiallyOutward:
		algorithm = movement.NewRadiallyOutward(driver, c.cfg.SafeHeight)
	case config.AlgorithmDirectlyUpward:
		algorithm = movement.NewDirectlyUpward(driver, c.cfg.SafeHeight)
	default:
		algorithm = movement.NewDirectlyPID(driver, c.pid, c.cfg.SafeHeight)
	}

	c.mu.Lock()
	previous := c.driver
	c.driver = driver
	c.algorithm = algorithm
	c.sm = statemachine.New(c.cfg.DwellTime)
	c.mu.Unlock()

	if previous != nil {
		previous.Close()
	}

	c.publishStatus(protocol.ConnectionStateConnected)
	return true
}

// attachDriver wires an already-built driver and algorithm directly,
// bypassing the robot_connection handshake. Used only by tests that need
// a deterministic in-memory driver without a dispatch round-trip.
func (c *Controller) attachDriver(driver robot.Driver, algorithm movement.Algorithm) {
	c.mu.Lock()
	c.driver = driver
	c.algorithm = algorithm
	c.sm = statemachine.New(c.cfg.DwellTime)
	c.mu.Unlock()
}

// robotState snapshots the driver, algorithm, and state machine under
// lock, since connectRobot can install them from the remote hub's
// goroutine while Update runs on the control loop's own goroutine.
func (c *Controller) robotState() (robot.Driver, movement.Algorithm, *statemachine.Machine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.driver, c.algorithm, c.sm
}

// Update runs one tick: reconnect, pose fetch, state advance, derive,
// dispatch, publish. It never returns an error across tick boundaries;
// a false return signals either a failed reconnect attempt or that no
// robot_connection has succeeded yet.
func (c *Controller) Update() bool {
	driver, algorithm, sm := c.robotState()
	if driver == nil {
		return false
	}

	if !driver.IsConnected() {
		c.publishStatus(protocol.ConnectionStateTryingToConnect)
		if !driver.Connect() {
			c.publishStatus(protocol.ConnectionStateUnableToConnect)
			return false
		}
		driver.Initialize()
		c.publishStatus(protocol.ConnectionStateConnected)
	}

	robotPose, ok := driver.GetPose()
	if ok {
		c.poseStore.Set(spatialmath.Pose{X: robotPose.X, Y: robotPose.Y, Z: robotPose.Z, Rx: robotPose.Rx, Ry: robotPose.Ry, Rz: robotPose.Rz})
	}

	driverMoving := driver.IsMoving()
	sm.Advance(driverMoving)

	if c.force != nil {
		c.force.UpdateBuffer()
	}

	derived := c.deriveState()

	c.mu.Lock()
	objective := c.objective
	c.mu.Unlock()

	switch objective {
	case ObjectiveNone:
		c.warn("")
		if sm.State() == statemachine.Moving {
			c.stop(driver, sm)
		}
	case ObjectiveTrackTarget:
		c.trackTarget(derived, driver, algorithm, sm)
	case ObjectiveMoveAwayFromHead:
		c.moveAwayFromHead(driverMoving, derived, driver, algorithm, sm)
	}

	c.publishTelemetry(objective, derived)
	return true
}

func (c *Controller) publishStatus(state protocol.ConnectionState) {
	if c.sink == nil {
		return
	}
	if msg, err := protocol.NewRobotConnectionStatusMessage(state); err == nil {
		c.sink.Publish(msg)
	}
}

func (c *Controller) stop(driver robot.Driver, sm *statemachine.Machine) bool {
	success := driver.StopRobot()
	if success {
		sm.SetStateToStopping()
	}
	time.Sleep(50 * time.Millisecond)
	if !success {
		log.Warn("stop_robot reported failure")
	}
	return success
}

// Close releases the robot connection, if one was ever established.
func (c *Controller) Close() error {
	driver, _, _ := c.robotState()
	if driver == nil {
		return nil
	}
	return driver.Close()
}

// setObjective changes the active objective and clears the PID
// integrators and movement-algorithm phase state, per §4.3's invariant
// that both are cleared "on target change, objective change, or
// movement-algorithm reset."
func (c *Controller) setObjective(o Objective) {
	c.mu.Lock()
	c.objective = o
	c.mu.Unlock()

	c.pid.Clear()
	if _, algorithm, _ := c.robotState(); algorithm != nil {
		algorithm.ResetState()
	}

	if c.sink != nil {
		if msg, err := protocol.NewSetObjectiveStatusMessage(protocol.Objective(o)); err == nil {
			c.sink.Publish(msg)
		}
	}
}

func (c *Controller) getTarget() trackerframe.Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *Controller) setTarget(t trackerframe.Target) {
	c.mu.Lock()
	c.target = t
	c.mu.Unlock()
}

func (c *Controller) warn(message string) {
	c.mu.Lock()
	changed := c.lastWarning != message
	c.lastWarning = message
	c.mu.Unlock()
	if changed && c.sink != nil {
		if msg, err := protocol.NewUpdateRobotWarningMessage(message); err == nil {
			c.sink.Publish(msg)
		}
	}
}

// publishTelemetry forwards deduplicated force-sensor data, and, while
// tracking a target, the current z-offset once the force reading is
// actually stable there — mirroring send_force_stability_to_neuronavigation,
// which only fires under TRACK_TARGET and only on a stable reading.
func (c *Controller) publishTelemetry(objective Objective, d derivedState) {
	if c.sink == nil || c.force == nil {
		return
	}

	value, ok := c.force.Latest(forcesource.AxisZ)
	if ok && c.force.ForceChanged(value) {
		values := [6]float64{}
		for axis := 0; axis < 6; axis++ {
			if v, vok := c.force.Latest(forcesource.Axis(axis)); vok {
				values[axis] = -v // sign-negated per the published convention
			}
		}
		if msg, err := protocol.NewForceSensorDataMessage(values); err == nil {
			c.sink.Publish(msg)
		}
	}

	if objective != ObjectiveTrackTarget {
		return
	}
	if !c.force.IsForceZStable(c.pid.GetForceSetpoint(), 0) {
		return
	}
	if msg, err := protocol.NewUpdateZOffsetTargetMessage(true, d.displacement.Z); err == nil {
		c.sink.Publish(msg)
	}
}
