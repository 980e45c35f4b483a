package controller

import (
	"math"

	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/movement"
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
	"github.com/tmscore/control/pkg/statemachine"
)

// trackTarget runs the track-target guard cascade and, if every guard
// passes, invokes the active Movement Algorithm. Guard order is
// significant: each step can stop, warn-and-skip, or silently skip.
func (c *Controller) trackTarget(d derivedState, driver robot.Driver, algorithm movement.Algorithm, sm *statemachine.Machine) {
	target := c.getTarget()
	if !target.IsSet() {
		return
	}

	if !d.headPoseRobotOK {
		return
	}

	if c.cfg.StopRobotIfHeadNotVisible && (!d.headVisible || !d.coilVisible) {
		c.stop(driver, sm)
		algorithm.ResetState()
		c.warn("Warning: Head or coil marker is not visible")
		return
	}

	if d.headVelocity > headTooFastThreshold {
		c.stop(driver, sm)
		algorithm.ResetState()
		c.warn("Warning: Head is moving too fast")
		return
	}

	if d.displacementOK {
		pos := spatialmath.FromMatrix(d.targetFromDisplacement).Translation()
		if math.Sqrt(pos[0]*pos[0]+pos[1]*pos[1]+pos[2]*pos[2]) >= c.cfg.WorkingSpaceRadius {
			c.warn("Warning: target outside working space radius")
			return
		}
	}

	if sm.State() != statemachine.Ready {
		return
	}

	c.mu.Lock()
	reached := c.targetReached
	lastTune := c.lastTuneTime
	c.mu.Unlock()

	tuningInterval := c.cfg.TuningIntervalOrZero()
	if reached && c.force != nil && c.force.IsForceNearSetpoint(c.pid.GetForceSetpoint()) {
		if tuningInterval == 0 || d.now.Sub(lastTune) < tuningInterval {
			return
		}
	}

	if !d.displacementOK || !c.dispTrack.Fresh(d.now, displacementFreshness) {
		c.dispTrack.Clear()
		return
	}

	if c.dispTrack.Frozen() {
		c.stop(driver, sm)
		c.setObjective(ObjectiveNone)
		log.Warn("frozen displacement feed detected, objective cleared")
		c.warn("Error: tracker feed appears frozen")
		return
	}

	c.warn("")
	decision := movementDecision(d)
	success, _ := algorithm.MoveDecision(decision)
	if success {
		sm.SetStateToStartMoving()
		c.mu.Lock()
		c.lastTuneTime = d.now
		c.mu.Unlock()
	}
}

// moveAwayFromHead implements the MOVE_AWAY_FROM_HEAD dispatch: stop
// first if currently moving, otherwise initiate the retract trajectory,
// and auto-reset the objective once motion ends.
func (c *Controller) moveAwayFromHead(driverMoving bool, d derivedState, driver robot.Driver, algorithm movement.Algorithm, sm *statemachine.Machine) {
	c.warn("")
	if driverMoving {
		c.stop(driver, sm)
		return
	}
	if sm.State() == statemachine.Ready {
		if algorithm.MoveAwayFromHead(d.headCenter, d.robotPose) {
			sm.SetStateToStartMoving()
		}
		return
	}
	if sm.State() == statemachine.Waiting {
		c.setObjective(ObjectiveNone)
	}
}
