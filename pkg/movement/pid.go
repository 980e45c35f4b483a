package movement

import (
	"time"

	"github.com/tmscore/control/pkg/pidgroup"
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
)

// DirectlyPID issues small linear motions whose magnitude equals the PID
// outputs for the current displacement-to-target, with z commanded from
// the force-axis loop whenever a force source is present. It terminates
// each tick after a single motion primitive.
type DirectlyPID struct {
	driver     robot.Driver
	pid        *pidgroup.Group
	safeHeight float64
}

// NewDirectlyPID returns a DirectlyPID algorithm driving driver through
// pid's six loops.
func NewDirectlyPID(driver robot.Driver, pid *pidgroup.Group, safeHeight float64) *DirectlyPID {
	return &DirectlyPID{driver: driver, pid: pid, safeHeight: safeHeight}
}

func (a *DirectlyPID) ResetState() {
	a.pid.Clear()
}

func (a *DirectlyPID) MoveDecision(d Decision) (success, normalizeForceHint bool) {
	now := clockNow()

	translation := a.pid.UpdateTranslation(now, pidgroup.Translation{
		X: d.DisplacementToTarget.X,
		Y: d.DisplacementToTarget.Y,
		Z: d.DisplacementToTarget.Z,
	}, d.ForceFeedback)

	rotation := a.pid.UpdateRotation(now, pidgroup.Rotation{
		Rx: d.DisplacementToTarget.Rx,
		Ry: d.DisplacementToTarget.Ry,
		Rz: d.DisplacementToTarget.Rz,
	})

	target := robot.Pose6{
		X:  d.RobotPose.X + translation.X,
		Y:  d.RobotPose.Y + translation.Y,
		Z:  d.RobotPose.Z + translation.Z,
		Rx: d.RobotPose.Rx + rotation.Rx,
		Ry: d.RobotPose.Ry + rotation.Ry,
		Rz: d.RobotPose.Rz + rotation.Rz,
	}

	return a.driver.MoveLinear(target), d.ForceFeedback != nil
}

func (a *DirectlyPID) MoveAwayFromHead(headCenter, robotPose spatialmath.Pose) bool {
	dx, dy := outwardRadial(headCenter, robotPose)
	target := robot.Pose6{
		X:  robotPose.X + dx*retractionLateralDistance,
		Y:  robotPose.Y + dy*retractionLateralDistance,
		Z:  robotPose.Z + a.safeHeight,
		Rx: robotPose.Rx,
		Ry: robotPose.Ry,
		Rz: robotPose.Rz,
	}
	return a.driver.MoveLinear(target)
}

// clockNow is a seam over time.Now so tests can be deterministic about
// dt without faking the system clock.
var clockNow = time.Now
