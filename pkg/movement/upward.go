package movement

import (
	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
)

// upwardPhase names the three legs of DirectlyUpward's trajectory.
type upwardPhase int

const (
	upwardPhaseTranslate upwardPhase = iota
	upwardPhaseRotate
	upwardPhaseDescend
)

const upwardArrivalTolerance = 2.0 // mm / degrees

// DirectlyUpward translates above the current target at safe height,
// rotates in place to the target orientation, then descends — a
// three-segment trajectory that resets its own phase index whenever the
// trajectory is abandoned mid-flight.
type DirectlyUpward struct {
	driver     robot.Driver
	safeHeight float64

	phase upwardPhase
}

// NewDirectlyUpward returns a DirectlyUpward algorithm driving driver,
// clamping its transit height to at least safeHeight.
func NewDirectlyUpward(driver robot.Driver, safeHeight float64) *DirectlyUpward {
	return &DirectlyUpward{driver: driver, safeHeight: safeHeight}
}

func (a *DirectlyUpward) ResetState() {
	a.phase = upwardPhaseTranslate
}

func withinTolerance(a, b float64, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < tol
}

func poseWithinTolerance(a, b spatialmath.Pose, posTol, rotTol float64) bool {
	return withinTolerance(a.X, b.X, posTol) &&
		withinTolerance(a.Y, b.Y, posTol) &&
		withinTolerance(a.Z, b.Z, posTol) &&
		withinTolerance(a.Rx, b.Rx, rotTol) &&
		withinTolerance(a.Ry, b.Ry, rotTol) &&
		withinTolerance(a.Rz, b.Rz, rotTol)
}

func (a *DirectlyUpward) MoveDecision(d Decision) (success, normalizeForceHint bool) {
	target := spatialmath.FromMatrix(d.TargetFromDisplacement)
	safe := SafeHeight(d.HeadCenter.Z, a.safeHeight, d.RobotPose.Z)

	switch a.phase {
	case upwardPhaseTranslate:
		above := spatialmath.Pose{X: target.X, Y: target.Y, Z: safe, Rx: d.RobotPose.Rx, Ry: d.RobotPose.Ry, Rz: d.RobotPose.Rz}
		if poseWithinTolerance(d.RobotPose, above, upwardArrivalTolerance, upwardArrivalTolerance) {
			a.phase = upwardPhaseRotate
			return true, false
		}
		return a.driver.MoveLinear(toPose6(above)), false

	case upwardPhaseRotate:
		rotated := spatialmath.Pose{X: d.RobotPose.X, Y: d.RobotPose.Y, Z: d.RobotPose.Z, Rx: target.Rx, Ry: target.Ry, Rz: target.Rz}
		if poseWithinTolerance(d.RobotPose, rotated, upwardArrivalTolerance, upwardArrivalTolerance) {
			a.phase = upwardPhaseDescend
			return true, false
		}
		return a.driver.MoveLinear(toPose6(rotated)), false

	default: // upwardPhaseDescend
		success = a.driver.MoveLinear(toPose6(target))
		if success {
			a.phase = upwardPhaseTranslate
		}
		return success, true
	}
}

func (a *DirectlyUpward) MoveAwayFromHead(headCenter, robotPose spatialmath.Pose) bool {
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
