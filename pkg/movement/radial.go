package movement

import (
	"math"

	"github.com/tmscore/control/pkg/robot"
	"github.com/tmscore/control/pkg/spatialmath"
)

// arrivalCylinderRadius and arrivalCylinderHeight bound the cylinder
// around the target within which RadiallyOutward stops retracting and
// begins its final descent.
const (
	arrivalCylinderRadius = 5.0 // mm
	arrivalCylinderHeight = 10.0
)

// RadiallyOutward retracts along the outward radial from the head
// centre to a safe height before translating above the target, then
// descends — used when the approach trajectory must avoid the head
// envelope.
type RadiallyOutward struct {
	driver     robot.Driver
	safeHeight float64

	phase int // 0 = retract/translate, 1 = descend
}

// NewRadiallyOutward returns a RadiallyOutward algorithm driving driver,
// clamping retraction height to at least safeHeight.
func NewRadiallyOutward(driver robot.Driver, safeHeight float64) *RadiallyOutward {
	return &RadiallyOutward{driver: driver, safeHeight: safeHeight}
}

func (a *RadiallyOutward) ResetState() {
	a.phase = 0
}

func withinArrivalCylinder(robotPose, targetPose spatialmath.Pose) bool {
	dx := robotPose.X - targetPose.X
	dy := robotPose.Y - targetPose.Y
	dz := robotPose.Z - targetPose.Z
	return math.Hypot(dx, dy) < arrivalCylinderRadius && math.Abs(dz) < arrivalCylinderHeight
}

func (a *RadiallyOutward) MoveDecision(d Decision) (success, normalizeForceHint bool) {
	target := spatialmath.FromMatrix(d.TargetFromDisplacement)

	if a.phase == 0 {
		if withinArrivalCylinder(d.RobotPose, target) {
			a.phase = 1
			return true, false
		}

		safe := SafeHeight(d.HeadCenter.Z, a.safeHeight, d.RobotPose.Z)
		if d.RobotPose.Z >= a.safeHeight-arrivalCylinderHeight {
			// Already at safe height: translate above the target, and
			// hand over to the descent once directly above it.
			if math.Hypot(d.RobotPose.X-target.X, d.RobotPose.Y-target.Y) < arrivalCylinderRadius {
				a.phase = 1
				return true, false
			}
			above := target
			above.Z = safe
			return a.driver.MoveLinear(toPose6(above)), false
		}

		dx, dy := outwardRadial(d.HeadCenter, d.RobotPose)
		retracted := spatialmath.Pose{
			X: d.HeadCenter.X + dx*arrivalCylinderRadius*4,
			Y: d.HeadCenter.Y + dy*arrivalCylinderRadius*4,
			Z: safe,
		}
		success = a.driver.MoveLinear(toPose6(retracted))
		return success, false
	}

	// Phase 1: descend onto the target.
	success = a.driver.MoveLinear(toPose6(target))
	if success {
		a.phase = 0
	}
	return success, true
}

func (a *RadiallyOutward) MoveAwayFromHead(headCenter, robotPose spatialmath.Pose) bool {
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

func toPose6(p spatialmath.Pose) robot.Pose6 {
	return robot.Pose6{X: p.X, Y: p.Y, Z: p.Z, Rx: p.Rx, Ry: p.Ry, Rz: p.Rz}
}
