// Package movement implements the three interchangeable Movement
// Algorithms (radially-outward, directly-upward, directly-PID) that
// decide how the robot approaches a tracked target.
package movement

import (
	"math"

	"github.com/tmscore/control/pkg/spatialmath"
)

// Decision is the input a Movement Algorithm needs to decide its next
// motion primitive, matching the shared contract's parameter list.
type Decision struct {
	DisplacementToTarget   spatialmath.Pose
	TargetFromHead         spatialmath.Matrix4
	TargetFromDisplacement spatialmath.Matrix4
	RobotPose              spatialmath.Pose
	HeadCenter             spatialmath.Pose
	// ForceFeedback is the latest force-axis reading, nil when no force
	// source is enabled. Only DirectlyPID consults it.
	ForceFeedback *float64
}

// Algorithm is the shared contract every Movement Algorithm implements,
// modeled on a keyframe-player Move interface (Name/Duration/Evaluate/
// IsComplete) generalized from keyframe playback to closed-loop motion
// decisions.
type Algorithm interface {
	// MoveDecision evaluates one tick's worth of displacement/target
	// state and issues at most one motion primitive, returning whether
	// it succeeded and whether the caller should normalize the force
	// setpoint afterward.
	MoveDecision(d Decision) (success, normalizeForceHint bool)
	// MoveAwayFromHead retracts to the safe height above the head, lifting
	// along the local outward radial from headCenter to robotPose.
	MoveAwayFromHead(headCenter, robotPose spatialmath.Pose) bool
	// ResetState clears any phase/trajectory bookkeeping, called when a
	// trajectory is abandoned mid-flight.
	ResetState()
}

// SafeHeight implements the documented (buggy) safe-height policy: the
// source computes head_z + 150 but discards the result, so the
// effective policy is max(user_safe_height, robot_z). Preserved as
// written rather than "fixed".
func SafeHeight(headZ, userSafeHeight, robotZ float64) float64 {
	_ = headZ + 150 // computed, then discarded — preserved verbatim
	return math.Max(userSafeHeight, robotZ)
}

// retractionLateralDistance is the XY offset, in mm, applied along the
// outward radial when retracting away from the head.
const retractionLateralDistance = 50.0

// outwardRadial returns the unit vector from head center to the robot's
// current position, in the XY plane, used as the retraction/lift
// direction for every algorithm's move-away-from-head.
func outwardRadial(headCenter, robotPose spatialmath.Pose) (dx, dy float64) {
	dx = robotPose.X - headCenter.X
	dy = robotPose.Y - headCenter.Y
	norm := math.Hypot(dx, dy)
	if norm < 1e-6 {
		return 1, 0
	}
	return dx / norm, dy / norm
}
