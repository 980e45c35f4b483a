package trackerframe

import "github.com/tmscore/control/pkg/spatialmath"

// Target is a 4x4 homogeneous matrix in tracker space, plus the
// head-pose-relative transform captured at set-target time, which lets
// the target be projected forward as the head moves.
type Target struct {
	matrix       spatialmath.Matrix4
	targetToHead spatialmath.Matrix4
	set          bool
}

// NewTarget captures a target matrix in tracker space along with the
// head pose observed at the same instant, recording m_target_to_head =
// head⁻¹ · target for later forward projection.
func NewTarget(targetInTrackerSpace spatialmath.Matrix4, headAtSetTime spatialmath.Pose) Target {
	headM := headAtSetTime.ToMatrix()
	targetToHead := headM.Inverse().Multiply(targetInTrackerSpace)
	return Target{
		matrix:       targetInTrackerSpace,
		targetToHead: targetToHead,
		set:          true,
	}
}

// IsSet reports whether a target has been captured.
func (t Target) IsSet() bool {
	return t.set
}

// Matrix returns the originally captured target matrix in tracker space.
func (t Target) Matrix() spatialmath.Matrix4 {
	return t.matrix
}

// TargetToHead returns the captured head-relative transform.
func (t Target) TargetToHead() spatialmath.Matrix4 {
	return t.targetToHead
}

// ProjectFromHead re-derives the target's current tracker-space matrix
// from the current head pose and the captured target_to_head transform,
// so the target tracks head motion between re-captures.
func (t Target) ProjectFromHead(currentHead spatialmath.Pose) spatialmath.Matrix4 {
	return currentHead.ToMatrix().Multiply(t.targetToHead)
}
