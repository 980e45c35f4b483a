// Package trackerframe holds the latest filtered tracker poses (head,
// coil, reference) and the tracker→robot calibration triple, and derives
// robot-space poses and target projections from them.
package trackerframe

import (
	"sync"

	"github.com/tmscore/control/pkg/spatialmath"
)

// Frame is the thread-safe latest-tracker-state holder. A pose is valid
// only when its visibility flag was set within the same update batch.
type Frame struct {
	mu sync.RWMutex

	head, coil, reference       spatialmath.Pose
	headVisible, coilVisible    bool
	referenceVisible            bool

	xEst, yEst           spatialmath.Matrix4
	affineTrackerToRobot spatialmath.Matrix4
	calibrated           bool
}

// New returns an empty Frame with no poses and no calibration.
func New() *Frame {
	return &Frame{}
}

// SetPoses updates head, coil, and reference poses together, the unit of
// a single update batch: visibility flags only apply within this call.
func (f *Frame) SetPoses(head, coil, reference spatialmath.Pose, headVisible, coilVisible, referenceVisible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head, f.headVisible = head, headVisible
	f.coil, f.coilVisible = coil, coilVisible
	f.reference, f.referenceVisible = reference, referenceVisible
}

// Head returns the latest head pose and whether it is currently visible.
func (f *Frame) Head() (spatialmath.Pose, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.head, f.headVisible
}

// Coil returns the latest coil pose and whether it is currently visible.
func (f *Frame) Coil() (spatialmath.Pose, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.coil, f.coilVisible
}

// Reference returns the latest reference pose and its visibility.
func (f *Frame) Reference() (spatialmath.Pose, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reference, f.referenceVisible
}

// SetCalibration installs the (X_est, Y_est, affine_tracker_to_robot)
// triple, either from the Calibration Engine or a precomputed matrix
// ingested from neuronavigation.
func (f *Frame) SetCalibration(xEst, yEst, affineTrackerToRobot spatialmath.Matrix4) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.xEst, f.yEst, f.affineTrackerToRobot = xEst, yEst, affineTrackerToRobot
	f.calibrated = true
}

// Calibration returns the current (X_est, Y_est, affine) triple and
// whether it has been established.
func (f *Frame) Calibration() (xEst, yEst, affine spatialmath.Matrix4, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.xEst, f.yEst, f.affineTrackerToRobot, f.calibrated
}

// TransformPoseToRobotSpace applies the stored affine tracker→robot
// matrix to the input pose (given in tracker space), returning the pose
// re-expressed in robot space; the stored X_est and Y_est are not used
// here. Fails with ErrTransformNotSet before calibration has run.
func (f *Frame) TransformPoseToRobotSpace(p spatialmath.Pose) (spatialmath.Pose, error) {
	f.mu.RLock()
	affine, ok := f.affineTrackerToRobot, f.calibrated
	f.mu.RUnlock()
	if !ok {
		return spatialmath.Pose{}, ErrTransformNotSet
	}
	m := affine.Multiply(p.ToMatrix()).Orthonormalize()
	return spatialmath.FromMatrix(m), nil
}
