package controller

import (
	"time"

	"github.com/tmscore/control/pkg/forcesource"
	"github.com/tmscore/control/pkg/spatialmath"
)

// derivedState is the snapshot of computed values every tick builds
// once from the top-of-tick reads, consumed by the objective dispatch.
type derivedState struct {
	now time.Time

	headVisible, coilVisible bool
	headPoseRobot            spatialmath.Pose
	headPoseRobotOK          bool
	headCenter               spatialmath.Pose
	headVelocity             float64

	robotPose spatialmath.Pose

	targetFromHead         spatialmath.Matrix4
	targetFromHeadOK       bool
	targetFromDisplacement spatialmath.Matrix4
	displacement           spatialmath.Pose
	displacementOK         bool

	forceFeedback *float64
}

// deriveState recomputes every piece of per-tick derived state from the
// latest snapshots in the Pose Store and Tracker Frame. All reads within
// one call see the same top-of-tick values.
func (c *Controller) deriveState() derivedState {
	now := time.Now()
	d := derivedState{now: now}

	d.robotPose = c.poseStore.Pose()

	headPose, headVisible := c.frame.Head()
	_, coilVisible := c.frame.Coil()
	d.headVisible, d.coilVisible = headVisible, coilVisible

	// With the head marker hidden this tick, the last reported head pose
	// stands in, so the visibility guard still sees a head in robot space.
	headForRobot := headPose
	if headVisible {
		headForRobot = c.headFilter.Update(headPose, now)
		d.headVelocity = c.headFilter.Velocity()
	}
	if robotSpace, err := c.frame.TransformPoseToRobotSpace(headForRobot); err == nil {
		d.headPoseRobot = robotSpace
		d.headPoseRobotOK = true
		d.headCenter = robotSpace
	}

	target := c.getTarget()
	if target.IsSet() && d.headPoseRobotOK {
		projected := target.ProjectFromHead(headPose)
		if robotSpace, err := c.frame.TransformPoseToRobotSpace(spatialmath.FromMatrix(projected)); err == nil {
			d.targetFromHead = robotSpace.ToMatrix()
			d.targetFromHeadOK = true
		}
	}

	if disp, ok := c.dispTrack.Current(); ok {
		d.displacement = spatialmath.Pose(disp)
		d.displacementOK = true
		d.targetFromDisplacement = d.robotPose.Add(d.displacement).ToMatrix()
	}

	if c.force != nil {
		if v, ok := c.force.Latest(forcesource.AxisZ); ok {
			d.forceFeedback = &v
		}
	}

	return d
}
