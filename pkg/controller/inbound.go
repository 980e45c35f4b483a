package controller

import (
	"time"

	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/alignment"
	"github.com/tmscore/control/pkg/protocol"
	"github.com/tmscore/control/pkg/spatialmath"
	"github.com/tmscore/control/pkg/trackerframe"
)

// Dispatch handles one inbound message from neuronavigation. It runs on
// the remote package's hub goroutine, never on the control-loop
// goroutine, so every write to shared controller state goes through a
// locked setter.
func (c *Controller) Dispatch(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeRobotConnection:
		req, err := msg.GetRobotConnectionRequest()
		if err != nil {
			log.Warn("malformed robot_connection", "error", err)
			return
		}
		c.connectRobot(req.RobotIP)

	case protocol.TypeSetTrackerFiducials:
		c.dispTrack.Clear()
		c.headFilter.Reset()

	case protocol.TypeSetTarget:
		req, err := msg.GetSetTargetRequest()
		if err != nil {
			log.Warn("malformed set_target", "error", err)
			return
		}
		head, headVisible := c.frame.Head()
		if !headVisible {
			c.warn("Warning: cannot set target, head not visible")
			return
		}
		c.setTarget(trackerframe.NewTarget(matrixFromFlat(req.Target), head))
		c.pid.Clear()
		if _, algorithm, _ := c.robotState(); algorithm != nil {
			algorithm.ResetState()
		}
		c.mu.Lock()
		c.targetReached = false
		c.mu.Unlock()

	case protocol.TypeUnsetTarget:
		c.setTarget(trackerframe.Target{})

	case protocol.TypeUpdateTrackerPoses:
		req, err := msg.GetUpdateTrackerPosesRequest()
		if err != nil {
			log.Warn("malformed update_tracker_poses", "error", err)
			return
		}
		c.frame.SetPoses(
			poseFromArray(req.Poses[0]), poseFromArray(req.Poses[1]), poseFromArray(req.Poses[2]),
			req.Visibilities[0], req.Visibilities[1], req.Visibilities[2],
		)

	case protocol.TypeCreatePoint:
		c.capturePoint()

	case protocol.TypeResetRobotMatrix:
		c.mu.Lock()
		c.samples.Clear()
		c.mu.Unlock()

	case protocol.TypeRobotMatrixEstimation:
		c.estimateCalibration()

	case protocol.TypeSetRobotTransformationMatrix:
		req, err := msg.GetSetRobotTransformationMatrixRequest()
		if err != nil {
			log.Warn("malformed set_robot_transformation_matrix", "error", err)
			return
		}
		xEst := matrixFromFlat(sliceTo16(req.Data[0:16]))
		yEst := matrixFromFlat(sliceTo16(req.Data[16:32]))
		affine := matrixFromFlat(sliceTo16(req.Data[32:48]))
		c.frame.SetCalibration(xEst, yEst, affine)

	case protocol.TypeUpdateDisplacementToTarget:
		req, err := msg.GetUpdateDisplacementToTargetRequest()
		if err != nil {
			log.Warn("malformed update_displacement_to_target", "error", err)
			return
		}
		c.ingestDisplacement(req.Displacement)

	case protocol.TypeCoilAtTarget:
		req, err := msg.GetCoilAtTargetRequest()
		if err != nil {
			log.Warn("malformed coil_at_target", "error", err)
			return
		}
		c.mu.Lock()
		c.targetReached = req.State
		c.mu.Unlock()

	case protocol.TypeSetObjective:
		req, err := msg.GetSetObjectiveRequest()
		if err != nil {
			log.Warn("malformed set_objective", "error", err)
			return
		}
		c.setObjective(Objective(req.Objective))

	case protocol.TypeSetFreedrive:
		req, err := msg.GetSetFreedriveRequest()
		if err != nil {
			log.Warn("malformed set_freedrive", "error", err)
			return
		}
		driver, _, _ := c.robotState()
		if driver == nil {
			log.Warn("set_freedrive received with no robot connection")
			return
		}
		if req.Set {
			driver.EnableFreeDrive()
		} else {
			driver.DisableFreeDrive()
		}

	case protocol.TypeCheckConnectionRobot:
		driver, _, _ := c.robotState()
		state := protocol.ConnectionStateNotConnected
		if driver != nil && driver.IsConnected() {
			state = protocol.ConnectionStateConnected
		}
		c.publishStatus(state)

	default:
		log.Warn("unrecognized inbound message", "type", msg.Type)
	}
}

// ingestDisplacement applies the handedness ingress flip and the
// site-configured alignment, then records the result as the current
// displacement-to-target.
func (c *Controller) ingestDisplacement(raw [6]float64) {
	flipped := trackerframe.Ingress(trackerframe.Displacement{
		X: raw[0], Y: raw[1], Z: raw[2], Rx: raw[3], Ry: raw[4], Rz: raw[5],
	})
	aligned := alignment.Align(spatialmath.Pose(flipped), c.offsets)
	c.dispTrack.Update(trackerframe.Displacement(aligned), time.Now())
}

func poseFromArray(a [6]float64) spatialmath.Pose {
	return spatialmath.Pose{X: a[0], Y: a[1], Z: a[2], Rx: a[3], Ry: a[4], Rz: a[5]}
}

func sliceTo16(s []float64) [16]float64 {
	var out [16]float64
	copy(out[:], s)
	return out
}

func matrixFromFlat(flat [16]float64) spatialmath.Matrix4 {
	var m spatialmath.Matrix4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = flat[i*4+j]
		}
	}
	return m
}
