package controller

import (
	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/protocol"
)

// capturePoint records the current robot/coil pose pair as one
// calibration sample, then reports the running sample count.
func (c *Controller) capturePoint() {
	coil, coilVisible := c.frame.Coil()
	if !coilVisible {
		c.warn("Warning: cannot capture point, coil marker is not visible")
		return
	}

	c.mu.Lock()
	c.samples.Append(c.poseStore.Pose().ToMatrix(), coil.ToMatrix())
	count := c.samples.Len()
	c.mu.Unlock()

	if c.sink != nil {
		if msg, err := protocol.NewCoordinatesCollectedMessage(count); err == nil {
			c.sink.Publish(msg)
		}
	}
}

// estimateCalibration runs the Calibration Engine over the accumulated
// samples and, on success, installs the result into the Tracker Frame
// and reports it to neuronavigation.
func (c *Controller) estimateCalibration() {
	c.mu.Lock()
	samples := c.samples
	c.mu.Unlock()

	result, err := c.calibEngine.Estimate(samples)
	if err != nil {
		log.Warn("calibration estimate failed", "error", err)
		c.warn("Error: calibration estimate failed, collect more points")
		return
	}

	c.frame.SetCalibration(result.XEst, result.YEst, result.AffineTrackerToRobot)

	if c.sink == nil {
		return
	}
	msg, err := protocol.NewUpdateRobotTransformationMatrixMessage(
		flatten(result.AffineTrackerToRobot), flatten(result.AffineRobotToTracker),
	)
	if err == nil {
		c.sink.Publish(msg)
	}
}

func flatten(m [4][4]float64) [16]float64 {
	var out [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}
