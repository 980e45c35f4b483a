package calibration

import "github.com/tmscore/control/pkg/spatialmath"

// SampleSet holds the paired calibration samples: parallel robot/coil
// pose sequences plus flat position-triple lists, kept in lock-step.
type SampleSet struct {
	RobotPoses []spatialmath.Matrix4
	CoilPoses  []spatialmath.Matrix4

	RobotPositions [][3]float64
	CoilPositions  [][3]float64
}

// Clear empties every slice, keeping them in lock-step.
func (s *SampleSet) Clear() {
	s.RobotPoses = nil
	s.CoilPoses = nil
	s.RobotPositions = nil
	s.CoilPositions = nil
}

// Append records one more paired sample (a calibration "create_point"
// capture).
func (s *SampleSet) Append(robotPose, coilPose spatialmath.Matrix4) {
	s.RobotPoses = append(s.RobotPoses, robotPose)
	s.CoilPoses = append(s.CoilPoses, coilPose)
	s.RobotPositions = append(s.RobotPositions, [3]float64{robotPose[0][3], robotPose[1][3], robotPose[2][3]})
	s.CoilPositions = append(s.CoilPositions, [3]float64{coilPose[0][3], coilPose[1][3], coilPose[2][3]})
}

// Len returns the number of paired samples currently recorded.
func (s *SampleSet) Len() int {
	return len(s.RobotPoses)
}
