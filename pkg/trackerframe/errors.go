package trackerframe

import "errors"

var (
	// ErrTransformNotSet is returned by TransformPoseToRobotSpace before
	// the tracker→robot transform has been established.
	ErrTransformNotSet = errors.New("tracker to robot transform not set")

	// ErrTargetNotSet is returned when a target-dependent operation is
	// invoked with no target currently set.
	ErrTargetNotSet = errors.New("target not set")
)
