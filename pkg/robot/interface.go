// Package robot provides the Robot Driver interface and its variant
// implementations (Elfin, Dobot, Universal Robot, in-memory test stub).
//
// This package follows the same interface-segregation style as the
// small, focused control interfaces it evolved from: every operation the
// control core needs from a driver is named on Driver, and each variant
// constructor returns a Driver built for one vendor's transport.
package robot

// Pose6 is a 6-DOF robot pose: translation in millimetres, rotation in
// degrees (same layout as spatialmath.Pose, kept independent here so
// this package has no dependency beyond what a wire driver needs).
type Pose6 struct {
	X, Y, Z    float64
	Rx, Ry, Rz float64
}

// Axis selects a translation axis for a relative linear move.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Driver is the abstract interface over Elfin, Dobot, Universal Robot,
// and the in-memory test stub — the exact operation set the control core
// needs to connect to, query, and move a robot arm.
type Driver interface {
	// Connect establishes the underlying transport connection.
	Connect() bool
	// Initialize prepares the robot for motion after connecting.
	Initialize()
	// GetPose returns the robot's current pose, or ok=false on a
	// transient read failure.
	GetPose() (pose Pose6, ok bool)
	// IsMoving reports whether the robot is currently executing a
	// motion command.
	IsMoving() bool
	// IsErrorState reports whether the driver has latched an error.
	IsErrorState() bool
	// MoveLinear commands a linear move to the given pose.
	MoveLinear(target Pose6) bool
	// MoveCircular commands an arc move through waypoint to target,
	// starting from start.
	MoveCircular(start, waypoint, target Pose6) bool
	// MoveLinearRelative commands a small relative move of distance
	// (mm) along axis, in the given direction (+1 or -1).
	MoveLinearRelative(axis Axis, direction float64, distance float64) bool
	// StopRobot issues the stop command.
	StopRobot() bool
	// EnableFreeDrive puts the robot into compliant free-drive mode.
	EnableFreeDrive()
	// DisableFreeDrive exits free-drive mode.
	DisableFreeDrive()
	// ReadForceSensor returns the robot's integrated six-axis force
	// reading, when supported.
	ReadForceSensor() [6]float64
	// IsConnected reports whether the transport connection is live.
	IsConnected() bool
	// Close releases the transport connection.
	Close() error
}
