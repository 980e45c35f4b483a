// Package protocol defines the message envelope and payload catalogue
// exchanged between the control core and neuronavigation over the
// Remote Control sink.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of an inbound or outbound message.
type MessageType string

const (
	// Inbound (neuronavigation → core)
	TypeRobotConnection           MessageType = "robot_connection"
	TypeSetTrackerFiducials        MessageType = "set_tracker_fiducials"
	TypeSetTarget                  MessageType = "set_target"
	TypeUnsetTarget                MessageType = "unset_target"
	TypeUpdateTrackerPoses          MessageType = "update_tracker_poses"
	TypeCreatePoint                 MessageType = "create_point"
	TypeResetRobotMatrix             MessageType = "reset_robot_matrix"
	TypeRobotMatrixEstimation         MessageType = "robot_matrix_estimation"
	TypeSetRobotTransformationMatrix  MessageType = "set_robot_transformation_matrix"
	TypeUpdateDisplacementToTarget    MessageType = "update_displacement_to_target"
	TypeCoilAtTarget                   MessageType = "coil_at_target"
	TypeSetObjective                    MessageType = "set_objective"
	TypeSetFreedrive                     MessageType = "set_freedrive"
	TypeCheckConnectionRobot               MessageType = "check_connection_robot"

	// Outbound (core → neuronavigation)
	TypeRobotConnectionStatus        MessageType = "robot_connection_status"
	TypeCloseRobotDialog              MessageType = "close_robot_dialog"
	TypeUpdateRobotTransformationMatrix MessageType = "update_robot_transformation_matrix"
	TypeCoordinatesCollected            MessageType = "coordinates_collected"
	TypeSetObjectiveStatus                MessageType = "set_objective_status"
	TypeForceSensorData                    MessageType = "force_sensor_data"
	TypeUpdateZOffsetTarget                 MessageType = "update_z_offset_target"
	TypeUpdateRobotWarning                    MessageType = "update_robot_warning"
	TypeRestartRobotMainLoop                   MessageType = "restart_robot_main_loop"
)

// Message is the envelope wrapping every inbound and outbound payload.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage builds a Message with the current timestamp and data
// marshaled from v.
func NewMessage(msgType MessageType, v interface{}) (*Message, error) {
	var raw json.RawMessage
	if v != nil {
		var err error
		raw, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("protocol: marshal %s: %w", msgType, err)
		}
	}
	return &Message{Type: msgType, Timestamp: time.Now().UnixMilli(), Data: raw}, nil
}

// ParseData unmarshals the message payload into v.
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message.
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON-encoded message.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("protocol: parse message: %w", err)
	}
	return &msg, nil
}

// =============================================================================
// Inbound payloads
// =============================================================================

// RobotConnectionRequest triggers a connect attempt to robotIP.
type RobotConnectionRequest struct {
	RobotIP string `json:"robot_IP"`
}

// SetTrackerFiducialsRequest resets the tracker processor and seeds its
// three fiducial poses.
type SetTrackerFiducialsRequest struct {
	TrackerFiducials [3][6]float64 `json:"tracker_fiducials"`
}

// SetTargetRequest carries a 4x4 target matrix in tracker space,
// row-major flattened.
type SetTargetRequest struct {
	Target [16]float64 `json:"target"`
}

// UpdateTrackerPosesRequest carries the head/coil/reference poses and
// their per-marker visibility flags from one tracker read.
type UpdateTrackerPosesRequest struct {
	Poses        [3][6]float64 `json:"poses"`
	Visibilities [3]bool       `json:"visibilities"`
}

// SetRobotTransformationMatrixRequest carries a precomputed calibration
// as three row-major flattened 4x4 matrices (X_est, Y_est,
// affine_tracker_to_robot, in that order), 48 floats.
type SetRobotTransformationMatrixRequest struct {
	Data [48]float64 `json:"data"`
}

// UpdateDisplacementToTargetRequest carries one raw displacement sample.
type UpdateDisplacementToTargetRequest struct {
	Displacement [6]float64 `json:"displacement"`
}

// CoilAtTargetRequest reports whether neuronavigation considers the
// coil currently at the target.
type CoilAtTargetRequest struct {
	State bool `json:"state"`
}

// Objective mirrors the core's Objective enum on the wire.
type Objective int

const (
	ObjectiveNone Objective = iota
	ObjectiveTrackTarget
	ObjectiveMoveAwayFromHead
)

// SetObjectiveRequest selects the active objective.
type SetObjectiveRequest struct {
	Objective Objective `json:"objective"`
}

// SetFreedriveRequest toggles the robot's compliant free-drive mode.
type SetFreedriveRequest struct {
	Set bool `json:"set"`
}

// =============================================================================
// Outbound payloads
// =============================================================================

// ConnectionState mirrors the documented robot connection status values.
type ConnectionState string

const (
	ConnectionStateConnected      ConnectionState = "Connected"
	ConnectionStateNotConnected   ConnectionState = "Not Connected"
	ConnectionStateTryingToConnect ConnectionState = "Trying to connect"
	ConnectionStateUnableToConnect ConnectionState = "Unable to connect"
)

// RobotConnectionStatus reports the current connection state.
type RobotConnectionStatus struct {
	State ConnectionState `json:"state"`
}

// UpdateRobotTransformationMatrix publishes a freshly computed
// calibration, row-major flattened.
type UpdateRobotTransformationMatrix struct {
	AffineTrackerToRobot [16]float64 `json:"affine_tracker_to_robot"`
	AffineRobotToTracker [16]float64 `json:"affine_robot_to_tracker"`
}

// CoordinatesCollected reports the running calibration sample count.
type CoordinatesCollected struct {
	Count int `json:"count"`
}

// SetObjectiveStatus echoes the objective now in effect.
type SetObjectiveStatus struct {
	Objective Objective `json:"objective"`
}

// ForceSensorData publishes a deduplicated, sign-negated force reading.
type ForceSensorData struct {
	Values [6]float64 `json:"values"`
}

// UpdateZOffsetTarget reports the z-offset stability state.
type UpdateZOffsetTarget struct {
	Stable bool    `json:"stable"`
	Offset float64 `json:"offset"`
}

// UpdateRobotWarning carries a warning string, forwarded only when it
// changes from the previously published value.
type UpdateRobotWarning struct {
	Warning string `json:"warning"`
}

// RestartRobotMainLoop asks neuronavigation's relay to restart the
// robot process supervising this core.
type RestartRobotMainLoop struct{}

// CloseRobotDialog asks neuronavigation to dismiss its robot dialog,
// emitted once the connection attempt concludes either way.
type CloseRobotDialog struct{}
