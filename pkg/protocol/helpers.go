package protocol

// =============================================================================
// Helper functions for creating inbound messages
// =============================================================================

func NewRobotConnectionMessage(robotIP string) (*Message, error) {
	return NewMessage(TypeRobotConnection, RobotConnectionRequest{RobotIP: robotIP})
}

func NewSetTrackerFiducialsMessage(fiducials [3][6]float64) (*Message, error) {
	return NewMessage(TypeSetTrackerFiducials, SetTrackerFiducialsRequest{TrackerFiducials: fiducials})
}

func NewSetTargetMessage(target [16]float64) (*Message, error) {
	return NewMessage(TypeSetTarget, SetTargetRequest{Target: target})
}

func NewUnsetTargetMessage() (*Message, error) {
	return NewMessage(TypeUnsetTarget, nil)
}

func NewUpdateTrackerPosesMessage(poses [3][6]float64, visibilities [3]bool) (*Message, error) {
	return NewMessage(TypeUpdateTrackerPoses, UpdateTrackerPosesRequest{Poses: poses, Visibilities: visibilities})
}

func NewCreatePointMessage() (*Message, error) {
	return NewMessage(TypeCreatePoint, nil)
}

func NewResetRobotMatrixMessage() (*Message, error) {
	return NewMessage(TypeResetRobotMatrix, nil)
}

func NewRobotMatrixEstimationMessage() (*Message, error) {
	return NewMessage(TypeRobotMatrixEstimation, nil)
}

func NewSetRobotTransformationMatrixMessage(data [48]float64) (*Message, error) {
	return NewMessage(TypeSetRobotTransformationMatrix, SetRobotTransformationMatrixRequest{Data: data})
}

func NewUpdateDisplacementToTargetMessage(displacement [6]float64) (*Message, error) {
	return NewMessage(TypeUpdateDisplacementToTarget, UpdateDisplacementToTargetRequest{Displacement: displacement})
}

func NewCoilAtTargetMessage(state bool) (*Message, error) {
	return NewMessage(TypeCoilAtTarget, CoilAtTargetRequest{State: state})
}

func NewSetObjectiveMessage(objective Objective) (*Message, error) {
	return NewMessage(TypeSetObjective, SetObjectiveRequest{Objective: objective})
}

func NewSetFreedriveMessage(set bool) (*Message, error) {
	return NewMessage(TypeSetFreedrive, SetFreedriveRequest{Set: set})
}

func NewCheckConnectionRobotMessage() (*Message, error) {
	return NewMessage(TypeCheckConnectionRobot, nil)
}

// =============================================================================
// Helper functions for creating outbound messages
// =============================================================================

func NewRobotConnectionStatusMessage(state ConnectionState) (*Message, error) {
	return NewMessage(TypeRobotConnectionStatus, RobotConnectionStatus{State: state})
}

func NewCloseRobotDialogMessage() (*Message, error) {
	return NewMessage(TypeCloseRobotDialog, CloseRobotDialog{})
}

func NewUpdateRobotTransformationMatrixMessage(trackerToRobot, robotToTracker [16]float64) (*Message, error) {
	return NewMessage(TypeUpdateRobotTransformationMatrix, UpdateRobotTransformationMatrix{
		AffineTrackerToRobot: trackerToRobot,
		AffineRobotToTracker: robotToTracker,
	})
}

func NewCoordinatesCollectedMessage(count int) (*Message, error) {
	return NewMessage(TypeCoordinatesCollected, CoordinatesCollected{Count: count})
}

func NewSetObjectiveStatusMessage(objective Objective) (*Message, error) {
	return NewMessage(TypeSetObjectiveStatus, SetObjectiveStatus{Objective: objective})
}

func NewForceSensorDataMessage(values [6]float64) (*Message, error) {
	return NewMessage(TypeForceSensorData, ForceSensorData{Values: values})
}

func NewUpdateZOffsetTargetMessage(stable bool, offset float64) (*Message, error) {
	return NewMessage(TypeUpdateZOffsetTarget, UpdateZOffsetTarget{Stable: stable, Offset: offset})
}

func NewUpdateRobotWarningMessage(warning string) (*Message, error) {
	return NewMessage(TypeUpdateRobotWarning, UpdateRobotWarning{Warning: warning})
}

func NewRestartRobotMainLoopMessage() (*Message, error) {
	return NewMessage(TypeRestartRobotMainLoop, RestartRobotMainLoop{})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

func (m *Message) GetRobotConnectionRequest() (*RobotConnectionRequest, error) {
	var data RobotConnectionRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetSetTrackerFiducialsRequest() (*SetTrackerFiducialsRequest, error) {
	var data SetTrackerFiducialsRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetSetTargetRequest() (*SetTargetRequest, error) {
	var data SetTargetRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetUpdateTrackerPosesRequest() (*UpdateTrackerPosesRequest, error) {
	var data UpdateTrackerPosesRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetSetRobotTransformationMatrixRequest() (*SetRobotTransformationMatrixRequest, error) {
	var data SetRobotTransformationMatrixRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetUpdateDisplacementToTargetRequest() (*UpdateDisplacementToTargetRequest, error) {
	var data UpdateDisplacementToTargetRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetCoilAtTargetRequest() (*CoilAtTargetRequest, error) {
	var data CoilAtTargetRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetSetObjectiveRequest() (*SetObjectiveRequest, error) {
	var data SetObjectiveRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (m *Message) GetSetFreedriveRequest() (*SetFreedriveRequest, error) {
	var data SetFreedriveRequest
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
