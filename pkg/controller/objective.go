package controller

// Objective selects what the controller actively pursues each tick.
type Objective int

const (
	ObjectiveNone Objective = iota
	ObjectiveTrackTarget
	ObjectiveMoveAwayFromHead
)

func (o Objective) String() string {
	switch o {
	case ObjectiveNone:
		return "NONE"
	case ObjectiveTrackTarget:
		return "TRACK_TARGET"
	case ObjectiveMoveAwayFromHead:
		return "MOVE_AWAY_FROM_HEAD"
	default:
		return "UNKNOWN"
	}
}
