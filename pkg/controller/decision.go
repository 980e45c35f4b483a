package controller

import "github.com/tmscore/control/pkg/movement"

// movementDecision adapts the tick's derived state into the shared
// Movement Algorithm input.
func movementDecision(d derivedState) movement.Decision {
	return movement.Decision{
		DisplacementToTarget:   d.displacement,
		TargetFromHead:         d.targetFromHead,
		TargetFromDisplacement: d.targetFromDisplacement,
		RobotPose:              d.robotPose,
		HeadCenter:             d.headCenter,
		ForceFeedback:          d.forceFeedback,
	}
}
