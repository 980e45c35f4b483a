package robot

import "fmt"

// Kind names the configured robot variant, mirroring internal/config's
// RobotKind values without importing that package (keeps robot
// dependency-free of config).
type Kind string

const (
	KindElfin       Kind = "elfin"
	KindElfinNewAPI Kind = "elfin_new_api"
	KindDobot       Kind = "dobot"
	KindUR          Kind = "ur"
	KindTest        Kind = "test"
)

// New constructs the Driver variant selected by kind, once at connect
// time, per the tagged-variant dispatch pattern: a small interface
// covering exactly the operations the control core needs, built fresh
// per vendor.
func New(kind Kind, robotIP string) (Driver, error) {
	switch kind {
	case KindElfin:
		return NewElfinDriver(robotIP), nil
	case KindElfinNewAPI:
		return NewElfinNewAPIDriver(robotIP), nil
	case KindDobot:
		return NewDobotDriver(robotIP), nil
	case KindUR:
		return NewURDriver(robotIP), nil
	case KindTest:
		return NewTestDriver(), nil
	default:
		return nil, fmt.Errorf("robot: unknown driver kind %q", kind)
	}
}
