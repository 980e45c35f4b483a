package robot

import "sync"

// TestDriver is a full in-memory Driver stub used by every package's
// tests and by the "test" config value, modeled on a call-recording
// mock-robot pattern.
type TestDriver struct {
	mu sync.Mutex

	connected bool
	moving    bool
	errored   bool
	pose      Pose6
	force     [6]float64
	freedrive bool

	MoveLinearCalls   []Pose6
	MoveCircularCalls [][3]Pose6
	StopCalls         int

	// MovesComplete controls whether MoveLinear immediately reports
	// completion (moving=false after the call) or leaves the driver
	// moving until the test clears it with SetMoving or StopRobot.
	MovesComplete bool
}

// NewTestDriver returns a ready-to-use in-memory Driver stub.
func NewTestDriver() *TestDriver {
	return &TestDriver{}
}

func (t *TestDriver) Connect() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	return true
}

func (t *TestDriver) Initialize() {}

func (t *TestDriver) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *TestDriver) GetPose() (Pose6, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pose, true
}

// SetPose lets a test seed the stub's reported pose.
func (t *TestDriver) SetPose(p Pose6) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pose = p
}

func (t *TestDriver) IsMoving() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.moving
}

// SetMoving lets a test directly control the reported moving state,
// simulating the driver's asynchronous motion completion.
func (t *TestDriver) SetMoving(moving bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.moving = moving
}

func (t *TestDriver) IsErrorState() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.errored
}

// SetErrorState lets a test force the driver into an error state.
func (t *TestDriver) SetErrorState(errored bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errored = errored
}

func (t *TestDriver) MoveLinear(target Pose6) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.MoveLinearCalls = append(t.MoveLinearCalls, target)
	t.pose = target
	t.moving = !t.MovesComplete
	return true
}

func (t *TestDriver) MoveCircular(start, waypoint, target Pose6) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.MoveCircularCalls = append(t.MoveCircularCalls, [3]Pose6{start, waypoint, target})
	t.pose = target
	t.moving = !t.MovesComplete
	return true
}

func (t *TestDriver) MoveLinearRelative(axis Axis, direction, distance float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch axis {
	case AxisX:
		t.pose.X += direction * distance
	case AxisY:
		t.pose.Y += direction * distance
	case AxisZ:
		t.pose.Z += direction * distance
	}
	t.moving = !t.MovesComplete
	return true
}

func (t *TestDriver) StopRobot() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.StopCalls++
	t.moving = false
	return true
}

func (t *TestDriver) EnableFreeDrive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.freedrive = true
}

func (t *TestDriver) DisableFreeDrive() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.freedrive = false
}

// FreeDriveEnabled reports whether free drive is currently engaged.
func (t *TestDriver) FreeDriveEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freedrive
}

func (t *TestDriver) ReadForceSensor() [6]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.force
}

// SetForce lets a test seed the stub's reported force/torque reading.
func (t *TestDriver) SetForce(f [6]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.force = f
}

func (t *TestDriver) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

var _ Driver = (*TestDriver)(nil)
