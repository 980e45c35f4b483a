// Package statemachine implements the five-state execution guard the
// control core wraps around the robot driver.
package statemachine

import (
	"sync"
	"time"

	"github.com/tmscore/control/internal/log"
)

// State is one of the five robot execution states.
type State int

const (
	Ready State = iota
	StartMoving
	Moving
	Waiting
	Stopping
)

// String renders the state name in its documented uppercase form.
func (s State) String() string {
	switch s {
	case Ready:
		return "READY"
	case StartMoving:
		return "START_MOVING"
	case Moving:
		return "MOVING"
	case Waiting:
		return "WAITING"
	case Stopping:
		return "STOPPING"
	default:
		return "UNKNOWN"
	}
}

// notMovingEarlyFinishTicks is the number of consecutive not-moving
// reports in START_MOVING before the machine treats the move as having
// finished before it was observed starting.
const notMovingEarlyFinishTicks = 10

// Machine is the Robot State Machine: a tick-driven field machine with
// no terminal state, guarded by a configurable dwell time.
type Machine struct {
	mu sync.Mutex

	state     State
	dwellTime time.Duration

	waitingStart           time.Time
	notMovingTicksInStart int
}

// New returns a Machine starting in READY with the given dwell time.
func New(dwellTime time.Duration) *Machine {
	return &Machine{state: Ready, dwellTime: dwellTime}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) transitionTo(s State) {
	if m.state == s {
		return
	}
	log.Info("robot state transition", "from", m.state.String(), "to", s.String())
	m.state = s
	if s == Waiting {
		m.waitingStart = time.Now()
	}
	if s == StartMoving {
		m.notMovingTicksInStart = 0
	}
}

// SetStateToStartMoving requests the READY→START_MOVING transition. When
// dwell_time is zero this is a no-op: drivers that manage motion
// completion internally never need the WAITING gate.
func (m *Machine) SetStateToStartMoving() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dwellTime == 0 {
		return
	}
	if m.state == Ready {
		m.transitionTo(StartMoving)
	}
}

// SetStateToStopping requests the any→STOPPING transition, called after
// a successful stop command has been issued.
func (m *Machine) SetStateToStopping() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionTo(Stopping)
}

// Advance steps the machine given the driver's current is_moving report.
// Call once per tick after fetching driver status.
func (m *Machine) Advance(driverIsMoving bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StartMoving:
		if driverIsMoving {
			m.transitionTo(Moving)
			return
		}
		m.notMovingTicksInStart++
		if m.notMovingTicksInStart > notMovingEarlyFinishTicks {
			m.transitionTo(Waiting)
		}
	case Moving:
		if !driverIsMoving {
			m.transitionTo(Waiting)
		}
	case Waiting:
		if time.Since(m.waitingStart) >= m.dwellTime {
			m.transitionTo(Ready)
		}
	case Stopping:
		if !driverIsMoving {
			m.transitionTo(Ready)
		}
	case Ready:
		// no driver-triggered transitions out of READY
	}
}
