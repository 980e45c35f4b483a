package statemachine

import (
	"testing"
	"time"
)

func TestZeroDwellTimeMakesStartMovingNoOp(t *testing.T) {
	m := New(0)
	m.SetStateToStartMoving()
	if m.State() != Ready {
		t.Errorf("expected machine to stay READY with dwell_time=0, got %s", m.State())
	}
}

func TestStartMovingToMovingToWaitingToReady(t *testing.T) {
	m := New(50 * time.Millisecond)
	m.SetStateToStartMoving()
	if m.State() != StartMoving {
		t.Fatalf("expected START_MOVING, got %s", m.State())
	}

	m.Advance(true)
	if m.State() != Moving {
		t.Fatalf("expected MOVING, got %s", m.State())
	}

	m.Advance(false)
	if m.State() != Waiting {
		t.Fatalf("expected WAITING, got %s", m.State())
	}

	m.Advance(false)
	if m.State() != Waiting {
		t.Fatalf("should not leave WAITING before dwell_time elapses, got %s", m.State())
	}

	time.Sleep(60 * time.Millisecond)
	m.Advance(false)
	if m.State() != Ready {
		t.Fatalf("expected READY after dwell_time elapsed, got %s", m.State())
	}
}

func TestStartMovingEarlyFinishAfterTenTicks(t *testing.T) {
	m := New(10 * time.Millisecond)
	m.SetStateToStartMoving()
	for i := 0; i < notMovingEarlyFinishTicks; i++ {
		m.Advance(false)
		if m.State() != StartMoving {
			t.Fatalf("should remain START_MOVING on tick %d, got %s", i, m.State())
		}
	}
	m.Advance(false)
	if m.State() != Waiting {
		t.Fatalf("expected WAITING after %d not-moving ticks, got %s", notMovingEarlyFinishTicks+1, m.State())
	}
}

func TestStoppingReturnsToReady(t *testing.T) {
	m := New(10 * time.Millisecond)
	m.SetStateToStopping()
	if m.State() != Stopping {
		t.Fatalf("expected STOPPING, got %s", m.State())
	}
	m.Advance(false)
	if m.State() != Ready {
		t.Fatalf("expected READY after driver quiesces, got %s", m.State())
	}
}
