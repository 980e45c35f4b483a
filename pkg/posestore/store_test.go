package posestore

import (
	"testing"

	"github.com/tmscore/control/pkg/spatialmath"
)

func TestStoreGetSetRoundTrip(t *testing.T) {
	s := New()
	p := spatialmath.Pose{X: 1, Y: 2, Z: 3, Rx: 4, Ry: 5, Rz: 6}
	s.Set(p)

	got := s.Pose()
	if got != p {
		t.Errorf("got %+v, want %+v", got, p)
	}
}

func TestStoreZeroValue(t *testing.T) {
	s := New()
	snap := s.Get()
	if !snap.UpdatedAt.IsZero() {
		t.Errorf("expected zero time before first Set, got %v", snap.UpdatedAt)
	}
}
