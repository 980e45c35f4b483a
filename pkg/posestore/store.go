// Package posestore holds the single current robot pose behind a
// read-write lock, guaranteeing a reader always sees a complete snapshot.
package posestore

import (
	"sync"
	"time"

	"github.com/tmscore/control/pkg/spatialmath"
)

// Snapshot is a complete, atomically-readable robot pose observation.
type Snapshot struct {
	Pose      spatialmath.Pose
	UpdatedAt time.Time
}

// Store is a thread-safe latest-robot-pose holder.
type Store struct {
	mu   sync.RWMutex
	last Snapshot
}

// New returns an empty Store (zero pose, zero time).
func New() *Store {
	return &Store{}
}

// Set records a new pose observation with the current time.
func (s *Store) Set(p spatialmath.Pose) {
	s.mu.Lock()
	s.last = Snapshot{Pose: p, UpdatedAt: time.Now()}
	s.mu.Unlock()
}

// Get returns the latest complete snapshot.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Pose returns the latest pose alone.
func (s *Store) Pose() spatialmath.Pose {
	return s.Get().Pose
}
