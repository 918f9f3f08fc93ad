package memory

import (
	"context"
	"fmt"
	"sync"

	"envelopes/internal/core"
)

// Store is an in-memory SnapshotWriter used by tests and by worker setups
// that run without a configured spreadsheet.
type Store struct {
	mu        sync.Mutex
	envelopes []*core.Envelope
	goals     []*core.Goal
}

func New() *Store {
	return &Store{}
}

// AppendEnvelope stores the snapshot and returns a synthetic row reference.
func (s *Store) AppendEnvelope(_ context.Context, e *core.Envelope) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelopes = append(s.envelopes, e)
	return fmt.Sprintf("mem:envelopes:%d", len(s.envelopes)), nil
}

// AppendGoal stores the snapshot and returns a synthetic row reference.
func (s *Store) AppendGoal(_ context.Context, g *core.Goal) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return fmt.Sprintf("mem:goals:%d", len(s.goals)), nil
}

// Envelopes returns the appended envelope snapshots in order.
func (s *Store) Envelopes() []*core.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Envelope(nil), s.envelopes...)
}

// Goals returns the appended goal snapshots in order.
func (s *Store) Goals() []*core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.Goal(nil), s.goals...)
}
