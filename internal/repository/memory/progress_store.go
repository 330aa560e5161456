package memory

import (
	"context"
	"sort"
	"sync"

	"learnitalian/internal/domain"
)

// SnapshotStore is an in-memory domain.SnapshotRepository.
type SnapshotStore struct {
	mu   sync.RWMutex
	days map[string]*domain.DailySnapshot
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{days: make(map[string]*domain.DailySnapshot)}
}

// UpsertDaily implements domain.SnapshotRepository
func (s *SnapshotStore) UpsertDaily(_ context.Context, snap *domain.DailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *snap
	s.days[snap.Day] = &cp
	return nil
}

// GetRange implements domain.SnapshotRepository
func (s *SnapshotStore) GetRange(_ context.Context, from, to string) ([]*domain.DailySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.DailySnapshot
	for day, snap := range s.days {
		if day >= from && day <= to {
			cp := *snap
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (s *SnapshotStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = make(map[string]*domain.DailySnapshot)
}

// SessionStore is an in-memory domain.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions []*domain.QuizSession
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Append implements domain.SessionRepository
func (s *SessionStore) Append(_ context.Context, session *domain.QuizSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions = append(s.sessions, &cp)
	return nil
}

// Recent implements domain.SessionRepository
func (s *SessionStore) Recent(_ context.Context, limit int) ([]*domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.QuizSession
	for i := len(s.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.sessions[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *SessionStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = nil
}

// ProgressStore implements domain.ProgressRepository over the other
// in-memory stores.
type ProgressStore struct {
	perf      *PerformanceStore
	events    *EventStore
	snapshots *SnapshotStore
	sessions  *SessionStore
}

// NewProgressStore wires the reset operation across all learner state.
func NewProgressStore(perf *PerformanceStore, events *EventStore, snapshots *SnapshotStore, sessions *SessionStore) *ProgressStore {
	return &ProgressStore{perf: perf, events: events, snapshots: snapshots, sessions: sessions}
}

// ClearAll implements domain.ProgressRepository
func (s *ProgressStore) ClearAll(context.Context) error {
	s.perf.reset()
	s.events.reset()
	s.snapshots.reset()
	s.sessions.reset()
	return nil
}
