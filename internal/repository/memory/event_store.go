package memory

import (
	"context"
	"sync"
	"time"

	"learnitalian/internal/domain"
)

// EventStore is an in-memory domain.AnswerEventRepository. Events are
// kept in append order; topic resolution goes through the catalog.
type EventStore struct {
	mu        sync.RWMutex
	questions *QuestionStore
	events    []*domain.AnswerEvent
}

// NewEventStore returns an empty store backed by the given catalog.
func NewEventStore(questions *QuestionStore) *EventStore {
	return &EventStore{questions: questions}
}

// Append implements domain.AnswerEventRepository
func (s *EventStore) Append(_ context.Context, event *domain.AnswerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events = append(s.events, &cp)
	return nil
}

// RecentByLevel implements domain.AnswerEventRepository
func (s *EventStore) RecentByLevel(_ context.Context, level domain.Level, limit int) ([]*domain.AnswerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.AnswerEvent
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if s.events[i].Level == level {
			cp := *s.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// LatestPerQuestion implements domain.AnswerEventRepository
func (s *EventStore) LatestPerQuestion(_ context.Context, level domain.Level) ([]*domain.AnswerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []*domain.AnswerEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.Level != level || seen[ev.QuestionID] {
			continue
		}
		seen[ev.QuestionID] = true
		cp := *ev
		out = append(out, &cp)
	}
	return out, nil
}

// DistinctTopicsAnswered implements domain.AnswerEventRepository
func (s *EventStore) DistinctTopicsAnswered(ctx context.Context, level domain.Level) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var topics []string
	for _, ev := range s.events {
		if ev.Level != level {
			continue
		}
		q, _ := s.questions.GetByID(ctx, ev.QuestionID)
		if q == nil || seen[q.Topic] {
			continue
		}
		seen[q.Topic] = true
		topics = append(topics, q.Topic)
	}
	return topics, nil
}

// SuccessRateSince implements domain.AnswerEventRepository
func (s *EventStore) SuccessRateSince(_ context.Context, level domain.Level, cutoff time.Time) (float64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	successes, count := 0, 0
	// Cutoff is inclusive, matching the adapter's created_at >= ? filter.
	for _, ev := range s.events {
		if ev.Level != level || ev.CreatedAt.Before(cutoff) {
			continue
		}
		count++
		if ev.Success {
			successes++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(successes) / float64(count), count, nil
}

func (s *EventStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
