package memory

import (
	"context"
	"sync"

	"learnitalian/internal/domain"
)

type topicKey struct {
	topic string
	level domain.Level
}

// PerformanceStore is an in-memory domain.PerformanceRepository. The
// question catalog is consulted to resolve a question's level.
type PerformanceStore struct {
	mu        sync.RWMutex
	questions *QuestionStore
	stats     map[string]*domain.QuestionStats
	topics    map[topicKey]*domain.TopicStats
}

// NewPerformanceStore returns an empty store backed by the given catalog.
func NewPerformanceStore(questions *QuestionStore) *PerformanceStore {
	return &PerformanceStore{
		questions: questions,
		stats:     make(map[string]*domain.QuestionStats),
		topics:    make(map[topicKey]*domain.TopicStats),
	}
}

// GetStats implements domain.PerformanceRepository
func (s *PerformanceStore) GetStats(_ context.Context, questionID string) (*domain.QuestionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[questionID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

// GetStatsByLevel implements domain.PerformanceRepository
func (s *PerformanceStore) GetStatsByLevel(ctx context.Context, level domain.Level) ([]*domain.QuestionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.QuestionStats
	for id, st := range s.stats {
		q, _ := s.questions.GetByID(ctx, id)
		if q == nil || q.Level != level {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

// UpsertStats implements domain.PerformanceRepository
func (s *PerformanceStore) UpsertStats(_ context.Context, stats *domain.QuestionStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *stats
	s.stats[stats.QuestionID] = &cp
	return nil
}

// GetTopicStats implements domain.PerformanceRepository
func (s *PerformanceStore) GetTopicStats(_ context.Context, topic string, level domain.Level) (*domain.TopicStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.topics[topicKey{topic, level}]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

// GetTopicStatsByLevel implements domain.PerformanceRepository
func (s *PerformanceStore) GetTopicStatsByLevel(_ context.Context, level domain.Level) ([]*domain.TopicStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.TopicStats
	for key, st := range s.topics {
		if key.level != level {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

// GetAllTopicStats implements domain.PerformanceRepository
func (s *PerformanceStore) GetAllTopicStats(_ context.Context) ([]*domain.TopicStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.TopicStats, 0, len(s.topics))
	for _, st := range s.topics {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

// UpsertTopicStats implements domain.PerformanceRepository
func (s *PerformanceStore) UpsertTopicStats(_ context.Context, stats *domain.TopicStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *stats
	s.topics[topicKey{stats.Topic, stats.Level}] = &cp
	return nil
}

func (s *PerformanceStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = make(map[string]*domain.QuestionStats)
	s.topics = make(map[topicKey]*domain.TopicStats)
}
