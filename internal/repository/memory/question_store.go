// Package memory holds in-memory implementations of the domain
// repositories. They back the engine and service tests, where a real
// SQLite file would only slow things down.
package memory

import (
	"context"
	"sort"
	"sync"

	"learnitalian/internal/domain"
)

// QuestionStore is an in-memory domain.QuestionRepository.
type QuestionStore struct {
	mu        sync.RWMutex
	questions []*domain.Question
	byID      map[string]*domain.Question
}

// NewQuestionStore returns an empty store.
func NewQuestionStore() *QuestionStore {
	return &QuestionStore{byID: make(map[string]*domain.Question)}
}

// Add loads questions into the catalog, in order.
func (s *QuestionStore) Add(questions ...*domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions = append(s.questions, q)
		s.byID[q.ID] = q
	}
}

// GetByID implements domain.QuestionRepository
func (s *QuestionStore) GetByID(_ context.Context, id string) (*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id], nil
}

// GetByLevel implements domain.QuestionRepository
func (s *QuestionStore) GetByLevel(_ context.Context, level domain.Level) ([]*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Question
	for _, q := range s.questions {
		if q.Level == level {
			out = append(out, q)
		}
	}
	return out, nil
}

// GetByLevelAndTopic implements domain.QuestionRepository
func (s *QuestionStore) GetByLevelAndTopic(_ context.Context, level domain.Level, topic string) ([]*domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Question
	for _, q := range s.questions {
		if q.Level == level && q.Topic == topic {
			out = append(out, q)
		}
	}
	return out, nil
}

// TopicsByLevel implements domain.QuestionRepository
func (s *QuestionStore) TopicsByLevel(_ context.Context, level domain.Level) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var topics []string
	for _, q := range s.questions {
		if q.Level == level && !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// CountByLevel implements domain.QuestionRepository
func (s *QuestionStore) CountByLevel(_ context.Context, level domain.Level) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, q := range s.questions {
		if q.Level == level {
			count++
		}
	}
	return count, nil
}
