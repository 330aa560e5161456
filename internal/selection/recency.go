package selection

import (
	"time"

	"learnitalian/internal/domain"
)

// DefaultRecencyWindow is how long a recently-missed question stays out of
// fresh selection.
const DefaultRecencyWindow = 24 * time.Hour

// RecencyFilter suppresses questions whose most recent answer was both recent
// and incorrect. A correctly-answered recent question re-enters the pool
// immediately; the asymmetry throttles repeated exposure to error-prone items
// while letting correct reinforcement recur sooner.
type RecencyFilter struct {
	excluded map[string]struct{}
}

// NewRecencyFilter builds a filter from the newest event per question.
func NewRecencyFilter(latest []*domain.AnswerEvent, window time.Duration, now time.Time) *RecencyFilter {
	f := &RecencyFilter{excluded: make(map[string]struct{})}
	cutoff := now.Add(-window)
	for _, ev := range latest {
		if !ev.Success && ev.CreatedAt.After(cutoff) {
			f.excluded[ev.QuestionID] = struct{}{}
		}
	}
	return f
}

// Excluded reports whether a question is currently suppressed.
func (f *RecencyFilter) Excluded(questionID string) bool {
	_, ok := f.excluded[questionID]
	return ok
}
