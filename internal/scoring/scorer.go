// Package scoring computes coverage and mastery figures from the question
// catalog and the performance aggregates.
package scoring

import (
	"context"

	"learnitalian/internal/domain"
)

// minTopicAttempts is the attempt floor below which a topic does not count
// toward mastery. Attempts include every modality, unanswered included.
const minTopicAttempts = 4

// Per-level mastery weights. These drive the figure shown next to each level.
const (
	weightFreeformCorrect   = 1.75
	weightChoiceCorrect     = 0.85
	weightPartialCorrect    = 1.0
	weightFreeformIncorrect = 1.95
	weightChoiceIncorrect   = 2.00
	weightUnanswered        = 0.5
)

// Global mastery weights. A second table drives the single cross-level figure
// on the progress timeline. The two tables diverge on several coefficients;
// both are preserved as-is (see DESIGN.md).
const (
	globalWeightFreeformCorrect   = 2.30
	globalWeightChoiceCorrect     = 1.00
	globalWeightPartialCorrect    = 1.15
	globalWeightFreeformIncorrect = 2.60
	globalWeightChoiceIncorrect   = 2.80
	globalWeightUnanswered        = 0.60
)

// Scorer derives coverage and mastery from repositories.
type Scorer struct {
	questions domain.QuestionRepository
	perf      domain.PerformanceRepository
}

// NewScorer creates a Scorer over the given repositories.
func NewScorer(questions domain.QuestionRepository, perf domain.PerformanceRepository) *Scorer {
	return &Scorer{questions: questions, perf: perf}
}

// Coverage returns the fraction of the level's questions ever answered
// correctly at least once, in any modality. A level with no questions has
// coverage 0.
func (s *Scorer) Coverage(ctx context.Context, level domain.Level) (float64, error) {
	total, err := s.questions.CountByLevel(ctx, level)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	stats, err := s.perf.GetStatsByLevel(ctx, level)
	if err != nil {
		return 0, err
	}

	covered := 0
	for _, st := range stats {
		if st.AnsweredCorrectly() {
			covered++
		}
	}
	return clamp01(float64(covered) / float64(total)), nil
}

// LevelMastery returns the coverage-weighted mastery fraction for a level.
// Only topics with at least minTopicAttempts total attempts contribute; if no
// topic qualifies the mastery is 0.
func (s *Scorer) LevelMastery(ctx context.Context, level domain.Level) (float64, error) {
	topics, err := s.topicTallies(ctx, level)
	if err != nil {
		return 0, err
	}

	var sumScore, sumMax float64
	for _, t := range topics {
		if t.attempts() < minTopicAttempts {
			continue
		}
		sumScore += t.score(levelWeights)
		sumMax += float64(t.questionCount) * weightFreeformCorrect
	}
	if sumMax == 0 {
		return 0, nil
	}

	coverage, err := s.Coverage(ctx, level)
	if err != nil {
		return 0, err
	}
	return clamp01(sumScore / sumMax * coverage), nil
}

// GlobalMastery returns the single cross-level mastery figure used by the
// progress timeline, computed with the global weight table over every content
// level and scaled by overall coverage.
func (s *Scorer) GlobalMastery(ctx context.Context) (float64, error) {
	var sumScore, sumMax float64

	for _, level := range domain.ContentLevels {
		topics, err := s.topicTallies(ctx, level)
		if err != nil {
			return 0, err
		}
		for _, t := range topics {
			if t.attempts() < minTopicAttempts {
				continue
			}
			sumScore += t.score(globalWeights)
			sumMax += float64(t.questionCount) * globalWeightFreeformCorrect
		}
	}
	if sumMax == 0 {
		return 0, nil
	}

	coverage, err := s.GlobalCoverage(ctx)
	if err != nil {
		return 0, err
	}
	return clamp01(sumScore / sumMax * coverage), nil
}

// GlobalCoverage returns the fraction of all catalog questions ever answered
// correctly, across every content level.
func (s *Scorer) GlobalCoverage(ctx context.Context) (float64, error) {
	var total, covered int
	for _, level := range domain.ContentLevels {
		n, err := s.questions.CountByLevel(ctx, level)
		if err != nil {
			return 0, err
		}
		total += n

		stats, err := s.perf.GetStatsByLevel(ctx, level)
		if err != nil {
			return 0, err
		}
		for _, st := range stats {
			if st.AnsweredCorrectly() {
				covered++
			}
		}
	}
	if total == 0 {
		return 0, nil
	}
	return clamp01(float64(covered) / float64(total)), nil
}

// weights bundles one scoring table.
type weights struct {
	freeformCorrect   float64
	choiceCorrect     float64
	partialCorrect    float64
	freeformIncorrect float64
	choiceIncorrect   float64
	unanswered        float64
}

var levelWeights = weights{
	freeformCorrect:   weightFreeformCorrect,
	choiceCorrect:     weightChoiceCorrect,
	partialCorrect:    weightPartialCorrect,
	freeformIncorrect: weightFreeformIncorrect,
	choiceIncorrect:   weightChoiceIncorrect,
	unanswered:        weightUnanswered,
}

var globalWeights = weights{
	freeformCorrect:   globalWeightFreeformCorrect,
	choiceCorrect:     globalWeightChoiceCorrect,
	partialCorrect:    globalWeightPartialCorrect,
	freeformIncorrect: globalWeightFreeformIncorrect,
	choiceIncorrect:   globalWeightChoiceIncorrect,
	unanswered:        globalWeightUnanswered,
}

// topicTally accumulates the answer counters of every question in one topic.
type topicTally struct {
	questionCount     int
	correct           int
	incorrect         int
	freeformCorrect   int
	freeformIncorrect int
	partial           int
	unanswered        int
}

func (t *topicTally) attempts() int {
	return t.correct + t.incorrect + t.freeformCorrect +
		t.freeformIncorrect + t.partial + t.unanswered
}

// score applies a weight table to the tallied counters, floored at 0.
func (t *topicTally) score(w weights) float64 {
	s := float64(t.freeformCorrect)*w.freeformCorrect +
		float64(t.correct)*w.choiceCorrect +
		float64(t.partial)*w.partialCorrect -
		float64(t.freeformIncorrect)*w.freeformIncorrect -
		float64(t.incorrect)*w.choiceIncorrect -
		float64(t.unanswered)*w.unanswered
	if s < 0 {
		return 0
	}
	return s
}

// topicTallies groups the level's questions and their aggregates by topic.
func (s *Scorer) topicTallies(ctx context.Context, level domain.Level) (map[string]*topicTally, error) {
	questions, err := s.questions.GetByLevel(ctx, level)
	if err != nil {
		return nil, err
	}

	stats, err := s.perf.GetStatsByLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[string]*domain.QuestionStats, len(stats))
	for _, st := range stats {
		byQuestion[st.QuestionID] = st
	}

	tallies := make(map[string]*topicTally)
	for _, q := range questions {
		t := tallies[q.Topic]
		if t == nil {
			t = &topicTally{}
			tallies[q.Topic] = t
		}
		t.questionCount++

		st := byQuestion[q.ID]
		if st == nil {
			continue
		}
		t.correct += st.CorrectCount
		t.incorrect += st.IncorrectCount
		t.freeformCorrect += st.FreeformCorrectCount
		t.freeformIncorrect += st.FreeformIncorrectCount
		t.partial += st.PartialCorrectCount
		t.unanswered += st.UnansweredCount
	}
	return tallies, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
