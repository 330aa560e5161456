// Package estimator derives the learner's CEFR level from the answer history
// and the mastery aggregates. The estimate is recomputed on every query; there
// is no cached state.
package estimator

import (
	"context"

	"learnitalian/internal/domain"
	"learnitalian/internal/scoring"
)

const (
	// historyCap bounds the history scan per level.
	historyCap = 100
	// windowSize is the width of the rolling success window.
	windowSize = 50
	// windowPassRate is the minimum mean success for a window to pass.
	windowPassRate = 0.85
	// requiredStreak is the number of consecutive passing windows needed; the
	// reported streak is capped here as well.
	requiredStreak = 25
	// topicCoverageFloor is the minimum fraction of a level's topics with at
	// least one answer event.
	topicCoverageFloor = 0.85
	// masteryFloor is the minimum level mastery.
	masteryFloor = 0.50
)

// Estimator evaluates the three qualification predicates per level.
type Estimator struct {
	events    domain.AnswerEventRepository
	questions domain.QuestionRepository
	scorer    *scoring.Scorer
}

// NewEstimator creates an Estimator.
func NewEstimator(events domain.AnswerEventRepository, questions domain.QuestionRepository, scorer *scoring.Scorer) *Estimator {
	return &Estimator{events: events, questions: questions, scorer: scorer}
}

// EstimatedLevel returns the highest content level for which all three
// predicates hold, scanning A1 to C1. Qualification need not be sequential.
// If no level qualifies the learner is at A0.
func (e *Estimator) EstimatedLevel(ctx context.Context) (domain.Level, error) {
	best := domain.LevelA0
	for _, level := range domain.ContentLevels {
		ok, err := e.qualifies(ctx, level)
		if err != nil {
			return domain.LevelA0, err
		}
		if ok {
			best = level
		}
	}
	return best, nil
}

func (e *Estimator) qualifies(ctx context.Context, level domain.Level) (bool, error) {
	streak, err := e.SustainedStreak(ctx, level)
	if err != nil {
		return false, err
	}
	if streak < requiredStreak {
		return false, nil
	}

	topicCov, err := e.topicCoverage(ctx, level)
	if err != nil {
		return false, err
	}
	if topicCov < topicCoverageFloor {
		return false, nil
	}

	mastery, err := e.scorer.LevelMastery(ctx, level)
	if err != nil {
		return false, err
	}
	return mastery >= masteryFloor, nil
}

// SustainedStreak counts consecutive passing rolling-success windows ending at
// the most recent data, capped at requiredStreak. A history shorter than one
// window yields 0, not an error.
func (e *Estimator) SustainedStreak(ctx context.Context, level domain.Level) (int, error) {
	recent, err := e.events.RecentByLevel(ctx, level, historyCap)
	if err != nil {
		return 0, err
	}
	if len(recent) < windowSize {
		return 0, nil
	}

	// RecentByLevel returns newest first; the windows slide oldest first.
	history := make([]bool, len(recent))
	for i, ev := range recent {
		history[len(recent)-1-i] = ev.Success
	}

	// Running success count over a fixed-width window.
	successes := 0
	for i := 0; i < windowSize; i++ {
		if history[i] {
			successes++
		}
	}

	passes := make([]bool, 0, len(history)-windowSize+1)
	passes = append(passes, passRate(successes))
	for i := windowSize; i < len(history); i++ {
		if history[i] {
			successes++
		}
		if history[i-windowSize] {
			successes--
		}
		passes = append(passes, passRate(successes))
	}

	streak := 0
	for i := len(passes) - 1; i >= 0 && passes[i]; i-- {
		streak++
		if streak == requiredStreak {
			break
		}
	}
	return streak, nil
}

func passRate(successes int) bool {
	return float64(successes)/float64(windowSize) >= windowPassRate
}

// topicCoverage returns the fraction of the level's distinct topics with at
// least one answer event. A level with zero topics is trivially covered.
func (e *Estimator) topicCoverage(ctx context.Context, level domain.Level) (float64, error) {
	topics, err := e.questions.TopicsByLevel(ctx, level)
	if err != nil {
		return 0, err
	}
	if len(topics) == 0 {
		return 1.0, nil
	}

	answered, err := e.events.DistinctTopicsAnswered(ctx, level)
	if err != nil {
		return 0, err
	}
	answeredSet := make(map[string]struct{}, len(answered))
	for _, t := range answered {
		answeredSet[t] = struct{}{}
	}

	hit := 0
	for _, t := range topics {
		if _, ok := answeredSet[t]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(topics)), nil
}
