package domain

import (
	"context"
	"time"
)

// QuestionRepository defines read access to the immutable question catalog.
type QuestionRepository interface {
	// GetByID retrieves a question by its ID; nil if absent.
	GetByID(ctx context.Context, id string) (*Question, error)

	// GetByLevel returns all questions at the given level.
	GetByLevel(ctx context.Context, level Level) ([]*Question, error)

	// GetByLevelAndTopic returns all questions for a level/topic pair.
	GetByLevelAndTopic(ctx context.Context, level Level, topic string) ([]*Question, error)

	// TopicsByLevel returns the distinct topics present at a level.
	TopicsByLevel(ctx context.Context, level Level) ([]string, error)

	// CountByLevel returns the number of questions at a level.
	CountByLevel(ctx context.Context, level Level) (int, error)
}

// PerformanceRepository provides read/upsert access to the per-question and
// per-topic aggregates.
type PerformanceRepository interface {
	// GetStats retrieves the aggregate for one question; nil if never answered.
	GetStats(ctx context.Context, questionID string) (*QuestionStats, error)

	// GetStatsByLevel returns aggregates for every answered question at a level.
	GetStatsByLevel(ctx context.Context, level Level) ([]*QuestionStats, error)

	// UpsertStats inserts or replaces the aggregate for a question.
	UpsertStats(ctx context.Context, stats *QuestionStats) error

	// GetTopicStats retrieves the rollup for a topic/level pair; nil if absent.
	GetTopicStats(ctx context.Context, topic string, level Level) (*TopicStats, error)

	// GetTopicStatsByLevel returns all topic rollups at a level.
	GetTopicStatsByLevel(ctx context.Context, level Level) ([]*TopicStats, error)

	// GetAllTopicStats returns every topic rollup across levels.
	GetAllTopicStats(ctx context.Context) ([]*TopicStats, error)

	// UpsertTopicStats inserts or replaces a topic rollup.
	UpsertTopicStats(ctx context.Context, stats *TopicStats) error
}

// AnswerEventRepository provides append-only access to the answer log.
type AnswerEventRepository interface {
	// Append records one answer event.
	Append(ctx context.Context, event *AnswerEvent) error

	// RecentByLevel returns up to limit events for a level, newest first.
	RecentByLevel(ctx context.Context, level Level, limit int) ([]*AnswerEvent, error)

	// LatestPerQuestion returns the newest event for every question at a
	// level that has been answered at least once.
	LatestPerQuestion(ctx context.Context, level Level) ([]*AnswerEvent, error)

	// DistinctTopicsAnswered returns the topics at a level with at least one
	// answer event, resolved through the question catalog.
	DistinctTopicsAnswered(ctx context.Context, level Level) ([]string, error)

	// SuccessRateSince returns the success fraction and event count for a
	// level over events recorded at or after the cutoff.
	SuccessRateSince(ctx context.Context, level Level, cutoff time.Time) (float64, int, error)
}

// SnapshotRepository manages the one-row-per-day progress snapshots.
type SnapshotRepository interface {
	// UpsertDaily inserts or replaces the snapshot for a calendar day.
	UpsertDaily(ctx context.Context, snap *DailySnapshot) error

	// GetRange returns snapshots with day in [from, to], ascending.
	GetRange(ctx context.Context, from, to string) ([]*DailySnapshot, error)
}

// SessionRepository provides append-only access to the quiz session log.
type SessionRepository interface {
	// Append records one completed quiz session.
	Append(ctx context.Context, session *QuizSession) error

	// Recent returns up to limit sessions, newest first.
	Recent(ctx context.Context, limit int) ([]*QuizSession, error)
}

// ProgressRepository exposes the bulk reset operation.
type ProgressRepository interface {
	// ClearAll empties answer events, question stats, topic stats, quiz
	// sessions and daily snapshots in a single transaction. Idempotent.
	ClearAll(ctx context.Context) error
}
