package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
	"learnitalian/internal/repository/models"
)

const statsColumns = `question_id, correct_count, incorrect_count,
	freeform_correct_count, freeform_incorrect_count, partial_correct_count,
	unanswered_count, mastery_level, last_seen`

// PerformanceDatabaseAdapter implements domain.PerformanceRepository using sqlx.DB
type PerformanceDatabaseAdapter struct {
	db *sqlx.DB
}

// NewPerformanceDatabaseAdapter creates a new instance of PerformanceDatabaseAdapter
func NewPerformanceDatabaseAdapter(db *sqlx.DB) domain.PerformanceRepository {
	return &PerformanceDatabaseAdapter{db: db}
}

// GetStats implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) GetStats(ctx context.Context, questionID string) (*domain.QuestionStats, error) {
	var m models.QuestionStats
	query := `SELECT ` + statsColumns + ` FROM question_stats WHERE question_id = ?`
	err := a.db.GetContext(ctx, &m, query, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stats for question %s: %w", questionID, err)
	}
	return toDomainQuestionStats(&m), nil
}

// GetStatsByLevel implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) GetStatsByLevel(ctx context.Context, level domain.Level) ([]*domain.QuestionStats, error) {
	var rows []models.QuestionStats
	query := `SELECT s.question_id "question_id",
		s.correct_count "correct_count",
		s.incorrect_count "incorrect_count",
		s.freeform_correct_count "freeform_correct_count",
		s.freeform_incorrect_count "freeform_incorrect_count",
		s.partial_correct_count "partial_correct_count",
		s.unanswered_count "unanswered_count",
		s.mastery_level "mastery_level",
		s.last_seen "last_seen"
	FROM question_stats s
	JOIN questions q ON q.id = s.question_id
	WHERE q.level = ?`
	if err := a.db.SelectContext(ctx, &rows, query, string(level)); err != nil {
		return nil, fmt.Errorf("failed to get stats for level %s: %w", level, err)
	}

	stats := make([]*domain.QuestionStats, 0, len(rows))
	for i := range rows {
		stats = append(stats, toDomainQuestionStats(&rows[i]))
	}
	return stats, nil
}

// UpsertStats implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) UpsertStats(ctx context.Context, stats *domain.QuestionStats) error {
	if stats == nil || stats.QuestionID == "" {
		return fmt.Errorf("cannot upsert stats without a question ID")
	}

	query := `INSERT INTO question_stats (` + statsColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (question_id) DO UPDATE SET
		correct_count = excluded.correct_count,
		incorrect_count = excluded.incorrect_count,
		freeform_correct_count = excluded.freeform_correct_count,
		freeform_incorrect_count = excluded.freeform_incorrect_count,
		partial_correct_count = excluded.partial_correct_count,
		unanswered_count = excluded.unanswered_count,
		mastery_level = excluded.mastery_level,
		last_seen = excluded.last_seen`

	_, err := a.db.ExecContext(ctx, query,
		stats.QuestionID,
		stats.CorrectCount,
		stats.IncorrectCount,
		stats.FreeformCorrectCount,
		stats.FreeformIncorrectCount,
		stats.PartialCorrectCount,
		stats.UnansweredCount,
		stats.MasteryLevel,
		nullTime(stats.LastSeen),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for question %s: %w", stats.QuestionID, err)
	}
	return nil
}

// GetTopicStats implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) GetTopicStats(ctx context.Context, topic string, level domain.Level) (*domain.TopicStats, error) {
	var m models.TopicStats
	query := `SELECT topic, level, weighted_correct, weighted_incorrect, last_updated
	FROM topic_stats WHERE topic = ? AND level = ?`
	err := a.db.GetContext(ctx, &m, query, topic, string(level))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic stats for %s/%s: %w", topic, level, err)
	}
	return toDomainTopicStats(&m), nil
}

// GetTopicStatsByLevel implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) GetTopicStatsByLevel(ctx context.Context, level domain.Level) ([]*domain.TopicStats, error) {
	var rows []models.TopicStats
	query := `SELECT topic, level, weighted_correct, weighted_incorrect, last_updated
	FROM topic_stats WHERE level = ?`
	if err := a.db.SelectContext(ctx, &rows, query, string(level)); err != nil {
		return nil, fmt.Errorf("failed to get topic stats for level %s: %w", level, err)
	}
	return toDomainTopicStatsList(rows), nil
}

// GetAllTopicStats implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) GetAllTopicStats(ctx context.Context) ([]*domain.TopicStats, error) {
	var rows []models.TopicStats
	query := `SELECT topic, level, weighted_correct, weighted_incorrect, last_updated FROM topic_stats`
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get all topic stats: %w", err)
	}
	return toDomainTopicStatsList(rows), nil
}

// UpsertTopicStats implements domain.PerformanceRepository
func (a *PerformanceDatabaseAdapter) UpsertTopicStats(ctx context.Context, stats *domain.TopicStats) error {
	if stats == nil || stats.Topic == "" {
		return fmt.Errorf("cannot upsert topic stats without a topic")
	}

	query := `INSERT INTO topic_stats (topic, level, weighted_correct, weighted_incorrect, last_updated)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (topic, level) DO UPDATE SET
		weighted_correct = excluded.weighted_correct,
		weighted_incorrect = excluded.weighted_incorrect,
		last_updated = excluded.last_updated`

	_, err := a.db.ExecContext(ctx, query,
		stats.Topic,
		string(stats.Level),
		stats.WeightedCorrect,
		stats.WeightedIncorrect,
		nullTime(stats.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert topic stats for %s/%s: %w", stats.Topic, stats.Level, err)
	}
	return nil
}

func toDomainQuestionStats(m *models.QuestionStats) *domain.QuestionStats {
	stats := &domain.QuestionStats{
		QuestionID:             m.QuestionID,
		CorrectCount:           m.CorrectCount,
		IncorrectCount:         m.IncorrectCount,
		FreeformCorrectCount:   m.FreeformCorrectCount,
		FreeformIncorrectCount: m.FreeformIncorrectCount,
		PartialCorrectCount:    m.PartialCorrectCount,
		UnansweredCount:        m.UnansweredCount,
		MasteryLevel:           m.MasteryLevel,
	}
	if m.LastSeen.Valid {
		stats.LastSeen = m.LastSeen.Time
	}
	return stats
}

func toDomainTopicStats(m *models.TopicStats) *domain.TopicStats {
	stats := &domain.TopicStats{
		Topic:             m.Topic,
		Level:             domain.Level(m.Level),
		WeightedCorrect:   m.WeightedCorrect,
		WeightedIncorrect: m.WeightedIncorrect,
	}
	if m.LastUpdated.Valid {
		stats.LastUpdated = m.LastUpdated.Time
	}
	return stats
}

func toDomainTopicStatsList(rows []models.TopicStats) []*domain.TopicStats {
	stats := make([]*domain.TopicStats, 0, len(rows))
	for i := range rows {
		stats = append(stats, toDomainTopicStats(&rows[i]))
	}
	return stats
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
