package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
	"learnitalian/internal/repository/models"
)

// AnswerEventDatabaseAdapter implements domain.AnswerEventRepository using sqlx.DB
type AnswerEventDatabaseAdapter struct {
	db *sqlx.DB
}

// NewAnswerEventDatabaseAdapter creates a new instance of AnswerEventDatabaseAdapter
func NewAnswerEventDatabaseAdapter(db *sqlx.DB) domain.AnswerEventRepository {
	return &AnswerEventDatabaseAdapter{db: db}
}

// Append implements domain.AnswerEventRepository
func (a *AnswerEventDatabaseAdapter) Append(ctx context.Context, event *domain.AnswerEvent) error {
	if event == nil || event.ID == "" {
		return fmt.Errorf("cannot append answer event without an ID")
	}

	query := `INSERT INTO answer_events (id, question_id, level, success, created_at)
	VALUES (?, ?, ?, ?, ?)`
	_, err := a.db.ExecContext(ctx, query,
		event.ID,
		event.QuestionID,
		string(event.Level),
		event.Success,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append answer event: %w", err)
	}
	return nil
}

// RecentByLevel implements domain.AnswerEventRepository
func (a *AnswerEventDatabaseAdapter) RecentByLevel(ctx context.Context, level domain.Level, limit int) ([]*domain.AnswerEvent, error) {
	var rows []models.AnswerEvent
	query := `SELECT id, question_id, level, success, created_at
	FROM answer_events WHERE level = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?`
	if err := a.db.SelectContext(ctx, &rows, query, string(level), limit); err != nil {
		return nil, fmt.Errorf("failed to get recent events for level %s: %w", level, err)
	}
	return toDomainAnswerEvents(rows), nil
}

// LatestPerQuestion implements domain.AnswerEventRepository
func (a *AnswerEventDatabaseAdapter) LatestPerQuestion(ctx context.Context, level domain.Level) ([]*domain.AnswerEvent, error) {
	var rows []models.AnswerEvent
	query := `SELECT e.id "id",
		e.question_id "question_id",
		e.level "level",
		e.success "success",
		e.created_at "created_at"
	FROM answer_events e
	JOIN (
		SELECT question_id, MAX(created_at) AS latest_at
		FROM answer_events
		WHERE level = ?
		GROUP BY question_id
	) latest ON latest.question_id = e.question_id AND latest.latest_at = e.created_at
	WHERE e.level = ?`
	if err := a.db.SelectContext(ctx, &rows, query, string(level), string(level)); err != nil {
		return nil, fmt.Errorf("failed to get latest events for level %s: %w", level, err)
	}
	return toDomainAnswerEvents(rows), nil
}

// DistinctTopicsAnswered implements domain.AnswerEventRepository
func (a *AnswerEventDatabaseAdapter) DistinctTopicsAnswered(ctx context.Context, level domain.Level) ([]string, error) {
	var topics []string
	query := `SELECT DISTINCT q.topic
	FROM answer_events e
	JOIN questions q ON q.id = e.question_id
	WHERE e.level = ?
	ORDER BY q.topic`
	if err := a.db.SelectContext(ctx, &topics, query, string(level)); err != nil {
		return nil, fmt.Errorf("failed to get answered topics for level %s: %w", level, err)
	}
	return topics, nil
}

// SuccessRateSince implements domain.AnswerEventRepository
func (a *AnswerEventDatabaseAdapter) SuccessRateSince(ctx context.Context, level domain.Level, cutoff time.Time) (float64, int, error) {
	var row struct {
		Rate  float64 `db:"rate"`
		Count int     `db:"cnt"`
	}
	query := `SELECT COALESCE(AVG(success), 0) "rate", COUNT(*) "cnt"
	FROM answer_events WHERE level = ? AND created_at >= ?`
	if err := a.db.GetContext(ctx, &row, query, string(level), cutoff); err != nil {
		return 0, 0, fmt.Errorf("failed to get success rate for level %s: %w", level, err)
	}
	return row.Rate, row.Count, nil
}

func toDomainAnswerEvents(rows []models.AnswerEvent) []*domain.AnswerEvent {
	events := make([]*domain.AnswerEvent, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		events = append(events, &domain.AnswerEvent{
			ID:         m.ID,
			QuestionID: m.QuestionID,
			Level:      domain.Level(m.Level),
			Success:    m.Success,
			CreatedAt:  m.CreatedAt,
		})
	}
	return events
}
