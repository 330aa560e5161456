package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
	"learnitalian/internal/repository/models"
)

// SessionDatabaseAdapter implements domain.SessionRepository using sqlx.DB
type SessionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSessionDatabaseAdapter creates a new instance of SessionDatabaseAdapter
func NewSessionDatabaseAdapter(db *sqlx.DB) domain.SessionRepository {
	return &SessionDatabaseAdapter{db: db}
}

// Append implements domain.SessionRepository
func (a *SessionDatabaseAdapter) Append(ctx context.Context, session *domain.QuizSession) error {
	query := `INSERT INTO quiz_sessions (id, score, total_questions, created_at)
	VALUES (?, ?, ?, ?)`
	_, err := a.db.ExecContext(ctx, query,
		session.ID, session.Score, session.TotalQuestions, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append quiz session %s: %w", session.ID, err)
	}
	return nil
}

// Recent implements domain.SessionRepository
func (a *SessionDatabaseAdapter) Recent(ctx context.Context, limit int) ([]*domain.QuizSession, error) {
	var rows []models.QuizSession
	query := `SELECT id, score, total_questions, created_at
	FROM quiz_sessions ORDER BY created_at DESC, id DESC LIMIT ?`
	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent quiz sessions: %w", err)
	}

	sessions := make([]*domain.QuizSession, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		sessions = append(sessions, &domain.QuizSession{
			ID:             m.ID,
			Score:          m.Score,
			TotalQuestions: m.TotalQuestions,
			CreatedAt:      m.CreatedAt,
		})
	}
	return sessions, nil
}
