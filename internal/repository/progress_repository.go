package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
)

// ProgressDatabaseAdapter implements domain.ProgressRepository using sqlx.DB
type ProgressDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProgressDatabaseAdapter creates a new instance of ProgressDatabaseAdapter
func NewProgressDatabaseAdapter(db *sqlx.DB) domain.ProgressRepository {
	return &ProgressDatabaseAdapter{db: db}
}

// ClearAll implements domain.ProgressRepository. The question catalog is
// left untouched; only learner history is removed.
func (a *ProgressDatabaseAdapter) ClearAll(ctx context.Context) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin progress reset: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	tables := []string{
		"answer_events",
		"question_stats",
		"topic_stats",
		"quiz_sessions",
		"daily_snapshots",
	}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit progress reset: %w", err)
	}
	return nil
}
