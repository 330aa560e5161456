package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
	"learnitalian/internal/repository/models"
)

// SnapshotDatabaseAdapter implements domain.SnapshotRepository using sqlx.DB
type SnapshotDatabaseAdapter struct {
	db *sqlx.DB
}

// NewSnapshotDatabaseAdapter creates a new instance of SnapshotDatabaseAdapter
func NewSnapshotDatabaseAdapter(db *sqlx.DB) domain.SnapshotRepository {
	return &SnapshotDatabaseAdapter{db: db}
}

// UpsertDaily implements domain.SnapshotRepository
func (a *SnapshotDatabaseAdapter) UpsertDaily(ctx context.Context, snap *domain.DailySnapshot) error {
	if snap == nil || snap.Day == "" {
		return fmt.Errorf("cannot upsert snapshot without a day")
	}

	query := `INSERT INTO daily_snapshots (day, total_coverage, total_mastery)
	VALUES (?, ?, ?)
	ON CONFLICT (day) DO UPDATE SET
		total_coverage = excluded.total_coverage,
		total_mastery = excluded.total_mastery`
	_, err := a.db.ExecContext(ctx, query, snap.Day, snap.TotalCoverage, snap.TotalMastery)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for %s: %w", snap.Day, err)
	}
	return nil
}

// GetRange implements domain.SnapshotRepository
func (a *SnapshotDatabaseAdapter) GetRange(ctx context.Context, from, to string) ([]*domain.DailySnapshot, error) {
	var rows []models.DailySnapshot
	query := `SELECT day, total_coverage, total_mastery
	FROM daily_snapshots WHERE day >= ? AND day <= ? ORDER BY day`
	if err := a.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to get snapshots from %s to %s: %w", from, to, err)
	}

	snaps := make([]*domain.DailySnapshot, 0, len(rows))
	for i := range rows {
		m := &rows[i]
		snaps = append(snaps, &domain.DailySnapshot{
			Day:           m.Day,
			TotalCoverage: m.TotalCoverage,
			TotalMastery:  m.TotalMastery,
		})
	}
	return snaps, nil
}
