package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"learnitalian/internal/domain"
)

func TestSnapshotUpsertDaily(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSnapshotDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO daily_snapshots`).
		WithArgs("2026-08-31", 0.6, 0.45).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertDaily(context.Background(), &domain.DailySnapshot{
		Day:           "2026-08-31",
		TotalCoverage: 0.6,
		TotalMastery:  0.45,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotUpsertDailyRequiresDay(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotDatabaseAdapter(db)

	err := repo.UpsertDaily(context.Background(), &domain.DailySnapshot{})
	assert.Error(t, err)
}

func TestSnapshotGetRange(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSnapshotDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"day", "total_coverage", "total_mastery"}).
		AddRow("2026-08-01", 0.2, 0.1).
		AddRow("2026-08-02", 0.3, 0.15)

	mock.ExpectQuery(`SELECT .* FROM daily_snapshots WHERE day >= \? AND day <= \?`).
		WithArgs("2026-08-01", "2026-08-31").
		WillReturnRows(rows)

	snaps, err := repo.GetRange(context.Background(), "2026-08-01", "2026-08-31")

	assert.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.Equal(t, "2026-08-01", snaps[0].Day)
	assert.Equal(t, 0.15, snaps[1].TotalMastery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionAppend(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSessionDatabaseAdapter(db)

	now := time.Now()
	mock.ExpectExec(`INSERT INTO quiz_sessions`).
		WithArgs("s1", 8, 10, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), &domain.QuizSession{
		ID:             "s1",
		Score:          8,
		TotalQuestions: 10,
		CreatedAt:      now,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRecent(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSessionDatabaseAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "score", "total_questions", "created_at"}).
		AddRow("s2", 9, 10, now).
		AddRow("s1", 6, 10, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT .* FROM quiz_sessions ORDER BY created_at DESC`).
		WithArgs(5).
		WillReturnRows(rows)

	sessions, err := repo.Recent(context.Background(), 5)

	assert.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].ID)
	assert.Equal(t, 9, sessions[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressClearAll(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewProgressDatabaseAdapter(db)

	mock.ExpectBegin()
	for _, table := range []string{"answer_events", "question_stats", "topic_stats", "quiz_sessions", "daily_snapshots"} {
		mock.ExpectExec(`DELETE FROM ` + table).
			WillReturnResult(sqlmock.NewResult(0, 3))
	}
	mock.ExpectCommit()

	err := repo.ClearAll(context.Background())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressClearAllRollsBackOnError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewProgressDatabaseAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM answer_events`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.ClearAll(context.Background())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
