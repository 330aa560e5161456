package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"learnitalian/internal/domain"
)

var statsRowColumns = []string{
	"question_id", "correct_count", "incorrect_count",
	"freeform_correct_count", "freeform_incorrect_count", "partial_correct_count",
	"unanswered_count", "mastery_level", "last_seen",
}

func TestGetStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	lastSeen := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows(statsRowColumns).
		AddRow("q1", 4, 1, 2, 0, 1, 0, 3.5, lastSeen)

	mock.ExpectQuery(`SELECT .* FROM question_stats WHERE question_id = \?`).
		WithArgs("q1").
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background(), "q1")

	assert.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Equal(t, "q1", stats.QuestionID)
	assert.Equal(t, 4, stats.CorrectCount)
	assert.Equal(t, 2, stats.FreeformCorrectCount)
	assert.Equal(t, 3.5, stats.MasteryLevel)
	assert.Equal(t, lastSeen, stats.LastSeen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatsNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT .* FROM question_stats WHERE question_id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(statsRowColumns))

	stats, err := repo.GetStats(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetStatsByLevel(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	rows := sqlmock.NewRows(statsRowColumns).
		AddRow("q1", 2, 0, 0, 0, 0, 0, 1.0, time.Now()).
		AddRow("q2", 0, 3, 0, 0, 0, 1, -2.0, time.Now())

	mock.ExpectQuery(`SELECT s\.question_id .* FROM question_stats s`).
		WithArgs("A2").
		WillReturnRows(rows)

	stats, err := repo.GetStatsByLevel(context.Background(), domain.LevelA2)

	assert.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, "q2", stats[1].QuestionID)
	assert.Equal(t, -2.0, stats[1].MasteryLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	now := time.Now()
	mock.ExpectExec(`INSERT INTO question_stats`).
		WithArgs("q1", 5, 1, 2, 0, 1, 0, 4.25, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertStats(context.Background(), &domain.QuestionStats{
		QuestionID:           "q1",
		CorrectCount:         5,
		IncorrectCount:       1,
		FreeformCorrectCount: 2,
		PartialCorrectCount:  1,
		MasteryLevel:         4.25,
		LastSeen:             now,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStatsRequiresQuestionID(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	err := repo.UpsertStats(context.Background(), &domain.QuestionStats{})
	assert.Error(t, err)
}

func TestGetTopicStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	updated := time.Now()
	rows := sqlmock.NewRows([]string{"topic", "level", "weighted_correct", "weighted_incorrect", "last_updated"}).
		AddRow("food", "A1", 6.5, 2.0, updated)

	mock.ExpectQuery(`SELECT .* FROM topic_stats WHERE topic = \? AND level = \?`).
		WithArgs("food", "A1").
		WillReturnRows(rows)

	stats, err := repo.GetTopicStats(context.Background(), "food", domain.LevelA1)

	assert.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Equal(t, "food", stats.Topic)
	assert.Equal(t, domain.LevelA1, stats.Level)
	assert.Equal(t, 6.5, stats.WeightedCorrect)
	assert.Equal(t, updated, stats.LastUpdated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTopicStatsNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT .* FROM topic_stats WHERE topic = \? AND level = \?`).
		WithArgs("ghost", "B1").
		WillReturnRows(sqlmock.NewRows([]string{"topic", "level", "weighted_correct", "weighted_incorrect", "last_updated"}))

	stats, err := repo.GetTopicStats(context.Background(), "ghost", domain.LevelB1)

	assert.NoError(t, err)
	assert.Nil(t, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllTopicStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"topic", "level", "weighted_correct", "weighted_incorrect", "last_updated"}).
		AddRow("food", "A1", 3.0, 1.0, time.Now()).
		AddRow("verbs", "A2", 1.0, 4.0, time.Now())

	mock.ExpectQuery(`SELECT .* FROM topic_stats$`).
		WillReturnRows(rows)

	stats, err := repo.GetAllTopicStats(context.Background())

	assert.NoError(t, err)
	assert.Len(t, stats, 2)
	assert.Equal(t, "verbs", stats[1].Topic)
	assert.Equal(t, domain.LevelA2, stats[1].Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertTopicStats(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPerformanceDatabaseAdapter(db)

	mock.ExpectExec(`INSERT INTO topic_stats`).
		WithArgs("food", "A1", 7.5, 2.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertTopicStats(context.Background(), &domain.TopicStats{
		Topic:             "food",
		Level:             domain.LevelA1,
		WeightedCorrect:   7.5,
		WeightedIncorrect: 2.0,
		LastUpdated:       time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
