package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"learnitalian/internal/domain"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var questionRowColumns = []string{
	"id", "level", "topic", "prompt", "translation",
	"option_a", "option_b", "option_c", "option_d", "correct_option",
	"explanation", "hint", "alternate_answers", "resource_link",
}

func addQuestionRow(rows *sqlmock.Rows, id, level, topic string) {
	rows.AddRow(id, level, topic, "prompt "+id, "translation",
		"a", "b", "c", "d", "A", "", "", "", "")
}

func TestQuestionGetByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionRowColumns)
	addQuestionRow(rows, "q1", "A1", "greetings")

	mock.ExpectQuery(`SELECT .* FROM questions WHERE id = \?`).
		WithArgs("q1").
		WillReturnRows(rows)

	q, err := repo.GetByID(context.Background(), "q1")

	assert.NoError(t, err)
	assert.NotNil(t, q)
	assert.Equal(t, "q1", q.ID)
	assert.Equal(t, domain.LevelA1, q.Level)
	assert.Equal(t, "greetings", q.Topic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionGetByIDNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT .* FROM questions WHERE id = \?`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(questionRowColumns))

	q, err := repo.GetByID(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Nil(t, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionGetByLevel(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionRowColumns)
	addQuestionRow(rows, "q1", "A1", "greetings")
	addQuestionRow(rows, "q2", "A1", "food")

	mock.ExpectQuery(`SELECT .* FROM questions WHERE level = \? ORDER BY id`).
		WithArgs("A1").
		WillReturnRows(rows)

	questions, err := repo.GetByLevel(context.Background(), domain.LevelA1)

	assert.NoError(t, err)
	assert.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "q2", questions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionGetByLevelBadLevelRow(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows(questionRowColumns)
	addQuestionRow(rows, "q1", "XX", "greetings")

	mock.ExpectQuery(`SELECT .* FROM questions WHERE level = \? ORDER BY id`).
		WithArgs("A1").
		WillReturnRows(rows)

	_, err := repo.GetByLevel(context.Background(), domain.LevelA1)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionTopicsByLevel(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"topic"}).AddRow("food").AddRow("greetings")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT DISTINCT topic FROM questions WHERE level = ? ORDER BY topic`)).
		WithArgs("A1").
		WillReturnRows(rows)

	topics, err := repo.TopicsByLevel(context.Background(), domain.LevelA1)

	assert.NoError(t, err)
	assert.Equal(t, []string{"food", "greetings"}, topics)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionCountByLevel(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewQuestionDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM questions WHERE level = ?`)).
		WithArgs("B1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.CountByLevel(context.Background(), domain.LevelB1)

	assert.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
