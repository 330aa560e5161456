package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"learnitalian/internal/domain"
	"learnitalian/internal/repository/models"
)

const questionColumns = `id, level, topic, prompt, translation,
	option_a, option_b, option_c, option_d, correct_option,
	explanation, hint, alternate_answers, resource_link`

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// GetByID implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var m models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`
	err := a.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return toDomainQuestion(&m)
}

// GetByLevel implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByLevel(ctx context.Context, level domain.Level) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE level = ? ORDER BY id`
	if err := a.db.SelectContext(ctx, &rows, query, string(level)); err != nil {
		return nil, fmt.Errorf("failed to get questions for level %s: %w", level, err)
	}
	return toDomainQuestions(rows)
}

// GetByLevelAndTopic implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetByLevelAndTopic(ctx context.Context, level domain.Level, topic string) ([]*domain.Question, error) {
	var rows []models.Question
	query := `SELECT ` + questionColumns + ` FROM questions WHERE level = ? AND topic = ? ORDER BY id`
	if err := a.db.SelectContext(ctx, &rows, query, string(level), topic); err != nil {
		return nil, fmt.Errorf("failed to get questions for level %s topic %s: %w", level, topic, err)
	}
	return toDomainQuestions(rows)
}

// TopicsByLevel implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) TopicsByLevel(ctx context.Context, level domain.Level) ([]string, error) {
	var topics []string
	query := `SELECT DISTINCT topic FROM questions WHERE level = ? ORDER BY topic`
	if err := a.db.SelectContext(ctx, &topics, query, string(level)); err != nil {
		return nil, fmt.Errorf("failed to get topics for level %s: %w", level, err)
	}
	return topics, nil
}

// CountByLevel implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) CountByLevel(ctx context.Context, level domain.Level) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questions WHERE level = ?`
	if err := a.db.GetContext(ctx, &count, query, string(level)); err != nil {
		return 0, fmt.Errorf("failed to count questions for level %s: %w", level, err)
	}
	return count, nil
}

func toDomainQuestion(m *models.Question) (*domain.Question, error) {
	level, err := domain.ParseLevel(m.Level)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", m.ID, err)
	}
	return &domain.Question{
		ID:               m.ID,
		Level:            level,
		Topic:            m.Topic,
		Prompt:           m.Prompt,
		Translation:      m.Translation,
		OptionA:          m.OptionA,
		OptionB:          m.OptionB,
		OptionC:          m.OptionC,
		OptionD:          m.OptionD,
		CorrectOption:    m.CorrectOption,
		Explanation:      m.Explanation,
		Hint:             m.Hint,
		AlternateAnswers: m.AlternateAnswers,
		ResourceLink:     m.ResourceLink,
	}, nil
}

func toDomainQuestions(rows []models.Question) ([]*domain.Question, error) {
	questions := make([]*domain.Question, 0, len(rows))
	for i := range rows {
		q, err := toDomainQuestion(&rows[i])
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
