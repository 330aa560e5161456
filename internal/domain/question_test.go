package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() *Question {
	return &Question{
		ID:            "q1",
		Level:         LevelA1,
		Topic:         "greetings",
		Prompt:        "Come si dice 'hello'?",
		OptionA:       "ciao",
		OptionB:       "grazie",
		OptionC:       "prego",
		OptionD:       "scusa",
		CorrectOption: "A",
	}
}

func TestQuestionValidate(t *testing.T) {
	assert.NoError(t, validQuestion().Validate())

	q := validQuestion()
	q.ID = ""
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.Level = LevelA0
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.Topic = ""
	assert.Error(t, q.Validate())

	q = validQuestion()
	q.CorrectOption = "E"
	assert.Error(t, q.Validate())
}

func TestQuestionCorrectAnswer(t *testing.T) {
	q := validQuestion()
	assert.Equal(t, "ciao", q.CorrectAnswer())

	q.CorrectOption = "C"
	assert.Equal(t, "prego", q.CorrectAnswer())
}

func TestQuestionAlternates(t *testing.T) {
	q := validQuestion()
	assert.Nil(t, q.Alternates())

	q.AlternateAnswers = "salve; buongiorno ;"
	assert.Equal(t, []string{"salve", "buongiorno"}, q.Alternates())
}

func TestQuestionStatsAggregates(t *testing.T) {
	st := &QuestionStats{}
	assert.Equal(t, 0, st.TotalAttempts())
	assert.False(t, st.AnsweredCorrectly())
	assert.Equal(t, 0.0, st.SuccessRate())

	st = &QuestionStats{CorrectCount: 2, IncorrectCount: 1, UnansweredCount: 1}
	assert.Equal(t, 4, st.TotalAttempts())
	assert.True(t, st.AnsweredCorrectly())
	assert.Equal(t, 0.5, st.SuccessRate())

	st = &QuestionStats{PartialCorrectCount: 1}
	assert.True(t, st.AnsweredCorrectly())
}

func TestTopicStatsSuccessRate(t *testing.T) {
	ts := &TopicStats{}
	assert.Equal(t, 0.0, ts.SuccessRate())

	ts = &TopicStats{WeightedCorrect: 3, WeightedIncorrect: 1}
	assert.Equal(t, 0.75, ts.SuccessRate())
}

func TestQuizSessionValidate(t *testing.T) {
	s := &QuizSession{ID: "s1", Score: 8, TotalQuestions: 10}
	assert.NoError(t, s.Validate())

	s = &QuizSession{ID: "", Score: 8, TotalQuestions: 10}
	assert.Error(t, s.Validate())

	s = &QuizSession{ID: "s1", Score: 11, TotalQuestions: 10}
	assert.Error(t, s.Validate())

	s = &QuizSession{ID: "s1", Score: 0, TotalQuestions: 0}
	assert.Error(t, s.Validate())
}
