package domain

import (
	"strings"
	"time"
)

// Modality describes how a question is presented to the learner.
type Modality string

const (
	ModalityMultipleChoice Modality = "multiple_choice"
	ModalityFreeform       Modality = "freeform"
)

// Question is one entry of the immutable question catalog.
type Question struct {
	ID               string
	Level            Level
	Topic            string
	Prompt           string
	Translation      string
	OptionA          string
	OptionB          string
	OptionC          string
	OptionD          string
	CorrectOption    string
	Explanation      string
	Hint             string
	AlternateAnswers string
	ResourceLink     string
}

// Validate checks the catalog invariants for a question.
func (q *Question) Validate() error {
	if q.ID == "" {
		return NewValidationError("question ID is required")
	}
	if !q.Level.Valid() || q.Level == LevelA0 {
		return NewInvalidLevelError(string(q.Level))
	}
	if q.Topic == "" {
		return NewValidationError("question topic is required")
	}
	if q.Prompt == "" {
		return NewValidationError("question prompt is required")
	}
	switch q.CorrectOption {
	case "A", "B", "C", "D":
	default:
		return NewValidationError("correct option must be A, B, C or D")
	}
	return nil
}

// CorrectAnswer returns the text of the correct option.
func (q *Question) CorrectAnswer() string {
	switch q.CorrectOption {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// Alternates splits the semicolon-separated alternate answers.
func (q *Question) Alternates() []string {
	if q.AlternateAnswers == "" {
		return nil
	}
	parts := strings.Split(q.AlternateAnswers, ";")
	alternates := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			alternates = append(alternates, trimmed)
		}
	}
	return alternates
}

// SelectedQuestion is a catalog question tagged with the modality it
// should be presented in.
type SelectedQuestion struct {
	Question *Question
	Modality Modality
}

// AnswerEvent is one row of the append-only answer log.
type AnswerEvent struct {
	ID         string
	QuestionID string
	Level      Level
	Success    bool
	CreatedAt  time.Time
}

// QuestionStats is the per-question aggregate, one row per question
// ever answered.
type QuestionStats struct {
	QuestionID             string
	CorrectCount           int
	IncorrectCount         int
	FreeformCorrectCount   int
	FreeformIncorrectCount int
	PartialCorrectCount    int
	UnansweredCount        int
	MasteryLevel           float64
	LastSeen               time.Time
}

// TotalAttempts counts every recorded outcome for the question,
// unanswered presentations included.
func (s *QuestionStats) TotalAttempts() int {
	return s.CorrectCount + s.IncorrectCount +
		s.FreeformCorrectCount + s.FreeformIncorrectCount +
		s.PartialCorrectCount + s.UnansweredCount
}

// AnsweredCorrectly reports whether the question was ever answered
// correctly, fully or partially.
func (s *QuestionStats) AnsweredCorrectly() bool {
	return s.CorrectCount > 0 || s.FreeformCorrectCount > 0 || s.PartialCorrectCount > 0
}

// SuccessRate is the fraction of attempts that were correct. Partial
// credit counts as success; zero attempts yields 0.
func (s *QuestionStats) SuccessRate() float64 {
	total := s.TotalAttempts()
	if total == 0 {
		return 0
	}
	successes := s.CorrectCount + s.FreeformCorrectCount + s.PartialCorrectCount
	return float64(successes) / float64(total)
}

// TopicStats is the weighted per-topic, per-level rollup.
type TopicStats struct {
	Topic             string
	Level             Level
	WeightedCorrect   float64
	WeightedIncorrect float64
	LastUpdated       time.Time
}

// SuccessRate is the weighted share of correct answers for the topic.
// Zero weight yields 0.
func (s *TopicStats) SuccessRate() float64 {
	total := s.WeightedCorrect + s.WeightedIncorrect
	if total == 0 {
		return 0
	}
	return s.WeightedCorrect / total
}

// TopicWeakness pairs a topic with its success rate for reporting.
type TopicWeakness struct {
	Topic       string
	Level       Level
	SuccessRate float64
}

// DailySnapshot captures overall progress at the end of a day. Day is
// formatted as YYYY-MM-DD.
type DailySnapshot struct {
	Day           string
	TotalCoverage float64
	TotalMastery  float64
}

// QuizSession is one completed quiz outcome.
type QuizSession struct {
	ID             string
	Score          int
	TotalQuestions int
	CreatedAt      time.Time
}

// Validate checks the session invariants.
func (s *QuizSession) Validate() error {
	if s.ID == "" {
		return NewValidationError("session ID is required")
	}
	if s.TotalQuestions <= 0 {
		return NewValidationError("session must contain at least one question")
	}
	if s.Score < 0 || s.Score > s.TotalQuestions {
		return NewValidationError("session score must be between 0 and the question count")
	}
	return nil
}
