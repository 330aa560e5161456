package models

import (
	"database/sql"
	"time"
)

// AnswerEvent is one row of the append-only answer log.
type AnswerEvent struct {
	ID         string    `db:"id"`
	QuestionID string    `db:"question_id"`
	Level      string    `db:"level"`
	Success    bool      `db:"success"`
	CreatedAt  time.Time `db:"created_at"`
}

// QuestionStats is the per-question aggregate row.
type QuestionStats struct {
	QuestionID             string       `db:"question_id"`
	CorrectCount           int          `db:"correct_count"`
	IncorrectCount         int          `db:"incorrect_count"`
	FreeformCorrectCount   int          `db:"freeform_correct_count"`
	FreeformIncorrectCount int          `db:"freeform_incorrect_count"`
	PartialCorrectCount    int          `db:"partial_correct_count"`
	UnansweredCount        int          `db:"unanswered_count"`
	MasteryLevel           float64      `db:"mastery_level"`
	LastSeen               sql.NullTime `db:"last_seen"`
}

// TopicStats is the per-topic, per-level rollup row.
type TopicStats struct {
	Topic             string       `db:"topic"`
	Level             string       `db:"level"`
	WeightedCorrect   float64      `db:"weighted_correct"`
	WeightedIncorrect float64      `db:"weighted_incorrect"`
	LastUpdated       sql.NullTime `db:"last_updated"`
}

// DailySnapshot is the one-row-per-day progress snapshot.
type DailySnapshot struct {
	Day           string  `db:"day"`
	TotalCoverage float64 `db:"total_coverage"`
	TotalMastery  float64 `db:"total_mastery"`
}

// QuizSession is one completed quiz outcome row.
type QuizSession struct {
	ID             string    `db:"id"`
	Score          int       `db:"score"`
	TotalQuestions int       `db:"total_questions"`
	CreatedAt      time.Time `db:"created_at"`
}
