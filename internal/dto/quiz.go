package dto

import "learnitalian/internal/domain"

// QuestionResponse represents one selected question in the API response
type QuestionResponse struct {
	ID           string   `json:"id"`
	Level        string   `json:"level"`
	Topic        string   `json:"topic"`
	Prompt       string   `json:"prompt"`
	Translation  string   `json:"translation,omitempty"`
	Options      []string `json:"options,omitempty"`
	Modality     string   `json:"modality"`
	Hint         string   `json:"hint,omitempty"`
	ResourceLink string   `json:"resource_link,omitempty"`
}

// NewQuestionResponse maps a selected question into its API shape.
// Multiple-choice questions carry their options; freeform ones do not.
func NewQuestionResponse(sq domain.SelectedQuestion) QuestionResponse {
	q := sq.Question
	resp := QuestionResponse{
		ID:           q.ID,
		Level:        string(q.Level),
		Topic:        q.Topic,
		Prompt:       q.Prompt,
		Translation:  q.Translation,
		Modality:     string(sq.Modality),
		Hint:         q.Hint,
		ResourceLink: q.ResourceLink,
	}
	if sq.Modality == domain.ModalityMultipleChoice {
		resp.Options = []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
	}
	return resp
}

// NextQuestionsResponse is the payload for a selected batch
type NextQuestionsResponse struct {
	Target    string             `json:"target_level"`
	Questions []QuestionResponse `json:"questions"`
}

// GradeRequest represents a typed answer to grade in the API request
type GradeRequest struct {
	QuestionID string `json:"question_id"`
	UserText   string `json:"user_text"`
}

// GradeResponse represents the grading verdict in the API response
type GradeResponse struct {
	Correct  bool   `json:"correct"`
	Partial  bool   `json:"partial"`
	Feedback string `json:"feedback,omitempty"`
}

// RecordAnswerRequest represents one answer outcome in the API request
type RecordAnswerRequest struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Freeform   bool   `json:"freeform"`
	Partial    bool   `json:"partial"`
	Unanswered bool   `json:"unanswered"`
}

// RecordSessionRequest represents a completed quiz in the API request
type RecordSessionRequest struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
}
