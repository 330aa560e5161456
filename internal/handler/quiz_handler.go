package handler

import (
	"strconv"

	"learnitalian/internal/domain"
	"learnitalian/internal/dto"
	"learnitalian/internal/selection"
	"learnitalian/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

// GetNextQuestions handles GET /api/quiz/next. Query parameters: count,
// level (override), topic (override), freeform.
func (h *QuizHandler) GetNextQuestions(c *fiber.Ctx) error {
	req := selection.Request{
		Count:    selection.DefaultBatchSize,
		Topic:    c.Query("topic"),
		Freeform: c.QueryBool("freeform"),
	}

	if raw := c.Query("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 1 {
			return domain.NewInvalidInputError("count must be a positive integer")
		}
		req.Count = count
	}

	if raw := c.Query("level"); raw != "" {
		level, err := domain.ParseLevel(raw)
		if err != nil {
			return err
		}
		req.Level = level
	}

	selected, err := h.service.SelectQuestions(c.Context(), req)
	if err != nil {
		return err
	}

	target := req.Level
	if target == "" {
		estimated, err := h.service.EstimatedLevel(c.Context())
		if err != nil {
			return err
		}
		target = estimated.Next()
	}

	questions := make([]dto.QuestionResponse, 0, len(selected))
	for _, sq := range selected {
		questions = append(questions, dto.NewQuestionResponse(sq))
	}

	return c.JSON(dto.NextQuestionsResponse{
		Target:    string(target),
		Questions: questions,
	})
}

// GradeAnswer handles POST /api/quiz/grade. The typed answer is matched
// against the question's canonical answer and alternates.
func (h *QuizHandler) GradeAnswer(c *fiber.Ctx) error {
	var req dto.GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if req.QuestionID == "" {
		return domain.NewInvalidInputError("question_id is required")
	}

	result, err := h.service.GradeAnswer(c.Context(), req.QuestionID, req.UserText)
	if err != nil {
		return err
	}

	return c.JSON(dto.GradeResponse{
		Correct:  result.Correct,
		Partial:  result.Partial,
		Feedback: result.Feedback,
	})
}

// RecordAnswer handles POST /api/quiz/answer.
func (h *QuizHandler) RecordAnswer(c *fiber.Ctx) error {
	var req dto.RecordAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if req.QuestionID == "" {
		return domain.NewInvalidInputError("question_id is required")
	}

	err := h.service.RecordAnswer(c.Context(), service.RecordAnswerInput{
		QuestionID: req.QuestionID,
		Correct:    req.Correct,
		Freeform:   req.Freeform,
		Partial:    req.Partial,
		Unanswered: req.Unanswered,
	})
	if err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RecordSession handles POST /api/quiz/session.
func (h *QuizHandler) RecordSession(c *fiber.Ctx) error {
	var req dto.RecordSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}

	if err := h.service.RecordSession(c.Context(), req.Score, req.TotalQuestions); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
