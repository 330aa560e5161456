package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"learnitalian/internal/domain"
	"learnitalian/internal/dto"
	"learnitalian/internal/logger"
	"learnitalian/internal/matcher"
	"learnitalian/internal/middleware"
	"learnitalian/internal/selection"
	"learnitalian/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Level: "info", Env: "test"}); err != nil {
		log.Fatalf("Failed to initialize logger for handler tests: %v", err)
	}
	code := m.Run()
	_ = logger.Sync()
	os.Exit(code)
}

// MockQuizService is a mock implementation of service.QuizService
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) SelectQuestions(ctx context.Context, req selection.Request) ([]domain.SelectedQuestion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SelectedQuestion), args.Error(1)
}

func (m *MockQuizService) GradeFreeform(userText, canonical string, alternates []string) matcher.Result {
	args := m.Called(userText, canonical, alternates)
	return args.Get(0).(matcher.Result)
}

func (m *MockQuizService) GradeAnswer(ctx context.Context, questionID, userText string) (matcher.Result, error) {
	args := m.Called(ctx, questionID, userText)
	return args.Get(0).(matcher.Result), args.Error(1)
}

func (m *MockQuizService) RecordAnswer(ctx context.Context, in service.RecordAnswerInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockQuizService) RecordSession(ctx context.Context, score, totalQuestions int) error {
	args := m.Called(ctx, score, totalQuestions)
	return args.Error(0)
}

func (m *MockQuizService) EstimatedLevel(ctx context.Context) (domain.Level, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Level), args.Error(1)
}

func (m *MockQuizService) LevelMastery(ctx context.Context, level domain.Level) (float64, error) {
	args := m.Called(ctx, level)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockQuizService) LevelCoverage(ctx context.Context, level domain.Level) (float64, error) {
	args := m.Called(ctx, level)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockQuizService) SustainedSuccessStreak(ctx context.Context, level domain.Level) (int, error) {
	args := m.Called(ctx, level)
	return args.Get(0).(int), args.Error(1)
}

func (m *MockQuizService) TopicWeaknesses(ctx context.Context) ([]domain.TopicWeakness, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TopicWeakness), args.Error(1)
}

func (m *MockQuizService) ProgressTimeline(ctx context.Context, from, to string) ([]*domain.DailySnapshot, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailySnapshot), args.Error(1)
}

func (m *MockQuizService) ClearProgress(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newQuizTestApp(svc service.QuizService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	handler := NewQuizHandler(svc)
	app.Get("/api/quiz/next", handler.GetNextQuestions)
	app.Post("/api/quiz/grade", handler.GradeAnswer)
	app.Post("/api/quiz/answer", handler.RecordAnswer)
	app.Post("/api/quiz/session", handler.RecordSession)
	return app
}

func TestGetNextQuestions(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	selected := []domain.SelectedQuestion{
		{
			Question: &domain.Question{
				ID:            "q1",
				Level:         domain.LevelA1,
				Topic:         "food",
				Prompt:        "Come si dice bread?",
				OptionA:       "pane",
				OptionB:       "pesce",
				OptionC:       "latte",
				OptionD:       "vino",
				CorrectOption: "A",
			},
			Modality: domain.ModalityMultipleChoice,
		},
		{
			Question: &domain.Question{
				ID:     "q2",
				Level:  domain.LevelA1,
				Topic:  "animals",
				Prompt: "Come si dice cat?",
			},
			Modality: domain.ModalityFreeform,
		},
	}

	mockService.On("SelectQuestions", mock.Anything, selection.Request{Count: selection.DefaultBatchSize}).
		Return(selected, nil).Once()
	mockService.On("EstimatedLevel", mock.Anything).Return(domain.LevelA1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/next", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NextQuestionsResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A2", body.Target)
	assert.Len(t, body.Questions, 2)
	assert.Equal(t, []string{"pane", "pesce", "latte", "vino"}, body.Questions[0].Options)
	assert.Equal(t, "freeform", body.Questions[1].Modality)
	assert.Empty(t, body.Questions[1].Options)
	mockService.AssertExpectations(t)
}

func TestGetNextQuestionsWithOverrides(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("SelectQuestions", mock.Anything, selection.Request{
		Count:    5,
		Level:    domain.LevelB1,
		Topic:    "travel",
		Freeform: true,
	}).Return([]domain.SelectedQuestion{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/quiz/next?count=5&level=B1&topic=travel&freeform=true", nil)
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.NextQuestionsResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// Level override is echoed back as the target without consulting the estimator.
	assert.Equal(t, "B1", body.Target)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "EstimatedLevel", mock.Anything)
}

func TestGetNextQuestionsInvalidParams(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		expectedCode string
	}{
		{"Invalid Count", "/api/quiz/next?count=zero", "INVALID_INPUT"},
		{"Negative Count", "/api/quiz/next?count=-3", "INVALID_INPUT"},
		{"Unknown Level", "/api/quiz/next?level=Z9", "INVALID_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockQuizService)
			app := newQuizTestApp(mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			resp, err := app.Test(req)

			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body middleware.ErrorResponse
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
			mockService.AssertNotCalled(t, "SelectQuestions", mock.Anything, mock.Anything)
		})
	}
}

func TestGradeAnswerHandler(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("GradeAnswer", mock.Anything, "q1", "caffe").
		Return(matcher.Result{Correct: true, Partial: true, Feedback: matcher.FeedbackAccents}, nil).Once()

	body, _ := json.Marshal(dto.GradeRequest{QuestionID: "q1", UserText: "caffe"})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var graded dto.GradeResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&graded))
	assert.True(t, graded.Correct)
	assert.True(t, graded.Partial)
	assert.Equal(t, matcher.FeedbackAccents, graded.Feedback)
	mockService.AssertExpectations(t)
}

func TestGradeAnswerHandlerQuestionNotFound(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("GradeAnswer", mock.Anything, "ghost", "pane").
		Return(matcher.Result{}, domain.NewQuestionNotFoundError("ghost")).Once()

	body, _ := json.Marshal(dto.GradeRequest{QuestionID: "ghost", UserText: "pane"})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errBody middleware.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "QUESTION_NOT_FOUND", errBody.Code)
	assert.Equal(t, "Question not found with ID: ghost", errBody.Message)
	mockService.AssertExpectations(t)
}

func TestGradeAnswerHandlerMissingQuestionID(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	body, _ := json.Marshal(dto.GradeRequest{UserText: "pane"})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	mockService.AssertNotCalled(t, "GradeAnswer", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordAnswerHandler(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("RecordAnswer", mock.Anything, service.RecordAnswerInput{
		QuestionID: "q1",
		Correct:    true,
		Freeform:   true,
	}).Return(nil).Once()

	body, _ := json.Marshal(dto.RecordAnswerRequest{QuestionID: "q1", Correct: true, Freeform: true})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/answer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockService.AssertExpectations(t)
}

func TestRecordSessionHandler(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("RecordSession", mock.Anything, 8, 10).Return(nil).Once()

	body, _ := json.Marshal(dto.RecordSessionRequest{Score: 8, TotalQuestions: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockService.AssertExpectations(t)
}

func TestRecordSessionHandlerInvalid(t *testing.T) {
	mockService := new(MockQuizService)
	app := newQuizTestApp(mockService)

	mockService.On("RecordSession", mock.Anything, 12, 10).
		Return(domain.NewInvalidInputError("score cannot exceed total questions")).Once()

	body, _ := json.Marshal(dto.RecordSessionRequest{Score: 12, TotalQuestions: 10})
	req := httptest.NewRequest(http.MethodPost, "/api/quiz/session", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody middleware.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "INVALID_INPUT", errBody.Code)
	mockService.AssertExpectations(t)
}
