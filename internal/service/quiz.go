package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"learnitalian/internal/domain"
	"learnitalian/internal/estimator"
	"learnitalian/internal/logger"
	"learnitalian/internal/matcher"
	"learnitalian/internal/scoring"
	"learnitalian/internal/selection"
	"learnitalian/internal/util"
)

// Mastery deltas applied to the per-question cumulative mastery_level on each
// outcome. This is engine-internal bookkeeping, distinct from the
// display-facing mastery formula in the scoring package.
const (
	deltaChoiceCorrect     = 1.0
	deltaChoiceIncorrect   = -1.0
	deltaFreeformCorrect   = 1.5
	deltaFreeformIncorrect = -1.0
	deltaPartialCorrect    = 0.5
	deltaUnanswered        = -0.5
)

// topicFreeformWeight scales the topic success/failure tally for freeform
// answers.
const topicFreeformWeight = 1.5

// RecordAnswerInput carries one answer submission.
type RecordAnswerInput struct {
	QuestionID string
	Correct    bool
	Freeform   bool
	Partial    bool
	Unanswered bool
}

// QuizService defines the engine operations exposed to the UI collaborator.
type QuizService interface {
	SelectQuestions(ctx context.Context, req selection.Request) ([]domain.SelectedQuestion, error)
	GradeFreeform(userText, canonical string, alternates []string) matcher.Result
	GradeAnswer(ctx context.Context, questionID, userText string) (matcher.Result, error)
	RecordAnswer(ctx context.Context, in RecordAnswerInput) error
	RecordSession(ctx context.Context, score, totalQuestions int) error
	EstimatedLevel(ctx context.Context) (domain.Level, error)
	LevelMastery(ctx context.Context, level domain.Level) (float64, error)
	LevelCoverage(ctx context.Context, level domain.Level) (float64, error)
	SustainedSuccessStreak(ctx context.Context, level domain.Level) (int, error)
	TopicWeaknesses(ctx context.Context) ([]domain.TopicWeakness, error)
	ProgressTimeline(ctx context.Context, from, to string) ([]*domain.DailySnapshot, error)
	ClearProgress(ctx context.Context) error
}

// quizService implements QuizService.
type quizService struct {
	questions domain.QuestionRepository
	perf      domain.PerformanceRepository
	events    domain.AnswerEventRepository
	sessions  domain.SessionRepository
	snapshots domain.SnapshotRepository
	progress  domain.ProgressRepository
	engine    *selection.Engine
	scorer    *scoring.Scorer
	est       *estimator.Estimator
}

// NewQuizService creates a new instance of quizService.
func NewQuizService(
	questions domain.QuestionRepository,
	perf domain.PerformanceRepository,
	events domain.AnswerEventRepository,
	sessions domain.SessionRepository,
	snapshots domain.SnapshotRepository,
	progress domain.ProgressRepository,
	engine *selection.Engine,
	scorer *scoring.Scorer,
	est *estimator.Estimator,
) QuizService {
	return &quizService{
		questions: questions,
		perf:      perf,
		events:    events,
		sessions:  sessions,
		snapshots: snapshots,
		progress:  progress,
		engine:    engine,
		scorer:    scorer,
		est:       est,
	}
}

// SelectQuestions implements QuizService.
func (s *quizService) SelectQuestions(ctx context.Context, req selection.Request) ([]domain.SelectedQuestion, error) {
	selected, err := s.engine.Select(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		logger.Get().Info("Selection returned an empty batch",
			zap.String("level", string(req.Level)),
			zap.String("topic", req.Topic),
			zap.Int("count", req.Count))
	}
	return selected, nil
}

// GradeFreeform implements QuizService.
func (s *quizService) GradeFreeform(userText, canonical string, alternates []string) matcher.Result {
	return matcher.Grade(userText, canonical, alternates)
}

// GradeAnswer grades a typed answer against a question's canonical answer and
// its alternates.
func (s *quizService) GradeAnswer(ctx context.Context, questionID, userText string) (matcher.Result, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return matcher.Result{}, domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return matcher.Result{}, domain.NewQuestionNotFoundError(questionID)
	}
	return matcher.Grade(userText, q.CorrectAnswer(), q.Alternates()), nil
}

// RecordAnswer implements QuizService. It updates the per-question aggregate,
// the topic rollup and the append-only answer log in one pass.
func (s *quizService) RecordAnswer(ctx context.Context, in RecordAnswerInput) error {
	q, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		return domain.NewInternalError("Failed to get question", err)
	}
	if q == nil {
		return domain.NewQuestionNotFoundError(in.QuestionID)
	}

	stats, err := s.perf.GetStats(ctx, in.QuestionID)
	if err != nil {
		return domain.NewInternalError("Failed to get question stats", err)
	}
	if stats == nil {
		stats = &domain.QuestionStats{QuestionID: in.QuestionID}
	}

	now := time.Now()
	success := false
	switch {
	case in.Unanswered:
		stats.UnansweredCount++
		stats.MasteryLevel += deltaUnanswered
	case in.Partial:
		stats.PartialCorrectCount++
		stats.MasteryLevel += deltaPartialCorrect
		success = true
	case in.Correct && in.Freeform:
		stats.FreeformCorrectCount++
		stats.MasteryLevel += deltaFreeformCorrect
		success = true
	case in.Correct:
		stats.CorrectCount++
		stats.MasteryLevel += deltaChoiceCorrect
		success = true
	case in.Freeform:
		stats.FreeformIncorrectCount++
		stats.MasteryLevel += deltaFreeformIncorrect
	default:
		stats.IncorrectCount++
		stats.MasteryLevel += deltaChoiceIncorrect
	}
	stats.LastSeen = now

	if err := s.perf.UpsertStats(ctx, stats); err != nil {
		return domain.NewInternalError("Failed to upsert question stats", err)
	}

	if err := s.updateTopicStats(ctx, q, success, in.Freeform, now); err != nil {
		return err
	}

	event := &domain.AnswerEvent{
		ID:         util.NewULID(),
		QuestionID: q.ID,
		Level:      q.Level,
		Success:    success,
		CreatedAt:  now,
	}
	if err := s.events.Append(ctx, event); err != nil {
		return domain.NewInternalError("Failed to append answer event", err)
	}
	return nil
}

func (s *quizService) updateTopicStats(ctx context.Context, q *domain.Question, success, freeform bool, now time.Time) error {
	topic, err := s.perf.GetTopicStats(ctx, q.Topic, q.Level)
	if err != nil {
		return domain.NewInternalError("Failed to get topic stats", err)
	}
	if topic == nil {
		topic = &domain.TopicStats{Topic: q.Topic, Level: q.Level}
	}

	weight := 1.0
	if freeform {
		weight = topicFreeformWeight
	}
	if success {
		topic.WeightedCorrect += weight
	} else {
		topic.WeightedIncorrect += weight
	}
	topic.LastUpdated = now

	if err := s.perf.UpsertTopicStats(ctx, topic); err != nil {
		return domain.NewInternalError("Failed to upsert topic stats", err)
	}
	return nil
}

// RecordSession implements QuizService. After persisting the session it
// recomputes today's progress snapshot.
func (s *quizService) RecordSession(ctx context.Context, score, totalQuestions int) error {
	session := &domain.QuizSession{
		ID:             util.NewULID(),
		Score:          score,
		TotalQuestions: totalQuestions,
		CreatedAt:      time.Now(),
	}
	if err := session.Validate(); err != nil {
		return err
	}
	if err := s.sessions.Append(ctx, session); err != nil {
		return domain.NewInternalError("Failed to append quiz session", err)
	}
	return s.recomputeDailySnapshot(ctx)
}

// recomputeDailySnapshot upserts today's coverage and mastery figures.
func (s *quizService) recomputeDailySnapshot(ctx context.Context) error {
	coverage, err := s.scorer.GlobalCoverage(ctx)
	if err != nil {
		return domain.NewInternalError("Failed to compute global coverage", err)
	}
	mastery, err := s.scorer.GlobalMastery(ctx)
	if err != nil {
		return domain.NewInternalError("Failed to compute global mastery", err)
	}

	snap := &domain.DailySnapshot{
		Day:           time.Now().Format("2006-01-02"),
		TotalCoverage: coverage,
		TotalMastery:  mastery,
	}
	if err := s.snapshots.UpsertDaily(ctx, snap); err != nil {
		return domain.NewInternalError("Failed to upsert daily snapshot", err)
	}
	return nil
}

// EstimatedLevel implements QuizService.
func (s *quizService) EstimatedLevel(ctx context.Context) (domain.Level, error) {
	return s.est.EstimatedLevel(ctx)
}

// LevelMastery implements QuizService.
func (s *quizService) LevelMastery(ctx context.Context, level domain.Level) (float64, error) {
	if !level.Valid() {
		return 0, domain.NewInvalidLevelError(string(level))
	}
	return s.scorer.LevelMastery(ctx, level)
}

// LevelCoverage implements QuizService.
func (s *quizService) LevelCoverage(ctx context.Context, level domain.Level) (float64, error) {
	if !level.Valid() {
		return 0, domain.NewInvalidLevelError(string(level))
	}
	return s.scorer.Coverage(ctx, level)
}

// SustainedSuccessStreak implements QuizService.
func (s *quizService) SustainedSuccessStreak(ctx context.Context, level domain.Level) (int, error) {
	if !level.Valid() {
		return 0, domain.NewInvalidLevelError(string(level))
	}
	return s.est.SustainedStreak(ctx, level)
}

// TopicWeaknesses implements QuizService, weakest topics first.
func (s *quizService) TopicWeaknesses(ctx context.Context) ([]domain.TopicWeakness, error) {
	all, err := s.perf.GetAllTopicStats(ctx)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get topic stats", err)
	}

	weaknesses := make([]domain.TopicWeakness, 0, len(all))
	for _, t := range all {
		if t.WeightedCorrect+t.WeightedIncorrect == 0 {
			continue
		}
		weaknesses = append(weaknesses, domain.TopicWeakness{
			Topic:       t.Topic,
			Level:       t.Level,
			SuccessRate: t.SuccessRate(),
		})
	}
	sort.Slice(weaknesses, func(i, j int) bool {
		if weaknesses[i].SuccessRate != weaknesses[j].SuccessRate {
			return weaknesses[i].SuccessRate < weaknesses[j].SuccessRate
		}
		if weaknesses[i].Level != weaknesses[j].Level {
			return weaknesses[i].Level.Rank() < weaknesses[j].Level.Rank()
		}
		return weaknesses[i].Topic < weaknesses[j].Topic
	})
	return weaknesses, nil
}

// ProgressTimeline implements QuizService.
func (s *quizService) ProgressTimeline(ctx context.Context, from, to string) ([]*domain.DailySnapshot, error) {
	snaps, err := s.snapshots.GetRange(ctx, from, to)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get snapshot range", err)
	}
	return snaps, nil
}

// ClearProgress implements QuizService. Clearing twice is a no-op the second
// time.
func (s *quizService) ClearProgress(ctx context.Context) error {
	if err := s.progress.ClearAll(ctx); err != nil {
		return domain.NewInternalError("Failed to clear progress", err)
	}
	logger.Get().Info("All learner progress cleared")
	return nil
}
