package handler

import (
	"time"

	"learnitalian/internal/domain"
	"learnitalian/internal/dto"
	"learnitalian/internal/service"

	"github.com/gofiber/fiber/v2"
)

// defaultTimelineSpan bounds the timeline query when no range is given.
const defaultTimelineSpan = 30 * 24 * time.Hour

// ProgressHandler handles progress-related HTTP requests
type ProgressHandler struct {
	service service.QuizService
}

// NewProgressHandler creates a new ProgressHandler instance
func NewProgressHandler(service service.QuizService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// GetSummary handles GET /api/progress/summary. It reports the estimated
// level plus coverage, mastery and streak for every content level.
func (h *ProgressHandler) GetSummary(c *fiber.Ctx) error {
	estimated, err := h.service.EstimatedLevel(c.Context())
	if err != nil {
		return err
	}

	levels := make([]dto.LevelProgress, 0, len(domain.ContentLevels))
	for _, level := range domain.ContentLevels {
		coverage, err := h.service.LevelCoverage(c.Context(), level)
		if err != nil {
			return err
		}
		mastery, err := h.service.LevelMastery(c.Context(), level)
		if err != nil {
			return err
		}
		streak, err := h.service.SustainedSuccessStreak(c.Context(), level)
		if err != nil {
			return err
		}
		levels = append(levels, dto.LevelProgress{
			Level:    string(level),
			Coverage: coverage,
			Mastery:  mastery,
			Streak:   streak,
		})
	}

	return c.JSON(dto.ProgressSummaryResponse{
		EstimatedLevel: string(estimated),
		Levels:         levels,
	})
}

// GetTimeline handles GET /api/progress/timeline. Query parameters from
// and to are YYYY-MM-DD; the default range is the last 30 days.
func (h *ProgressHandler) GetTimeline(c *fiber.Ctx) error {
	now := time.Now()
	from := c.Query("from", now.Add(-defaultTimelineSpan).Format("2006-01-02"))
	to := c.Query("to", now.Format("2006-01-02"))

	if _, err := time.Parse("2006-01-02", from); err != nil {
		return domain.NewInvalidInputError("from must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return domain.NewInvalidInputError("to must be formatted as YYYY-MM-DD")
	}

	snaps, err := h.service.ProgressTimeline(c.Context(), from, to)
	if err != nil {
		return err
	}

	entries := make([]dto.TimelineEntry, 0, len(snaps))
	for _, snap := range snaps {
		entries = append(entries, dto.TimelineEntry{
			Day:           snap.Day,
			TotalCoverage: snap.TotalCoverage,
			TotalMastery:  snap.TotalMastery,
		})
	}
	return c.JSON(entries)
}

// GetWeaknesses handles GET /api/progress/weaknesses, weakest topic first.
func (h *ProgressHandler) GetWeaknesses(c *fiber.Ctx) error {
	weaknesses, err := h.service.TopicWeaknesses(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.TopicWeaknessResponse, 0, len(weaknesses))
	for _, w := range weaknesses {
		out = append(out, dto.TopicWeaknessResponse{
			Topic:       w.Topic,
			Level:       string(w.Level),
			SuccessRate: w.SuccessRate,
		})
	}
	return c.JSON(out)
}

// ClearProgress handles DELETE /api/progress. The question catalog
// survives; every trace of learner history is removed.
func (h *ProgressHandler) ClearProgress(c *fiber.Ctx) error {
	if err := h.service.ClearProgress(c.Context()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
