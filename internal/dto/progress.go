package dto

// ProgressSummaryResponse represents the overall progress report
type ProgressSummaryResponse struct {
	EstimatedLevel string          `json:"estimated_level"`
	Levels         []LevelProgress `json:"levels"`
}

// LevelProgress holds the per-level figures inside the summary
type LevelProgress struct {
	Level    string  `json:"level"`
	Coverage float64 `json:"coverage"`
	Mastery  float64 `json:"mastery"`
	Streak   int     `json:"streak"`
}

// TimelineEntry represents one day of the progress timeline
type TimelineEntry struct {
	Day           string  `json:"day"`
	TotalCoverage float64 `json:"total_coverage"`
	TotalMastery  float64 `json:"total_mastery"`
}

// TopicWeaknessResponse represents one weak topic in the API response
type TopicWeaknessResponse struct {
	Topic       string  `json:"topic"`
	Level       string  `json:"level"`
	SuccessRate float64 `json:"success_rate"`
}
