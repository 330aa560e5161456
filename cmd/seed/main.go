package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"learnitalian/internal/config"
	"learnitalian/internal/database"
	"learnitalian/internal/domain"
	"learnitalian/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const defaultSeedPath = "configs/seed_data/questions.json"

// seedQuestion mirrors one entry of the question catalog JSON file.
type seedQuestion struct {
	ID               string `json:"id"`
	Level            string `json:"level"`
	Topic            string `json:"topic"`
	Prompt           string `json:"prompt"`
	Translation      string `json:"translation"`
	OptionA          string `json:"option_a"`
	OptionB          string `json:"option_b"`
	OptionC          string `json:"option_c"`
	OptionD          string `json:"option_d"`
	CorrectOption    string `json:"correct_option"`
	Explanation      string `json:"explanation"`
	Hint             string `json:"hint"`
	AlternateAnswers string `json:"alternate_answers"`
	ResourceLink     string `json:"resource_link"`
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(logger.Config{Level: cfg.Logger.Level, Env: cfg.Logger.Env}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	seedPath := defaultSeedPath
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}

	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	log.Info("Loading question catalog", zap.String("path", seedPath))
	raw, err := os.ReadFile(seedPath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", seedPath), zap.Error(err))
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}

	inserted, err := seedQuestions(ctx, db, seeds)
	if err != nil {
		log.Fatal("Seeding failed, transaction rolled back", zap.Error(err))
	}
	log.Info("Question catalog seeded",
		zap.Int("loaded", len(seeds)),
		zap.Int("inserted", inserted),
	)
}

// seedQuestions validates and inserts the catalog in one transaction.
// Existing question IDs are skipped, so re-running the seed is safe.
func seedQuestions(ctx context.Context, db *sqlx.DB, seeds []seedQuestion) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT OR IGNORE INTO questions
	(id, level, topic, prompt, translation, option_a, option_b, option_c, option_d,
	 correct_option, explanation, hint, alternate_answers, resource_link)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	inserted := 0
	for _, s := range seeds {
		level, err := domain.ParseLevel(s.Level)
		if err != nil {
			return 0, fmt.Errorf("question %s: %w", s.ID, err)
		}
		q := &domain.Question{
			ID:               s.ID,
			Level:            level,
			Topic:            s.Topic,
			Prompt:           s.Prompt,
			Translation:      s.Translation,
			OptionA:          s.OptionA,
			OptionB:          s.OptionB,
			OptionC:          s.OptionC,
			OptionD:          s.OptionD,
			CorrectOption:    s.CorrectOption,
			Explanation:      s.Explanation,
			Hint:             s.Hint,
			AlternateAnswers: s.AlternateAnswers,
			ResourceLink:     s.ResourceLink,
		}
		if err := q.Validate(); err != nil {
			return 0, fmt.Errorf("question %s: %w", s.ID, err)
		}

		res, err := tx.ExecContext(ctx, query,
			q.ID, string(q.Level), q.Topic, q.Prompt, q.Translation,
			q.OptionA, q.OptionB, q.OptionC, q.OptionD,
			q.CorrectOption, q.Explanation, q.Hint, q.AlternateAnswers, q.ResourceLink)
		if err != nil {
			return 0, fmt.Errorf("failed to insert question %s: %w", q.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return inserted, nil
}
