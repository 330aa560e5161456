package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnitalian/internal/config"
	"learnitalian/internal/database"
	"learnitalian/internal/estimator"
	"learnitalian/internal/handler"
	"learnitalian/internal/logger"
	"learnitalian/internal/middleware"
	"learnitalian/internal/repository"
	"learnitalian/internal/scoring"
	"learnitalian/internal/selection"
	"learnitalian/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(logger.Config{Level: cfg.Logger.Level, Env: cfg.Logger.Env}); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database and apply migrations
	db, err := database.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err), zap.String("path", cfg.Database.Path))
	}
	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	appLogger.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Initialize repositories
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	performanceRepository := repository.NewPerformanceDatabaseAdapter(db)
	eventRepository := repository.NewAnswerEventDatabaseAdapter(db)
	sessionRepository := repository.NewSessionDatabaseAdapter(db)
	snapshotRepository := repository.NewSnapshotDatabaseAdapter(db)
	progressRepository := repository.NewProgressDatabaseAdapter(db)

	// Initialize the scheduling engine
	seed := cfg.Engine.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	scorer := scoring.NewScorer(questionRepository, performanceRepository)
	est := estimator.NewEstimator(eventRepository, questionRepository, scorer)
	engine := selection.NewEngine(
		questionRepository,
		performanceRepository,
		eventRepository,
		sessionRepository,
		est,
		scorer,
		selection.Config{
			PerTopicCap:   cfg.Engine.PerTopicCap,
			RecencyWindow: cfg.Engine.RecencyWindow,
		},
		rng,
	)

	// Initialize services
	quizService := service.NewQuizService(
		questionRepository,
		performanceRepository,
		eventRepository,
		sessionRepository,
		snapshotRepository,
		progressRepository,
		engine,
		scorer,
		est,
	)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	progressHandler := handler.NewProgressHandler(quizService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	quizGroup := apiGroup.Group("/quiz")
	quizGroup.Get("/next", quizHandler.GetNextQuestions)
	quizGroup.Post("/grade", quizHandler.GradeAnswer)
	quizGroup.Post("/answer", quizHandler.RecordAnswer)
	quizGroup.Post("/session", quizHandler.RecordSession)

	progressGroup := apiGroup.Group("/progress")
	progressGroup.Get("/summary", progressHandler.GetSummary)
	progressGroup.Get("/timeline", progressHandler.GetTimeline)
	progressGroup.Get("/weaknesses", progressHandler.GetWeaknesses)
	apiGroup.Delete("/progress", progressHandler.ClearProgress)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		appLogger.Error("Failed to close database", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
