package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Path string // SQLite database file
}

// EngineConfig carries the scheduling engine tunables.
type EngineConfig struct {
	RecencyWindow time.Duration
	PerTopicCap   int
	RandomSeed    int64 // 0 means seed from the clock
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LoadConfig reads config.yaml plus environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("database.path", defaultDBPath())
	viper.SetDefault("engine.recency_window_hours", 24)
	viper.SetDefault("engine.per_topic_cap", 3)
	viper.SetDefault("engine.random_seed", 0)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Engine: EngineConfig{
			RecencyWindow: viper.GetDuration("engine.recency_window_hours") * time.Hour,
			PerTopicCap:   viper.GetInt("engine.per_topic_cap"),
			RandomSeed:    viper.GetInt64("engine.random_seed"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if path := os.Getenv("LEARNITALIAN_DB"); path != "" {
		config.Database.Path = path
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}

	return config, nil
}

// defaultDBPath resolves the database file under XDG data home, falling back
// to ~/.local/share.
func defaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "learnitalian.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "learnitalian", "learnitalian.db")
}
