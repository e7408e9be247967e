package main

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL string
	SourcePath  string
	FactsPath   string
	BatchSize   int
	LogLevel    string
	LogFormat   string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	// DATABASE_URL is validated by newApp; offline commands run without it.
	dsn := os.Getenv("DATABASE_URL")

	batchSize := 0
	if raw := os.Getenv("BATCH_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, errors.New("BATCH_SIZE must be a positive integer")
		}
		batchSize = n
	}

	return Config{
		DatabaseURL: dsn,
		SourcePath:  envOrDefault("SOURCE_CSV", "data/show-archive.csv"),
		FactsPath:   envOrDefault("FACTS_OUT", "headlinerFacts.json"),
		BatchSize:   batchSize,
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
