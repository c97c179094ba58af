package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	CORSOrigins      string
	DefaultProvider  string
	OpenAIAPIKey     string
	GeminiAPIKey     string
	AnthropicAPIKey  string
	AITimeout        time.Duration
	IngestWorkers    int
	IngestQueueSize  int
	FlashcardTarget  int
	MaxContentLength int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:studyflash.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		CORSOrigins:      envOr("CORS_ORIGINS", "*"),
		DefaultProvider:  envOr("DEFAULT_PROVIDER", "gemini"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AITimeout:        envDurationOr("AI_TIMEOUT", 90*time.Second),
		IngestWorkers:    envIntOr("INGEST_WORKER_COUNT", 2),
		IngestQueueSize:  envIntOr("INGEST_QUEUE_SIZE", 32),
		FlashcardTarget:  envIntOr("FLASHCARD_TARGET", 10),
		MaxContentLength: envIntOr("MAX_CONTENT_LENGTH", 24000),
	}
}

// Validate checks that the configuration is usable at startup.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.DefaultProvider {
	case "openai", "gemini", "anthropic":
	default:
		return fmt.Errorf("DEFAULT_PROVIDER must be one of openai, gemini, anthropic (got %q)", c.DefaultProvider)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	if c.IngestWorkers <= 0 {
		return fmt.Errorf("INGEST_WORKER_COUNT must be positive")
	}
	if c.IngestQueueSize <= 0 {
		return fmt.Errorf("INGEST_QUEUE_SIZE must be positive")
	}
	if c.FlashcardTarget <= 0 {
		return fmt.Errorf("FLASHCARD_TARGET must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
