package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DBPath       string
	LogLevel     string
	QuestionsDir string

	ImportWorkerCount int
	ImportQueueSize   int

	// Scheduler tuning. The exact thresholds and ease deltas are
	// configuration, not constants; defaults follow the SM-2 family.
	WeakThreshold       int
	MasteredThreshold   int
	EaseIncrement       float64
	EaseDecrement       float64
	MinEase             float64
	MaxEase             float64
	ExamIncludeMastered bool

	// Per-question time estimates used for exam time budgeting.
	MultipleChoiceSeconds int
	TextSeconds           int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:quizpro.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		QuestionsDir:          envOr("QUESTIONS_DIR", "data/questions"),
		ImportWorkerCount:     envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:       envIntOr("IMPORT_QUEUE_SIZE", 32),
		WeakThreshold:         envIntOr("WEAK_THRESHOLD", 2),
		MasteredThreshold:     envIntOr("MASTERED_THRESHOLD", 5),
		EaseIncrement:         envFloatOr("EASE_INCREMENT", 0.1),
		EaseDecrement:         envFloatOr("EASE_DECREMENT", 0.2),
		MinEase:               envFloatOr("MIN_EASE", 1.3),
		MaxEase:               envFloatOr("MAX_EASE", 3.0),
		ExamIncludeMastered:   envBoolOr("EXAM_INCLUDE_MASTERED", false),
		MultipleChoiceSeconds: envIntOr("MC_SECONDS", 30),
		TextSeconds:           envIntOr("TEXT_SECONDS", 90),
	}
}

// Validate checks the configuration for values that would break the
// scheduler or the server at runtime. All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.ImportWorkerCount <= 0 {
		problems = append(problems, "IMPORT_WORKER_COUNT must be positive")
	}
	if c.ImportQueueSize <= 0 {
		problems = append(problems, "IMPORT_QUEUE_SIZE must be positive")
	}
	if c.WeakThreshold < 1 {
		problems = append(problems, "WEAK_THRESHOLD must be at least 1")
	}
	if c.MasteredThreshold < 1 {
		problems = append(problems, "MASTERED_THRESHOLD must be at least 1")
	}
	if c.MinEase <= 0 || c.MaxEase < c.MinEase {
		problems = append(problems, "MIN_EASE/MAX_EASE must satisfy 0 < MIN_EASE <= MAX_EASE")
	}
	if c.EaseIncrement < 0 || c.EaseDecrement < 0 {
		problems = append(problems, "EASE_INCREMENT and EASE_DECREMENT must not be negative")
	}
	if c.MultipleChoiceSeconds <= 0 || c.TextSeconds <= 0 {
		problems = append(problems, "MC_SECONDS and TEXT_SECONDS must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
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

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
