package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bubi/quizpro/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                  ":8080",
		DBPath:                "test.db",
		LogLevel:              "INFO",
		QuestionsDir:          "data/questions",
		ImportWorkerCount:     2,
		ImportQueueSize:       32,
		WeakThreshold:         2,
		MasteredThreshold:     5,
		EaseIncrement:         0.1,
		EaseDecrement:         0.2,
		MinEase:               1.3,
		MaxEase:               3.0,
		MultipleChoiceSeconds: 30,
		TextSeconds:           90,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "LOUD"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_LowercaseLogLevelAccepted(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"

	assert.NoError(t, cfg.Validate())
}

func TestValidate_EaseBounds(t *testing.T) {
	tests := []struct {
		name    string
		minEase float64
		maxEase float64
		wantErr bool
	}{
		{name: "valid bounds", minEase: 1.3, maxEase: 3.0, wantErr: false},
		{name: "max below min", minEase: 2.5, maxEase: 1.3, wantErr: true},
		{name: "zero min", minEase: 0, maxEase: 3.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.MinEase = tt.minEase
			cfg.MaxEase = tt.maxEase

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "MIN_EASE")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidThresholds(t *testing.T) {
	cfg := validConfig()
	cfg.WeakThreshold = 0
	cfg.MasteredThreshold = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEAK_THRESHOLD")
	assert.Contains(t, err.Error(), "MASTERED_THRESHOLD")
}

func TestValidate_InvalidWorkerCounts(t *testing.T) {
	cfg := validConfig()
	cfg.ImportWorkerCount = 0
	cfg.ImportQueueSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMPORT_WORKER_COUNT")
	assert.Contains(t, err.Error(), "IMPORT_QUEUE_SIZE")
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("WEAK_THRESHOLD")
	os.Unsetenv("MASTERED_THRESHOLD")

	cfg := config.Load()

	assert.Equal(t, 2, cfg.WeakThreshold)
	assert.Equal(t, 5, cfg.MasteredThreshold)
	assert.Equal(t, 1.3, cfg.MinEase)
	assert.Equal(t, 3.0, cfg.MaxEase)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	originalAddr := os.Getenv("ADDR")
	originalThreshold := os.Getenv("WEAK_THRESHOLD")

	defer func() {
		if originalAddr != "" {
			os.Setenv("ADDR", originalAddr)
		} else {
			os.Unsetenv("ADDR")
		}
		if originalThreshold != "" {
			os.Setenv("WEAK_THRESHOLD", originalThreshold)
		} else {
			os.Unsetenv("WEAK_THRESHOLD")
		}
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("WEAK_THRESHOLD", "3")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 3, cfg.WeakThreshold)
}
