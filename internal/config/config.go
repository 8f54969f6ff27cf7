// Package config provides configuration loading and validation for the
// healthbot application. Values come from defaults, an optional YAML file,
// and BOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components:
// logging, Telegram transport, storage, external APIs, and scheduling.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Oura      OuraConfig      `mapstructure:"oura"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls the slog output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot transport settings. AllowedUserID restricts
// the bot to a single user; zero disables the check.
type TelegramConfig struct {
	Token         string `mapstructure:"token" validate:"required"`
	AllowedUserID int64  `mapstructure:"allowed_user_id"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// OpenAIConfig holds the voice transcription API settings.
type OpenAIConfig struct {
	Token   string        `mapstructure:"token"   validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
}

// OuraConfig holds the ring API settings.
type OuraConfig struct {
	Token   string        `mapstructure:"token"   validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s,max=10m"`
}

// GeminiConfig holds the analysis model settings.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key" validate:"required"`
	ModelName         string  `mapstructure:"model_name"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=300"`
}

// TaskConfig enables and schedules a single recurring task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig configures the recurring tasks. UTCOffsetHours fixes the
// local day boundary used for "today"/"yesterday" calculations.
type SchedulerConfig struct {
	UTCOffsetHours int                   `mapstructure:"utc_offset_hours" validate:"min=-12,max=14"`
	Tasks          map[string]TaskConfig `mapstructure:"tasks"`
}

// Location returns the fixed time zone the bot treats as local.
func (c *SchedulerConfig) Location() *time.Location {
	if c.UTCOffsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}

// LoadConfig reads configuration from the given YAML file (optional) and
// BOT_* environment variables, applies defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		// Missing config file is fine, environment and defaults still apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Secrets default to empty so the keys are known to viper and can be
	// filled from BOT_* environment variables.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.allowed_user_id", 0)
	v.SetDefault("openai.token", "")
	v.SetDefault("oura.token", "")
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("database.path", "data/health.db")

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "whisper-1")
	v.SetDefault("openai.timeout", 2*time.Minute)

	v.SetDefault("oura.base_url", "https://api.ouraring.com/v2/usercollection")
	v.SetDefault("oura.timeout", 30*time.Second)

	v.SetDefault("gemini.model_name", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 1.0)
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)

	v.SetDefault("scheduler.utc_offset_hours", 4)
	v.SetDefault("scheduler.tasks", map[string]TaskConfig{
		"oura_daily_pull":    {Enabled: true, Schedule: "0 14 * * *"},
		"checklist_reminder": {Enabled: true, Schedule: "50 20 * * *"},
		"sql_maintenance":    {Enabled: true, Schedule: "0 4 * * 0"},
	})
}
