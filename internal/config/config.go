package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultPollInterval = 5 * time.Minute
	DefaultMaxBatchSize = 2000
)

type Config struct {
	Env string

	BaseURL  string `validate:"required,url"`
	PathMask string `validate:"required"`

	PollIntervalSec int `validate:"gte=1"`
	MaxBatchSize    int `validate:"gte=1,lte=100000"`
	FileWorkers     int `validate:"gte=1,lte=64"`
	StrictHeaders   bool
	ArchiveDirName  string `validate:"required,excludesall=/\\"`

	UploadTimeoutMs    int     `validate:"gte=0"`
	UploadRateLimitRPS float64 `validate:"gte=0"`

	DBPath string

	LogLevel  string `validate:"oneof=trace debug info warn warning error"`
	LogFormat string `validate:"oneof=console json"`
}

// Load reads the environment, preferring .env.dev when APP_ENV=development.
// Variables already set in the process environment win over the file.
func Load() (Config, error) {
	env := strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "production")))
	filename := ".env"
	if env == "development" {
		filename = ".env.dev"
	}
	_ = godotenv.Load(filename)

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env: env,

		BaseURL:  getEnv("BASE_URL", ""),
		PathMask: getEnv("PATH_MASK", ""),

		PollIntervalSec: getEnvInt("POLL_INTERVAL_SEC", int(DefaultPollInterval/time.Second)),
		MaxBatchSize:    getEnvInt("MAX_BATCH_SIZE", DefaultMaxBatchSize),
		FileWorkers:     getEnvInt("FILE_WORKERS", 1),
		StrictHeaders:   getEnvBool("STRICT_HEADERS", false),
		ArchiveDirName:  getEnv("ARCHIVE_DIR_NAME", "parsed"),

		UploadTimeoutMs:    getEnvInt("UPLOAD_TIMEOUT_MS", 30000),
		UploadRateLimitRPS: getEnvFloat("UPLOAD_RATE_LIMIT_RPS", 0),

		DBPath: getEnv("DB_PATH", filepath.Join(cwd, "data", "journal.db")),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}

	return cfg, nil
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

func (c Config) UploadTimeout() time.Duration {
	return time.Duration(c.UploadTimeoutMs) * time.Millisecond
}

// Validate checks the fields the ingest loop cannot start without.
func (c Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", envName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

var envNames = map[string]string{
	"BaseURL":            "BASE_URL",
	"PathMask":           "PATH_MASK",
	"PollIntervalSec":    "POLL_INTERVAL_SEC",
	"MaxBatchSize":       "MAX_BATCH_SIZE",
	"FileWorkers":        "FILE_WORKERS",
	"ArchiveDirName":     "ARCHIVE_DIR_NAME",
	"UploadTimeoutMs":    "UPLOAD_TIMEOUT_MS",
	"UploadRateLimitRPS": "UPLOAD_RATE_LIMIT_RPS",
	"LogLevel":           "LOG_LEVEL",
	"LogFormat":          "LOG_FORMAT",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
