package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey string
	Model  string
	// Temperature is nil when the backend default should be used.
	Temperature *float32
}

type StorageConfig struct {
	UploadPath    string
	MaxFileSize   int64
	MaxUploadSize int64
}

type WorkerConfig struct {
	Concurrency       int
	ScoringTimeout    time.Duration
	MaxCandidateChars int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

// ConfigurationError reports a required setting that is missing or invalid.
// It is fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in containers; the environment is authoritative.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_matcher"),
		},
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", ""))),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Storage: StorageConfig{
			UploadPath:    getEnv("UPLOAD_PATH", "./static"),
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10<<20),
			MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 50<<20),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 1),
			ScoringTimeout:    getEnvAsDuration("SCORING_TIMEOUT", "2m"),
			MaxCandidateChars: getEnvAsInt("MAX_CANDIDATE_CHARS", 100000),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}

	if raw := getEnv("GEMINI_TEMPERATURE", ""); raw != "" {
		t, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, &ConfigurationError{Key: "GEMINI_TEMPERATURE", Reason: "must be a number"}
		}
		temp := float32(t)
		cfg.Gemini.Temperature = &temp
	}

	if cfg.Worker.Concurrency < 1 {
		cfg.Worker.Concurrency = 1
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return &ConfigurationError{Key: "GOOGLE_API_KEY", Reason: "is not set"}
	}
	if c.Storage.UploadPath == "" {
		return &ConfigurationError{Key: "UPLOAD_PATH", Reason: "must not be empty"}
	}
	if c.Storage.MaxFileSize <= 0 {
		return &ConfigurationError{Key: "MAX_FILE_SIZE", Reason: "must be positive"}
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
