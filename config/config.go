package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings
type Config struct {
	Port    string
	BaseURL string

	ModelProvider  string
	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	OllamaURL      string
	OllamaModel    string
	ModelTimeout   time.Duration

	JPEGQuality int
	MaxUploadMB int64

	SessionTTL             time.Duration
	SessionCleanupSchedule string

	DatabaseURL string

	GoogleCredentialsPath string
	DriveExportFolderID   string
	ChromePath            string
}

// Model providers
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Load reads settings from the environment and an optional config.yaml in the working directory.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("MODEL_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_MODEL", "models/gemini-1.5-flash")
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llava")
	v.SetDefault("MODEL_TIMEOUT", "0s")
	v.SetDefault("JPEG_QUALITY", 90)
	v.SetDefault("MAX_UPLOAD_MB", 32)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("SESSION_CLEANUP_SCHEDULE", "@every 10m")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Remove leading colon if present (PORT from Render doesn't include it)
	port := strings.TrimPrefix(v.GetString("PORT"), ":")

	cfg := &Config{
		Port:                   port,
		BaseURL:                v.GetString("BASE_URL"),
		ModelProvider:          strings.ToLower(v.GetString("MODEL_PROVIDER")),
		GeminiAPIKey:           v.GetString("GEMINI_API_KEY"),
		GeminiModel:            v.GetString("GEMINI_MODEL"),
		GeminiEndpoint:         v.GetString("GEMINI_ENDPOINT"),
		OllamaURL:              v.GetString("OLLAMA_URL"),
		OllamaModel:            v.GetString("OLLAMA_MODEL"),
		ModelTimeout:           v.GetDuration("MODEL_TIMEOUT"),
		JPEGQuality:            v.GetInt("JPEG_QUALITY"),
		MaxUploadMB:            v.GetInt64("MAX_UPLOAD_MB"),
		SessionTTL:             v.GetDuration("SESSION_TTL"),
		SessionCleanupSchedule: v.GetString("SESSION_CLEANUP_SCHEDULE"),
		DatabaseURL:            databaseURL(v),
		GoogleCredentialsPath:  v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveExportFolderID:    v.GetString("DRIVE_EXPORT_FOLDER_ID"),
		ChromePath:             v.GetString("CHROME_PATH"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make start-up fail later
func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable is not set")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unsupported MODEL_PROVIDER %q (expected %q or %q)", c.ModelProvider, ProviderGemini, ProviderOllama)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// databaseURL returns DATABASE_URL, or builds a connection string from DB_* variables.
// Empty means no database is configured.
func databaseURL(v *viper.Viper) string {
	if connStr := v.GetString("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := v.GetString("DB_HOST")
	user := v.GetString("DB_USER")
	dbname := v.GetString("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, v.GetString("DB_PORT"), user, v.GetString("DB_PASSWORD"), dbname, v.GetString("DB_SSLMODE"))
}
