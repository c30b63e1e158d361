package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the application.
type Config struct {
	// LLM
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string
	GroqURL      string
	Temperature  float32

	DatabasePath   string
	LogLevel       string
	CoverLookupURL string

	// Ghost publishing (optional)
	GhostURL      string
	GhostAdminKey string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	SessionTTL             time.Duration
	Port                   string
}

// fileConfig is the optional YAML file pointed to by TRIPLY_CONFIG. It only
// carries non-secret settings; API keys come from the environment.
type fileConfig struct {
	Provider       string   `yaml:"provider"`
	GeminiModel    string   `yaml:"gemini_model"`
	GroqModel      string   `yaml:"groq_model"`
	Temperature    *float32 `yaml:"temperature"`
	DatabasePath   string   `yaml:"database_path"`
	LogLevel       string   `yaml:"log_level"`
	CoverLookupURL string   `yaml:"cover_lookup_url"`
	GhostURL       string   `yaml:"ghost_url"`
	SessionTTL     string   `yaml:"session_ttl"`
	Port           string   `yaml:"port"`
}

func defaults() *Config {
	return &Config{
		Provider:       "gemini",
		Temperature:    0.7,
		DatabasePath:   "data/triply.db",
		LogLevel:       "info",
		CoverLookupURL: "https://en.wikipedia.org/wiki/",
		SessionTTL:     24 * time.Hour,
		Port:           "8080",
	}
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present, and
// TRIPLY_CONFIG may point to a YAML file whose values the environment overrides.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("TRIPLY_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	setString(&cfg.Provider, "TRIPLY_LLM_PROVIDER")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.GeminiModel, "GEMINI_MODEL")
	setString(&cfg.GroqAPIKey, "GROQ_API_KEY")
	setString(&cfg.GroqModel, "GROQ_MODEL")
	setString(&cfg.GroqURL, "GROQ_API_URL")
	setString(&cfg.DatabasePath, "TRIPLY_DB_PATH")
	setString(&cfg.LogLevel, "TRIPLY_LOG_LEVEL")
	setString(&cfg.CoverLookupURL, "TRIPLY_COVER_URL")
	setString(&cfg.GhostURL, "GHOST_API_URL")
	setString(&cfg.GhostAdminKey, "GHOST_ADMIN_API_KEY")
	setString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.TelegramWebhookURL, "TELEGRAM_WEBHOOK_URL")
	setString(&cfg.Port, "PORT")

	if v := os.Getenv("TRIPLY_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid TRIPLY_TEMPERATURE %q: %w", v, err)
		}
		cfg.Temperature = float32(f)
	}
	if v := os.Getenv("TRIPLY_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRIPLY_SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = d
	}
	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		ids, err := parseIDs(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}
	if v := os.Getenv("TELEGRAM_ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported TRIPLY_LLM_PROVIDER %q", cfg.Provider)
	}

	return cfg, nil
}

// GhostEnabled reports whether trips can be published to Ghost.
func (c *Config) GhostEnabled() bool {
	return c.GhostURL != "" && c.GhostAdminKey != ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIfNotEmpty(&c.Provider, fc.Provider)
	setIfNotEmpty(&c.GeminiModel, fc.GeminiModel)
	setIfNotEmpty(&c.GroqModel, fc.GroqModel)
	setIfNotEmpty(&c.DatabasePath, fc.DatabasePath)
	setIfNotEmpty(&c.LogLevel, fc.LogLevel)
	setIfNotEmpty(&c.CoverLookupURL, fc.CoverLookupURL)
	setIfNotEmpty(&c.GhostURL, fc.GhostURL)
	setIfNotEmpty(&c.Port, fc.Port)
	if fc.Temperature != nil {
		c.Temperature = *fc.Temperature
	}
	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("invalid session_ttl %q in %s: %w", fc.SessionTTL, path, err)
		}
		c.SessionTTL = d
	}
	return nil
}

func setString(dst *string, key string) {
	setIfNotEmpty(dst, os.Getenv(key))
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
