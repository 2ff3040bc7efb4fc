package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gosheet/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Server   ServerConfig
	Grid     GridConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory repository.
type DatabaseConfig struct {
	URL string
}

// AIConfig holds assistant/LLM settings. An empty APIKey disables the assistant.
type AIConfig struct {
	APIKey             string
	BaseURL            string
	Model              string
	Temperature        float64
	MaxTokens          int
	Timeout            time.Duration
	MaxConcurrentChats int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// GridConfig is the minimum grid size shown for a document
type GridConfig struct {
	MinRows int
	MinCols int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: *loadDatabaseConfig(),
		AI:       *loadAIConfig(),
		Server:   *loadServerConfig(),
		Grid:     *loadGridConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// AssistantEnabled reports whether an API key is configured
func (c *Config) AssistantEnabled() bool {
	return c.AI.APIKey != ""
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}
}

func loadAIConfig() *AIConfig {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &AIConfig{
		APIKey:             strings.TrimSpace(apiKey),
		BaseURL:            getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:              getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		Temperature:        getEnvFloatOrDefault("TEMPERATURE", 0.7),
		MaxTokens:          getEnvIntOrDefault("MAX_TOKENS", 0),
		Timeout:            getEnvDurationOrDefault("LLM_TIMEOUT", 180*time.Second),
		MaxConcurrentChats: getEnvIntOrDefault("MAX_CONCURRENT_CHATS", 4),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadGridConfig() *GridConfig {
	return &GridConfig{
		MinRows: getEnvIntOrDefault("GRID_MIN_ROWS", 50),
		MinCols: getEnvIntOrDefault("GRID_MIN_COLS", 26),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Grid.MinRows <= 0 || config.Grid.MinCols <= 0 {
		return errors.ConfigInvalid("grid size must be positive")
	}
	if config.AI.MaxConcurrentChats <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_CHATS must be positive")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT must be positive")
	}
	if config.AI.MaxTokens < 0 {
		return errors.ConfigInvalid("MAX_TOKENS cannot be negative")
	}
	if config.AssistantEnabled() && config.AI.Model == "" {
		return errors.ConfigInvalid("LLM_MODEL is required when an API key is set")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
