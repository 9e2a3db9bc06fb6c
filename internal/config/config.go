package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Recommend  RecommendConfig
	Chat       ChatConfig
	OpenAI     OpenAIConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// RecommendConfig holds recommendation and ranking configuration
type RecommendConfig struct {
	TopN          int
	DistanceMinKm float64
	DistanceMaxKm float64
}

// ChatConfig holds conversation mediator configuration
type ChatConfig struct {
	MaxUserTurns   int
	MaxRetries     int
	RetryBaseDelay int // seconds, doubled on each retry
	HistoryLimit   int // transcript messages sent to the assistant per turn
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatTopP        float64
	ChatMaxTokens   int
	Timeout         int
	Enabled         bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "homematch"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Recommend: RecommendConfig{
			TopN:          getEnvAsInt("RECOMMEND_TOP_N", 3),
			DistanceMinKm: getEnvAsFloat("RECOMMEND_DISTANCE_MIN_KM", 2),
			DistanceMaxKm: getEnvAsFloat("RECOMMEND_DISTANCE_MAX_KM", 5),
		},
		Chat: ChatConfig{
			MaxUserTurns:   getEnvAsInt("CHAT_MAX_USER_TURNS", 30),
			MaxRetries:     getEnvAsInt("CHAT_MAX_RETRIES", 3),
			RetryBaseDelay: getEnvAsInt("CHAT_RETRY_BASE_DELAY", 1),
			HistoryLimit:   getEnvAsInt("CHAT_HISTORY_LIMIT", 40),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			APIBase:         getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:       getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature: getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatTopP:        getEnvAsFloat("OPENAI_CHAT_TOP_P", 0.9),
			ChatMaxTokens:   getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 1000),
			Timeout:         getEnvAsInt("OPENAI_TIMEOUT", 30),
			Enabled:         getEnv("OPENAI_API_KEY", "") != "",
		},
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
