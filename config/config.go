package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the notification bot service
type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Dispatch DispatchConfig
	Session  SessionConfig
	Kafka    KafkaConfig
	Logging  LoggingConfig
	Service  ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// HTTPConfig holds admin API server configuration
type HTTPConfig struct {
	Port           string
	PublishTimeout time.Duration
}

// DispatchConfig controls broadcast fan-out
type DispatchConfig struct {
	Workers     int
	RatePerSec  int
	SendTimeout time.Duration
}

// SessionConfig controls conversation session expiry
type SessionConfig struct {
	TTL          time.Duration
	ReapSchedule string
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables the consumer.
type KafkaConfig struct {
	Brokers       []string
	GroupID       string
	RequestsTopic string
}

// Enabled reports whether Kafka brokers are configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config   *Config
	Telegram *TelegramConfig
	Database *DatabaseConfig
	HTTP     *HTTPConfig
	Dispatch *DispatchConfig
	Session  *SessionConfig
	Kafka    *KafkaConfig
	Logging  *LoggingConfig
	Service  *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:   cfg,
		Telegram: &cfg.Telegram,
		Database: &cfg.Database,
		HTTP:     &cfg.HTTP,
		Dispatch: &cfg.Dispatch,
		Session:  &cfg.Session,
		Kafka:    &cfg.Kafka,
		Logging:  &cfg.Logging,
		Service:  &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "notifier"),
			Password:       getEnv("DATABASE_PASSWORD", "notifier"),
			DBName:         getEnv("DATABASE_NAME", "notifier"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		},
		HTTP: HTTPConfig{
			Port:           getEnv("HTTP_PORT", "8080"),
			PublishTimeout: getEnvDuration("HTTP_PUBLISH_TIMEOUT", 2*time.Minute),
		},
		Dispatch: DispatchConfig{
			Workers:     getEnvInt("DISPATCH_WORKERS", 8),
			RatePerSec:  getEnvInt("DISPATCH_RATE_PER_SEC", 25),
			SendTimeout: getEnvDuration("DISPATCH_SEND_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			TTL:          getEnvDuration("SESSION_TTL", 30*time.Minute),
			ReapSchedule: getEnv("SESSION_REAP_SCHEDULE", "@every 1m"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			GroupID:       getEnv("KAFKA_GROUP_ID", "notification-bot"),
			RequestsTopic: getEnv("KAFKA_REQUESTS_TOPIC", "notifications.requests"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "notification-bot"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("DISPATCH_WORKERS must be positive")
	}

	if c.Dispatch.RatePerSec < 1 {
		return fmt.Errorf("DISPATCH_RATE_PER_SEC must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
