package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration.
// Loaded once at process start and immutable thereafter.
type Config struct {
	Server        ServerConfig
	OBP           OBPConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// OBPConfig holds the Open Bank Project upstream configuration
type OBPConfig struct {
	BaseURL        string
	APIVersion     string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Auth           OBPAuthConfig
}

// OBPAuthConfig holds the application-level DirectLogin credentials used
// for calls not made on behalf of a specific end user.
type OBPAuthConfig struct {
	Username    string
	Password    string
	ConsumerKey string
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env file if it exists (.env when run from the repo root)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OBP: OBPConfig{
			BaseURL:        getEnv("OBP_BASE_URL", "https://apisandbox.openbankproject.com"),
			APIVersion:     getEnv("OBP_API_VERSION", "v5.1.0"),
			ConnectTimeout: getEnvAsDuration("OBP_CONNECT_TIMEOUT", 5*time.Second),
			ReadTimeout:    getEnvAsDuration("OBP_READ_TIMEOUT", 30*time.Second),
			Auth: OBPAuthConfig{
				Username:    getEnv("OBP_USERNAME", ""),
				Password:    getEnv("OBP_PASSWORD", ""),
				ConsumerKey: getEnv("OBP_CONSUMER_KEY", ""),
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.OBP.BaseURL == "" {
		return fmt.Errorf("OBP base URL is required")
	}
	if c.OBP.APIVersion == "" {
		return fmt.Errorf("OBP API version is required")
	}

	// The consumer key signs every DirectLogin attempt; without it no
	// upstream authentication can succeed.
	if c.IsProduction() {
		if c.OBP.Auth.ConsumerKey == "" {
			return fmt.Errorf("OBP consumer key is required in production")
		}
		if c.OBP.Auth.Username == "" || c.OBP.Auth.Password == "" {
			return fmt.Errorf("OBP service credentials are required in production")
		}
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
