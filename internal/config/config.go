package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload" // Load .env before reading the environment
)

// Config holds the settings for both the API and the web process.
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Web         WebConfig
}

type ServerConfig struct {
	Port           int
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	Username        string
	Password        string
	Name            string
	Schema          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	AutoMigrate     bool
}

type WebConfig struct {
	Port       int
	APIBaseURL string
	APITimeout time.Duration
}

// Load reads the configuration from the environment. Malformed values fall
// back to their defaults; well-formed but unusable values are an error.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 8080),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("IDLE_TIMEOUT", time.Minute),
		},
		Database: DatabaseConfig{
			Host:            getEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:            getEnv("BLUEPRINT_DB_PORT", "5432"),
			Username:        getEnv("BLUEPRINT_DB_USERNAME", "postgres"),
			Password:        getEnv("BLUEPRINT_DB_PASSWORD", ""),
			Name:            getEnv("BLUEPRINT_DB_DATABASE", "tasks"),
			Schema:          getEnv("BLUEPRINT_DB_SCHEMA", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Web: WebConfig{
			Port:       getEnvAsInt("WEB_PORT", 5173),
			APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
			APITimeout: getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := validatePort("PORT", c.Server.Port); err != nil {
		return err
	}
	if err := validatePort("WEB_PORT", c.Web.Port); err != nil {
		return err
	}

	u, err := url.Parse(c.Web.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.Web.APIBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute http(s) URL", c.Web.APIBaseURL)
	}
	return nil
}

func validatePort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s %d is out of range", key, port)
	}
	return nil
}

// DSN builds the PostgreSQL connection string understood by gorm's postgres driver.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host, c.Database.Username, c.Database.Password, c.Database.Name, c.Database.Port, c.Database.SSLMode)
	if c.Database.Schema != "" {
		dsn += " search_path=" + c.Database.Schema
	}
	return dsn
}

func (c *Config) APIAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) WebAddr() string {
	return fmt.Sprintf(":%d", c.Web.Port)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using default %d: %v", key, value, defaultValue, err)
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using default %t: %v", key, value, defaultValue, err)
		return defaultValue
	}
	return boolValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using default %s: %v", key, value, defaultValue, err)
		return defaultValue
	}
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
