package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Campaign service backends
const (
	BackendHTTP     = "http"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Campaigns Campaigns `yaml:"campaigns"`
	Database  Database  `yaml:"database"`
	Refresher Refresher `yaml:"refresher"`
	S3        S3        `yaml:"s3"`
	Board     Board     `yaml:"board"`
}

// Server holds HTTP server configuration
type Server struct {
	Host           string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" env-default:"25s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Campaigns holds the account/campaign service configuration
type Campaigns struct {
	// Backend is "http" (remote service) or "postgres" (dashboard tables)
	Backend  string        `yaml:"backend" env:"CAMPAIGNS_BACKEND" env-default:"http"`
	BaseURL  string        `yaml:"base_url" env:"CAMPAIGNS_BASE_URL" env-default:"http://localhost:8000"`
	APIToken string        `yaml:"api_token" env:"CAMPAIGNS_API_TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"CAMPAIGNS_TIMEOUT" env-default:"15s"`
}

// Database holds database configuration
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	// Connection pool settings
	MaxOpenConns int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`
}

// Refresher holds the idle board re-sync configuration
type Refresher struct {
	Enabled     bool          `yaml:"enabled" env:"REFRESHER_ENABLED" env-default:"false"`
	Interval    time.Duration `yaml:"interval" env:"REFRESHER_INTERVAL" env-default:"1m"`
	Concurrency int           `yaml:"concurrency" env:"REFRESHER_CONCURRENCY" env-default:"4"`
}

// S3 holds the rollback incident archive configuration
type S3 struct {
	Enabled         bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"board-incidents"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Prefix          string `yaml:"prefix" env:"S3_PREFIX" env-default:"rollbacks"`
}

// Board holds board defaults
type Board struct {
	DefaultPlatform string        `yaml:"default_platform" env:"BOARD_DEFAULT_PLATFORM" env-default:"instagram"`
	SessionTTL      time.Duration `yaml:"session_ttl" env:"BOARD_SESSION_TTL" env-default:"2h"`
}

// MustLoad loads configuration from environment and panics on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	cfg, err := LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// LoadFromEnv reads configuration from the process environment only
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
