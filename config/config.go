package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server settings
	ServerPort   string        `json:"server_port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Debug        bool          `json:"debug"`

	// Application paths
	LogDir string `json:"log_dir"`

	// Application version
	Version string `json:"version"`

	// Request and shutdown timeouts
	RequestTimeout  time.Duration `json:"request_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`

	// CORS Configuration
	CORS CORSConfig `json:"cors"`

	// Inbound rate limiting
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// Per-user daily quota
	Quota QuotaConfig `json:"quota"`

	// Batch pipeline settings
	Batch BatchConfig `json:"batch"`

	// Summary engine settings
	Summarize SummarizeConfig `json:"summarize"`

	// Resolver settings
	YouTube YouTubeConfig `json:"youtube"`

	// Summary text export
	Export ExportConfig `json:"export"`
}

type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute"`
	BurstSize         int  `json:"burst_size"`
}

type DatabaseConfig struct {
	Path               string        `json:"path"`
	MaxConnections     int           `json:"max_connections"`
	MaxIdleConnections int           `json:"max_idle_connections"`
	ConnMaxLifetime    time.Duration `json:"conn_max_lifetime"`
}

type QuotaConfig struct {
	DailyLimit int `json:"daily_limit"`
}

type BatchConfig struct {
	MaxConcurrent int           `json:"max_concurrent"`
	ItemTimeout   time.Duration `json:"item_timeout"`
}

type SummarizeConfig struct {
	APIKey         string        `json:"-"`
	Model          string        `json:"model"`
	RetryAttempts  int           `json:"retry_attempts"`
	BackoffBase    time.Duration `json:"backoff_base"`
	RequestTimeout time.Duration `json:"request_timeout"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	Burst          int           `json:"burst"`
	MinWords       int           `json:"min_words"`
}

type YouTubeConfig struct {
	APIKey string `json:"-"`
}

type ExportConfig struct {
	Enabled   bool   `json:"enabled"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Server settings
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		Debug:        getEnvAsBool("DEBUG", false),

		// Application paths
		LogDir: getEnv("LOG_DIR", "/var/log/ytbrief"),

		// Application version
		Version: getEnv("VERSION", "1.0.0"),

		// Request and shutdown timeouts
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Minute),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		// CORS Configuration
		CORS: CORSConfig{
			Enabled:        getEnvAsBool("CORS_ENABLED", true),
			AllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsStringSlice(
				"CORS_ALLOWED_METHODS",
				[]string{"GET", "POST", "OPTIONS"},
			),
			AllowedHeaders:   getEnvAsStringSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
			ExposedHeaders:   getEnvAsStringSlice("CORS_EXPOSED_HEADERS", []string{}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},

		// Inbound rate limiting
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
		},

		// Database
		Database: DatabaseConfig{
			Path:               getEnv("DB_PATH", "/var/lib/ytbrief/data.db"),
			MaxConnections:     getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Quota
		Quota: QuotaConfig{
			DailyLimit: getEnvAsInt("USER_DAILY_LIMIT", 20),
		},

		// Batch pipeline
		Batch: BatchConfig{
			MaxConcurrent: getEnvAsInt("BATCH_MAX_CONCURRENT", 4),
			ItemTimeout:   getEnvAsDuration("BATCH_ITEM_TIMEOUT", 5*time.Minute),
		},

		// Summary engine
		Summarize: SummarizeConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("SUMMARY_MODEL", "gpt-4o-mini"),
			RetryAttempts:  getEnvAsInt("SUMMARY_RETRY_ATTEMPTS", 3),
			BackoffBase:    getEnvAsDuration("SUMMARY_BACKOFF_BASE", 2*time.Second),
			RequestTimeout: getEnvAsDuration("SUMMARY_REQUEST_TIMEOUT", 2*time.Minute),
			RequestsPerSec: getEnvAsFloat("SUMMARY_UPSTREAM_RPS", 1),
			Burst:          getEnvAsInt("SUMMARY_UPSTREAM_BURST", 2),
			MinWords:       getEnvAsInt("SUMMARY_MIN_WORDS", 25),
		},

		// Resolver
		YouTube: YouTubeConfig{
			APIKey: getEnv("YOUTUBE_API_KEY", ""),
		},

		// Export
		Export: ExportConfig{
			Enabled:   getEnvAsBool("EXPORT_ENABLED", false),
			AccessKey: getEnv("EXPORT_ACCESS_KEY", ""),
			SecretKey: getEnv("EXPORT_SECRET_KEY", ""),
			Region:    getEnv("EXPORT_REGION", "us-east-1"),
			Endpoint:  getEnv("EXPORT_ENDPOINT", ""),
			Bucket:    getEnv("EXPORT_BUCKET", ""),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatePaths(c); err != nil {
		return err
	}

	if err := validateTimeouts(c); err != nil {
		return err
	}

	if err := validatePipeline(c); err != nil {
		return err
	}

	return nil
}

func validatePaths(c *Config) error {
	paths := []struct {
		path string
		name string
	}{
		{c.LogDir, "log directory"},
		{filepath.Dir(c.Database.Path), "database directory"},
	}

	for _, p := range paths {
		if err := os.MkdirAll(p.path, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
	}

	return nil
}

func validateTimeouts(c *Config) error {
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	return nil
}

func validatePipeline(c *Config) error {
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("daily limit must be positive")
	}
	if c.Batch.MaxConcurrent <= 0 {
		return fmt.Errorf("batch concurrency must be positive")
	}
	if c.Summarize.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be positive")
	}
	return nil
}

// Helper functions for reading environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value = strings.TrimSpace(value); value != "" {
			return strings.Split(value, ",")
		}
	}
	return defaultValue
}
