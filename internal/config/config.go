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

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicURL   string `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		URL             string `yaml:"url" env:"DATABASE_URL"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		SeedDemoData    bool   `yaml:"seed_demo_data" env:"DB_SEED_DEMO_DATA"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret" env:"JWT_SECRET"`
		Expiration string `yaml:"expiration" env:"JWT_EXPIRATION"`
		Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		AllowedEmailDomain string        `yaml:"allowed_email_domain" env:"AUTH_ALLOWED_EMAIL_DOMAIN"`
		OTPTTL             time.Duration `yaml:"otp_ttl" env:"AUTH_OTP_TTL"`
		OTPRateLimit       int           `yaml:"otp_rate_limit" env:"AUTH_OTP_RATE_LIMIT"`
		OTPRateWindow      time.Duration `yaml:"otp_rate_window" env:"AUTH_OTP_RATE_WINDOW"`
	} `yaml:"auth"`

	Email struct {
		Provider       string `yaml:"provider" env:"EMAIL_PROVIDER"`
		SMTPHost       string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort       int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUsername   string `yaml:"smtp_username" env:"SMTP_USERNAME"`
		SMTPPassword   string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		SMTPUseTLS     bool   `yaml:"smtp_use_tls" env:"SMTP_USE_TLS"`
		SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
		FromAddress    string `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
		FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	} `yaml:"email"`

	Storage struct {
		Driver         string `yaml:"driver" env:"STORAGE_DRIVER"`
		MinIOEndpoint  string `yaml:"minio_endpoint" env:"MINIO_ENDPOINT"`
		MinIOAccessKey string `yaml:"minio_access_key" env:"MINIO_ACCESS_KEY"`
		MinIOSecretKey string `yaml:"minio_secret_key" env:"MINIO_SECRET_KEY"`
		MinIOBucket    string `yaml:"minio_bucket" env:"MINIO_BUCKET"`
		MinIOUseSSL    bool   `yaml:"minio_use_ssl" env:"MINIO_USE_SSL"`
		MinIOPublicURL string `yaml:"minio_public_url" env:"MINIO_PUBLIC_URL"`
	} `yaml:"storage"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.CORSOrigins = "*"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "book_exchange"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.Expiration = "168h"
	config.JWT.Issuer = "vitbooks.exchange"

	// Auth defaults
	config.Auth.AllowedEmailDomain = "vitstudent.ac.in"
	config.Auth.OTPTTL = 10 * time.Minute
	config.Auth.OTPRateLimit = 5
	config.Auth.OTPRateWindow = 15 * time.Minute

	// Email defaults
	config.Email.Provider = "log"
	config.Email.SMTPPort = 587
	config.Email.FromName = "VIT Book Exchange"

	// Storage defaults
	config.Storage.Driver = "local"
	config.Storage.MinIOBucket = "listing-photos"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	// Recursively process the config structure and look for env tags
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database host or url is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.Expiration); err != nil {
		return fmt.Errorf("invalid JWT expiration format: %w", err)
	}

	if strings.TrimSpace(config.Auth.AllowedEmailDomain) == "" {
		return fmt.Errorf("allowed email domain is required")
	}

	if config.Auth.OTPTTL <= 0 {
		return fmt.Errorf("otp ttl must be positive")
	}

	switch config.Email.Provider {
	case "log":
	case "smtp":
		if config.Email.SMTPHost == "" {
			return fmt.Errorf("smtp host is required for the smtp email provider")
		}
	case "sendgrid":
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required for the sendgrid email provider")
		}
	default:
		return fmt.Errorf("unknown email provider %q", config.Email.Provider)
	}

	switch config.Storage.Driver {
	case "local":
	case "minio":
		if config.Storage.MinIOEndpoint == "" || config.Storage.MinIOBucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required for the minio storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AllowedEmailSuffix returns the suffix every login email must carry, including the '@'
func (c *Config) AllowedEmailSuffix() string {
	return "@" + strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Auth.AllowedEmailDomain)), "@")
}

// CORSOriginList splits the comma separated CORS origins
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
