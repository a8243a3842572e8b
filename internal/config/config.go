package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	Database    DatabaseConfig
	Attachments AttachmentConfig
	Security    SecurityConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql, postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string // postgres only
	SQLitePath string
}

// AttachmentConfig holds attachment storage configuration
type AttachmentConfig struct {
	Backend     string // local or s3
	Dir         string
	S3          S3Config
	MaxUploadMB int
	SweepCron   string // empty disables the sweeper
	SweepGrace  time.Duration
}

// S3Config holds the bucket used when Backend is s3
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	AccessKey string
	SecretKey string
}

// SecurityConfig holds password hashing and rate limiting settings
type SecurityConfig struct {
	BcryptCost      int
	RateLimitPerMin int // 0 disables the limiter
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}
	attachments, err := loadAttachmentConfig()
	if err != nil {
		return nil, err
	}
	security, err := loadSecurityConfig()
	if err != nil {
		return nil, err
	}

	// Build config based on APP_MODE
	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "8080"),
		Database:    database,
		Attachments: attachments,
		Security:    security,
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "mysql")))
	defaultPort := "3306"
	switch driver {
	case "mysql", "sqlite":
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql', 'postgres' or 'sqlite')", driver)
	}

	return DatabaseConfig{
		Driver:     driver,
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", defaultPort),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "gestion_courrier"),
		SSLMode:    getEnv(prefix+"DB_SSLMODE", "disable"),
		SQLitePath: getEnv("DB_SQLITE_PATH", "courrier.db"),
	}, nil
}

// loadAttachmentConfig loads attachment storage config
func loadAttachmentConfig() (AttachmentConfig, error) {
	backend := strings.ToLower(strings.TrimSpace(getEnv("ATTACHMENT_BACKEND", "local")))
	if backend != "local" && backend != "s3" {
		return AttachmentConfig{}, fmt.Errorf("invalid ATTACHMENT_BACKEND: '%s' (must be 'local' or 's3')", backend)
	}

	maxMB, err := getEnvInt("UPLOAD_MAX_MB", 10)
	if err != nil {
		return AttachmentConfig{}, err
	}
	if maxMB < 1 {
		return AttachmentConfig{}, fmt.Errorf("invalid UPLOAD_MAX_MB: %d (must be at least 1)", maxMB)
	}

	grace, err := time.ParseDuration(getEnv("ATTACHMENT_SWEEP_GRACE", "1h"))
	if err != nil {
		return AttachmentConfig{}, fmt.Errorf("invalid ATTACHMENT_SWEEP_GRACE: %w", err)
	}

	cfg := AttachmentConfig{
		Backend: backend,
		Dir:     getEnv("ATTACHMENT_DIR", "uploads/courriers"),
		S3: S3Config{
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Prefix:    getEnv("S3_PREFIX", "courriers"),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
		MaxUploadMB: maxMB,
		SweepCron:   lookupEnv("ATTACHMENT_SWEEP_CRON", "@daily"),
		SweepGrace:  grace,
	}
	if backend == "s3" && cfg.S3.Bucket == "" {
		return AttachmentConfig{}, fmt.Errorf("S3_BUCKET is required when ATTACHMENT_BACKEND is 's3'")
	}
	return cfg, nil
}

// loadSecurityConfig loads hashing and rate limit settings
func loadSecurityConfig() (SecurityConfig, error) {
	cost, err := getEnvInt("BCRYPT_COST", 12)
	if err != nil {
		return SecurityConfig{}, err
	}
	if cost < 4 || cost > 31 {
		return SecurityConfig{}, fmt.Errorf("invalid BCRYPT_COST: %d (must be between 4 and 31)", cost)
	}

	rate, err := getEnvInt("RATE_LIMIT_PER_MIN", 100)
	if err != nil {
		return SecurityConfig{}, err
	}
	if rate < 0 {
		return SecurityConfig{}, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %d", rate)
	}

	return SecurityConfig{BcryptCost: cost, RateLimitPerMin: rate}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv is getEnv where an explicitly empty value is kept
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: '%s' (must be an integer)", key, raw)
	}
	return v, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// BodyLimit returns the maximum request body size in bytes
func (c *Config) BodyLimit() int {
	// multipart framing on top of the file itself
	return c.Attachments.MaxUploadMB*1024*1024 + 64*1024
}
