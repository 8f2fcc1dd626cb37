package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
	// DefaultSessionDuration is the session and cookie lifetime
	DefaultSessionDuration = 24 * time.Hour
)

// Supported database drivers
const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
	DBDriverLibSQL   = "libsql"
)

// Supported session stores
const (
	SessionStoreMemory   = "memory"
	SessionStoreDatabase = "database"
	SessionStoreRedis    = "redis"
)

type Config struct {
	ServerPort  string
	Environment string
	// Database
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Sessions
	SessionStore    string
	SessionDuration time.Duration
	SessionSecret   string
	RedisURL        string
	// Logging
	LogLevel  string
	LogFormat string
	// Uploads
	UploadDir string
	// S3-compatible document storage (optional, local disk otherwise)
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Other
	AllowedOrigins []string
	AppURL         string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	// Validate session secret - this will fatal in production if invalid
	ValidateSessionSecret(sessionSecret, environment)

	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		Environment:       environment,
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DBDriverSQLite)),
		DBPath:            getEnv("DB_PATH", "db/app.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    getEnv("TURSO_AUTH_TOKEN", ""),
		SessionStore:      strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionDuration:   getEnvDuration("SESSION_DURATION", DefaultSessionDuration),
		SessionSecret:     sessionSecret,
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "auto"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@lawoffice.local"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Law Office"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
	}
}

// IsProduction reports whether cookies must be marked Secure
func (c *Config) IsProduction() bool {
	return c != nil && c.Environment == "production"
}

// S3Configured reports whether every S3 setting needed for remote storage is present
func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"fallback-secret-key-change-in-production",
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" && len(secret) < MinSessionSecretLength {
		log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinSessionSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
