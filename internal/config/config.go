package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort   string
	LogLevel     string
	Environment  string
	MaxFileSize  int64
	MaxCoverSize int64

	DBBackend      string
	StorageBackend string
	AuthProvider   string

	GCPProjectID     string
	GCSBucket        string
	BooksCollection  string
	SupabaseURL      string
	SupabaseKey      string
	SupabaseAnonKey  string
	SupabaseBucket   string
	MongoURI         string
	MongoDatabase    string
	S3Bucket         string
	AWSRegion        string
	AWSAccessKeyID   string
	AWSSecretKey     string
	GoogleClientID   string
	JWTSecret        string
	SessionTTL       time.Duration
	AdminEmail       string
	ProxyAllowedHost []string
	AllowedOrigins   []string

	ReaderIdleTimeout time.Duration
	ReaderMaxWidth    int
	FetchTimeout      time.Duration
}

// DefaultJWTSecret is the development-only signing key used when JWT_SECRET is unset.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// NewConfig creates a new configuration instance with default values
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run provides the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:   getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
		Environment:  getEnvOrDefault("APP_ENV", "development"),
		MaxFileSize:  getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		MaxCoverSize: getEnvInt64OrDefault("MAX_COVER_SIZE", 5*1024*1024),

		DBBackend:      getEnvOrDefault("DB_BACKEND", "firestore"),
		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "gcs"),
		AuthProvider:   getEnvOrDefault("AUTH_PROVIDER", "google"),

		GCPProjectID:    getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCSBucket:       getEnvOrDefault("GCS_BUCKET", ""),
		BooksCollection: getEnvOrDefault("FIRESTORE_BOOKS_COLLECTION", "books"),
		SupabaseURL:     getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:     getEnvOrDefault("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseAnonKey: getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseBucket:  getEnvOrDefault("SUPABASE_BUCKET", "books"),
		MongoURI:        getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnvOrDefault("MONGODB_DB", "book_sanctuary"),
		S3Bucket:        getEnvOrDefault("AWS_S3_BUCKET", ""),
		AWSRegion:       getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:  getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
		GoogleClientID:  getEnvOrDefault("GOOGLE_CLIENT_ID", ""),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),
		SessionTTL:      getEnvDurationOrDefault("SESSION_TTL", 7*24*time.Hour),
		AdminEmail:      strings.ToLower(getEnvOrDefault("ADMIN_EMAIL", "")),
		ProxyAllowedHost: getEnvListOrDefault("PROXY_ALLOWED_HOSTS",
			[]string{"firebasestorage.googleapis.com", "storage.googleapis.com"}),
		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS",
			[]string{"http://localhost:3000", "http://localhost:5173"}),

		ReaderIdleTimeout: getEnvDurationOrDefault("READER_IDLE_TIMEOUT", 15*time.Minute),
		ReaderMaxWidth:    int(getEnvInt64OrDefault("READER_MAX_WIDTH", 900)),
		FetchTimeout:      getEnvDurationOrDefault("FETCH_TIMEOUT", 60*time.Second),
	}
}

// Validate rejects settings that are only acceptable outside production.
func (c *AppConfig) Validate() error {
	if c.Environment == "production" {
		secret := strings.TrimSpace(c.JWTSecret)
		if secret == "" || secret == DefaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong secret in production")
		}
	}
	return nil
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetMaxFileSize returns the maximum allowed PDF size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetMaxCoverSize returns the maximum allowed cover image size
func (c *AppConfig) GetMaxCoverSize() int64 {
	return c.MaxCoverSize
}

// GetReaderIdleTimeout returns how long an untouched reader session survives
func (c *AppConfig) GetReaderIdleTimeout() time.Duration {
	return c.ReaderIdleTimeout
}

// GetReaderMaxWidth returns the maximum rendered page width in CSS pixels
func (c *AppConfig) GetReaderMaxWidth() int {
	return c.ReaderMaxWidth
}

// GetFetchTimeout returns the timeout for downloading document binaries
func (c *AppConfig) GetFetchTimeout() time.Duration {
	return c.FetchTimeout
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
