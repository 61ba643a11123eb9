// Package config provides environment configuration for the API server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	StaticDir          string
	UploadDir          string

	// CORS
	ClientURL      string
	AllowAnyOrigin bool

	// Storage settings
	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	// Clerk settings
	ClerkJWKSURL      string
	ClerkJWTKey       string
	ClerkSecretKey    string
	ClerkIssuer       string
	AuthorizedParties []string

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. Values from envFile
// (if it exists) are applied first without overriding the real environment.
func Load(envFile string) *Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	clientURL := getEnv("CLIENT_URL", "")

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "3000"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		StaticDir:          getEnv("STATIC_DIR", "./static"),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),

		ClientURL:      clientURL,
		AllowAnyOrigin: getBoolEnv("CORS_ALLOW_ANY_ORIGIN", false),

		// Storage
		StoreBackend:  getEnv("STORE_BACKEND", StoreMongo),
		MongoURI:      getEnv("MONGO", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "GenCraft"),

		// Clerk
		ClerkJWKSURL:      getEnv("CLERK_JWKS_URL", ""),
		ClerkJWTKey:       getEnv("CLERK_JWT_KEY", ""),
		ClerkSecretKey:    getEnv("CLERK_SECRET_KEY", ""),
		ClerkIssuer:       getEnv("CLERK_ISSUER", ""),
		AuthorizedParties: getListEnv("CLERK_AUTHORIZED_PARTIES", clientURL),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.ClientURL == "" && !c.AllowAnyOrigin {
		return errors.New("CLIENT_URL is required (set CORS_ALLOW_ANY_ORIGIN=true for local development)")
	}
	switch c.StoreBackend {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

// Warnings lists insecure but permitted settings, for logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.ClientURL == "" && c.AllowAnyOrigin {
		out = append(out, "CORS accepts credentialed requests from any origin")
	}
	if len(c.AuthorizedParties) == 0 {
		out = append(out, "no authorized parties configured, token azp claim is not checked")
	}
	return out
}

// AllowedOrigins returns the CORS origins: CLIENT_URL when set, any origin
// when CORS_ALLOW_ANY_ORIGIN is enabled, otherwise none.
func (c *Config) AllowedOrigins() []string {
	switch {
	case c.ClientURL != "":
		return []string{c.ClientURL}
	case c.AllowAnyOrigin:
		return []string{"https://*", "http://*"}
	default:
		return nil
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated value, dropping empty entries.
func getListEnv(key, defaultValue string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, defaultValue), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
