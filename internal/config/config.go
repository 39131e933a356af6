package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the env file named by APP_ENV (or .env by default), then the
// matching .secret sidecar if it exists. Variables already present in the
// process environment win over file values.
func Load() error {
	envFile := os.Getenv("APP_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are not an error.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is the Postgres connection string for the user store.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MongoURI() string {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		return "mongodb://localhost:27017"
	}
	return uri
}

// MongoDatabase returns the database holding tenants and memberships.
func MongoDatabase() string {
	db := os.Getenv("MONGODB_DATABASE")
	if db == "" {
		return "tenant"
	}
	return db
}

// StoreBackend selects tenant and user storage: "mongo" (default) or "memory".
func StoreBackend() string {
	b := strings.ToLower(os.Getenv("STORE_BACKEND"))
	if b == "" {
		return "mongo"
	}
	return b
}

// APIKey is the shared service credential expected in the Authorization header.
func APIKey() string {
	return os.Getenv("AUTHORIZATION")
}

func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func JWTIssuer() string {
	return os.Getenv("JWT_ISSUER")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// SlowRequestThreshold is the latency above which a request is logged at warn.
func SlowRequestThreshold() time.Duration {
	return duration("SLOW_REQUEST_THRESHOLD", time.Second)
}

func ReconcileInterval() time.Duration {
	return duration("RECONCILE_INTERVAL", time.Minute)
}

// PendingTenantGrace is how long a tenant may stay pending before the
// reconciler resolves it.
func PendingTenantGrace() time.Duration {
	return duration("PENDING_TENANT_GRACE", 5*time.Minute)
}

// TenantDeleteRequiresOwner restricts tenant deletion to the owner.
func TenantDeleteRequiresOwner() bool {
	v, err := strconv.ParseBool(os.Getenv("TENANT_DELETE_REQUIRES_OWNER"))
	return err == nil && v
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
