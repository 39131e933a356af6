package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_PORT", "MONGODB_URI", "MONGODB_DATABASE", "STORE_BACKEND",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "SLOW_REQUEST_THRESHOLD",
		"RECONCILE_INTERVAL", "PENDING_TENANT_GRACE", "TENANT_DELETE_REQUIRES_OWNER",
	} {
		t.Setenv(k, "")
	}

	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, "mongodb://localhost:27017", MongoURI())
	assert.Equal(t, "tenant", MongoDatabase())
	assert.Equal(t, "mongo", StoreBackend())
	assert.Equal(t, float64(100), RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Equal(t, "info", LogLevel())
	assert.Equal(t, time.Second, SlowRequestThreshold())
	assert.Equal(t, time.Minute, ReconcileInterval())
	assert.Equal(t, 5*time.Minute, PendingTenantGrace())
	assert.False(t, TenantDeleteRequiresOwner())
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("SLOW_REQUEST_THRESHOLD", "250ms")
	t.Setenv("PENDING_TENANT_GRACE", "not-a-duration")
	t.Setenv("TENANT_DELETE_REQUIRES_OWNER", "true")

	assert.Equal(t, ":9000", ServerAddr())
	assert.Equal(t, "memory", StoreBackend())
	assert.Equal(t, 250*time.Millisecond, SlowRequestThreshold())
	assert.Equal(t, 5*time.Minute, PendingTenantGrace())
	assert.True(t, TenantDeleteRequiresOwner())
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_ISSUER=from-file\n"), 0o600))
	require.NoError(t, os.WriteFile(envFile+".secret", []byte("JWT_SECRET=s3cret\n"), 0o600))

	t.Setenv("APP_ENV", envFile)
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_ISSUER")
	os.Unsetenv("JWT_SECRET")

	require.NoError(t, Load())
	assert.Equal(t, "from-file", JWTIssuer())
	assert.Equal(t, "s3cret", JWTSecret())
}
