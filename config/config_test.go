package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	os.Clearenv()

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.RepositoryDriver)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "storefront", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Minute, cfg.PaymentCheckDelay)
	assert.Equal(t, 10, cfg.MaxPriority)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	os.Clearenv()
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("REPOSITORY_DRIVER", "mysql")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("REMOTE_API_TIMEOUT", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, ,https://ops.example.com")

	cfg := LoadConfig()

	assert.Equal(t, ":9000", cfg.GetServerAddress())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "mysql", cfg.RepositoryDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.RemoteAPITimeout)
	assert.Equal(t, []string{"https://admin.example.com", "https://ops.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_SecretFromFile(t *testing.T) {
	os.Clearenv()
	path := filepath.Join(t.TempDir(), "jwt")
	require.NoError(t, os.WriteFile(path, []byte("  file-secret\n"), 0o600))
	t.Setenv("JWT_SECRET_FILE", path)
	t.Setenv("JWT_SECRET", "env-secret")

	assert.Equal(t, "file-secret", LoadConfig().JWTSecret)

	t.Setenv("JWT_SECRET_FILE", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, "env-secret", LoadConfig().JWTSecret)
}
