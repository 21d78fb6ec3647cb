package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"STOREFRONT_APP_NAME":                   os.Getenv("STOREFRONT_APP_NAME"),
		"STOREFRONT_APP_ENV":                    os.Getenv("STOREFRONT_APP_ENV"),
		"STOREFRONT_APP_PORT":                   os.Getenv("STOREFRONT_APP_PORT"),
		"STOREFRONT_BACKEND_BASE_URL":           os.Getenv("STOREFRONT_BACKEND_BASE_URL"),
		"STOREFRONT_BACKEND_TIMEOUT":            os.Getenv("STOREFRONT_BACKEND_TIMEOUT"),
		"STOREFRONT_BACKEND_ADMIN_TOKEN":        os.Getenv("STOREFRONT_BACKEND_ADMIN_TOKEN"),
		"STOREFRONT_SESSION_SECRET":             os.Getenv("STOREFRONT_SESSION_SECRET"),
		"STOREFRONT_SESSION_TTL":                os.Getenv("STOREFRONT_SESSION_TTL"),
		"STOREFRONT_CACHE_BACKEND":              os.Getenv("STOREFRONT_CACHE_BACKEND"),
		"STOREFRONT_SHOWCASE_ROTATION_INTERVAL": os.Getenv("STOREFRONT_SHOWCASE_ROTATION_INTERVAL"),
		"APP_ENV":                               os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, 5*time.Minute, cfg.Cache.ProductTTL)
		assert.Equal(t, 4*time.Second, cfg.Showcase.RotationInterval)
	})

	t.Run("loads values from environment variables with STOREFRONT prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_NAME", "test-storefront")
		os.Setenv("STOREFRONT_APP_ENV", "testing")
		os.Setenv("STOREFRONT_APP_PORT", "9000")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "http://commerce.local:4000")
		os.Setenv("STOREFRONT_BACKEND_TIMEOUT", "30s")
		os.Setenv("STOREFRONT_SESSION_TTL", "1h")
		os.Setenv("STOREFRONT_CACHE_BACKEND", "redis")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-storefront", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "http://commerce.local:4000", cfg.Backend.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, time.Hour, cfg.Session.TTL)
		assert.Equal(t, "redis", cfg.Cache.Backend)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache.backend")
	})

	t.Run("rejects invalid backend base URL", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "not a url")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend.base_url")
	})

	t.Run("rejects sub-second rotation interval", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_SHOWCASE_ROTATION_INTERVAL", "100ms")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rotation_interval")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"STOREFRONT_APP_ENV":                 os.Getenv("STOREFRONT_APP_ENV"),
		"STOREFRONT_SESSION_SECRET":          os.Getenv("STOREFRONT_SESSION_SECRET"),
		"STOREFRONT_BACKEND_ADMIN_TOKEN":     os.Getenv("STOREFRONT_BACKEND_ADMIN_TOKEN"),
		"STOREFRONT_BACKEND_BASE_URL":        os.Getenv("STOREFRONT_BACKEND_BASE_URL"),
		"STOREFRONT_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("STOREFRONT_HTTP_CORS_ALLOW_ORIGINS"),
		"APP_ENV":                            os.Getenv("APP_ENV"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	// Helper to set valid production base config
	setValidProductionBase := func() {
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_SESSION_SECRET", "this-is-a-very-secure-session-secret-32chars")
		os.Setenv("STOREFRONT_BACKEND_ADMIN_TOKEN", "admin-bearer-token")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://commerce.example.com")
	}

	t.Run("requires session.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_BACKEND_ADMIN_TOKEN", "admin-bearer-token")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://commerce.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.secret is required in production")
	})

	t.Run("requires session.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_SESSION_SECRET", "short-secret")
		os.Setenv("STOREFRONT_BACKEND_ADMIN_TOKEN", "admin-bearer-token")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://commerce.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.secret must be at least 32 characters")
	})

	t.Run("requires backend.admin_token in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("STOREFRONT_APP_ENV", "production")
		os.Setenv("STOREFRONT_SESSION_SECRET", "this-is-a-very-secure-session-secret-32chars")
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "https://commerce.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend.admin_token is required in production")
	})

	t.Run("rejects plain http backend in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "http://commerce.example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must use https in production")
	})

	t.Run("allows plain http loopback backend in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("STOREFRONT_BACKEND_BASE_URL", "http://localhost:3000")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestBackendConfig_MaxResponseBytes(t *testing.T) {
	cfg := BackendConfig{MaxResponseMiB: 10}
	assert.Equal(t, int64(10<<20), cfg.MaxResponseBytes())
}

func TestRedisConfig_RedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.RedisAddr())
}
