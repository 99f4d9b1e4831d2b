package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "marketplace", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, 24*time.Hour, cfg.Auth.ConfirmTokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Feed.FetchTimeout)
	assert.Equal(t, int64(5<<20), cfg.Avatar.MaxSize)
	assert.Equal(t, "@hourly", cfg.Scheduler.CleanupSchedule)
	assert.Equal(t, "marketplace", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MARKET_APP_NAME", "test-market")
	t.Setenv("MARKET_APP_ENV", "testing")
	t.Setenv("MARKET_APP_PORT", "9000")
	t.Setenv("MARKET_DATABASE_DRIVER", "mysql")
	t.Setenv("MARKET_DATABASE_HOST", "db.local")
	t.Setenv("MARKET_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("MARKET_DATABASE_MAX_IDLE_CONNS", "10")
	t.Setenv("MARKET_FEED_FETCH_TIMEOUT", "5s")
	t.Setenv("MARKET_AVATAR_WORKERS", "4")
	t.Setenv("MARKET_AUTH_EXPOSE_CONFIRM_TOKEN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-market", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Second, cfg.Feed.FetchTimeout)
	assert.Equal(t, 4, cfg.Avatar.Workers)
	assert.True(t, cfg.Auth.ExposeConfirmToken)
	assert.Equal(t, "test-market", cfg.Telemetry.ServiceName)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("MARKET_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("max idle cannot exceed max open", func(t *testing.T) {
		t.Setenv("MARKET_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("MARKET_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero max open uses default", func(t *testing.T) {
		t.Setenv("MARKET_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("storage requires credentials", func(t *testing.T) {
		t.Setenv("MARKET_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.access_key")
	})

	t.Run("sampling ratio out of range", func(t *testing.T) {
		t.Setenv("MARKET_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("MARKET_APP_ENV", "production")
		t.Setenv("MARKET_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("MARKET_DATABASE_PASSWORD", "secure-password")
		t.Setenv("MARKET_DATABASE_SSLMODE", "require")
	}

	t.Run("passes with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("requires jwt.secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires long jwt.secret", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires database.password", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("rejects sslmode disable", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("rejects exposed confirmation tokens", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_AUTH_EXPOSE_CONFIRM_TOKEN", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expose_confirm_token")
	})

	t.Run("rejects wildcard CORS", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("MARKET_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("postgres escapes password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("mysql", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   "mysql",
			Host:     "db",
			Port:     3306,
			User:     "root",
			Password: "secret",
			DBName:   "market",
		}

		assert.Equal(t, "root:secret@tcp(db:3306)/market?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
	})

	t.Run("sqlite uses path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
		assert.Equal(t, ":memory:", cfg.DSN())
	})
}
