package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"BIZ_APP_NAME",
	"BIZ_APP_ENV",
	"BIZ_APP_PORT",
	"BIZ_DATABASE_HOST",
	"BIZ_DATABASE_PORT",
	"BIZ_DATABASE_USER",
	"BIZ_DATABASE_PASSWORD",
	"BIZ_DATABASE_DBNAME",
	"BIZ_DATABASE_SSLMODE",
	"BIZ_DATABASE_MAX_OPEN_CONNS",
	"BIZ_DATABASE_MAX_IDLE_CONNS",
	"BIZ_JWT_SECRET",
	"BIZ_CRON_SECRET",
	"BIZ_RECURRENCE_CATCH_UP_POLICY",
	"BIZ_RECURRENCE_MAX_CATCH_UP_PERIODS",
	"BIZ_ATTRIBUTION_STRICT",
	"BIZ_NOTIFICATION_ENABLED",
	"BIZ_NOTIFICATION_SMTP_HOST",
	"BIZ_STORAGE_ENABLED",
	"BIZ_STORAGE_BUCKET",
	"BIZ_SWAGGER_ENABLED",
	"BIZ_SWAGGER_REQUIRE_AUTH",
	"BIZ_SWAGGER_ALLOWED_IPS",
	"BIZ_TELEMETRY_DB_LOG_FULL_SQL",
}

// clearEnv blanks every key the tests touch; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "bizledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "bizledger", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 24*time.Hour, cfg.JWT.MagicLinkExpiration)
		assert.Equal(t, "single", cfg.Recurrence.CatchUpPolicy)
		assert.Equal(t, 24, cfg.Recurrence.MaxCatchUpPeriods)
		assert.False(t, cfg.Attribution.Strict)
		assert.Equal(t, 3, cfg.Scheduler.ReminderWindowDays)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.Equal(t, 15*time.Minute, cfg.Storage.UploadExpiry)
		assert.Equal(t, time.Hour, cfg.Storage.DownloadExpiry)
	})

	t.Run("loads values from environment variables with BIZ prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_APP_NAME", "test-app")
		t.Setenv("BIZ_APP_ENV", "testing")
		t.Setenv("BIZ_APP_PORT", "9000")
		t.Setenv("BIZ_DATABASE_HOST", "testdb.local")
		t.Setenv("BIZ_DATABASE_PORT", "5433")
		t.Setenv("BIZ_DATABASE_USER", "testuser")
		t.Setenv("BIZ_DATABASE_PASSWORD", "testpass")
		t.Setenv("BIZ_DATABASE_DBNAME", "testdb")
		t.Setenv("BIZ_DATABASE_SSLMODE", "require")
		t.Setenv("BIZ_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("BIZ_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("BIZ_RECURRENCE_CATCH_UP_POLICY", "catch_up")
		t.Setenv("BIZ_RECURRENCE_MAX_CATCH_UP_PERIODS", "6")
		t.Setenv("BIZ_ATTRIBUTION_STRICT", "true")
		t.Setenv("BIZ_CRON_SECRET", "cron-secret")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "catch_up", cfg.Recurrence.CatchUpPolicy)
		assert.Equal(t, 6, cfg.Recurrence.MaxCatchUpPeriods)
		assert.True(t, cfg.Attribution.Strict)
		assert.Equal(t, "cron-secret", cfg.Cron.Secret)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("BIZ_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown catch-up policy", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_RECURRENCE_CATCH_UP_POLICY", "everything")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "recurrence.catch_up_policy")
	})

	t.Run("requires smtp host when notifications are enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_NOTIFICATION_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "notification.smtp_host")
	})

	t.Run("requires bucket when storage is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BIZ_APP_ENV", "production")
		t.Setenv("BIZ_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("BIZ_DATABASE_PASSWORD", "secure-password")
		t.Setenv("BIZ_DATABASE_SSLMODE", "require")
		t.Setenv("BIZ_CRON_SECRET", "cron-secret")
		t.Setenv("BIZ_SWAGGER_ENABLED", "false")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires cron.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_CRON_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cron.secret is required in production")
	})

	t.Run("rejects full SQL logging in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("fails if swagger enabled without protection in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_SWAGGER_ENABLED", "true")
		t.Setenv("BIZ_SWAGGER_REQUIRE_AUTH", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled, require authentication, or have IP restriction")
	})

	t.Run("passes with swagger enabled and require_auth in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("BIZ_SWAGGER_ENABLED", "true")
		t.Setenv("BIZ_SWAGGER_REQUIRE_AUTH", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
		assert.True(t, cfg.Swagger.RequireAuth)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
