package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, 3000, cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, PricingManual, cfg.Pricing.Mode)
		assert.Equal(t, "", cfg.Redis.Addr)
		assert.False(t, cfg.SMTP.Enabled)
		assert.Equal(t, cfg.SMTP.SenderEmail, cfg.SMTP.InternalRecipient)
	})

	t.Run("loads values from environment variables with BACKOFFICE prefix", func(t *testing.T) {
		t.Setenv("BACKOFFICE_APP_PORT", "9000")
		t.Setenv("BACKOFFICE_DATABASE_HOST", "db.internal")
		t.Setenv("BACKOFFICE_PRICING_MODE", "AUTO")
		t.Setenv("BACKOFFICE_JWT_EXPIRATION", "90m")
		t.Setenv("BACKOFFICE_REDIS_ADDR", "redis:6379")
		t.Setenv("BACKOFFICE_SMTP_INTERNAL_RECIPIENT", "ops@waterlife.local")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, PricingAuto, cfg.Pricing.Mode)
		assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, "ops@waterlife.local", cfg.SMTP.InternalRecipient)
	})

	t.Run("rejects unknown pricing mode", func(t *testing.T) {
		t.Setenv("BACKOFFICE_PRICING_MODE", "dynamic")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.mode")
	})

	t.Run("requires a real jwt secret in production", func(t *testing.T) {
		t.Setenv("BACKOFFICE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("BACKOFFICE_JWT_SECRET", "s3cr3t")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", d.PostgresDSN())

	d.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", d.PostgresDSN())
}
