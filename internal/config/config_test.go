package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, "json", cfg.App.LogFormat)
		assert.Equal(t, 25, cfg.DB.MaxOpenConns)
		assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
		assert.Equal(t, 10, cfg.HTTP.CloseRateLimit)
		assert.Equal(t, "postgres://postgres:@localhost:5432/fleetfuel?sslmode=disable", cfg.ConnectionString())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("AUTH_DISABLED", "true")
		t.Setenv("DB_NAME", "ledger")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.True(t, cfg.Auth.Disabled)
		assert.Equal(t, "ledger", cfg.DB.Name)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	})

	t.Run("SecretRequired", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		t.Setenv("AUTH_DISABLED", "false")

		cfg, err := config.Load()
		require.NoError(t, err)
		require.Error(t, cfg.ValidateAPI())

		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err = config.Load()
		require.NoError(t, err)
		require.NoError(t, cfg.ValidateAPI())
	})
}
