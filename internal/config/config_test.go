package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_CONN_STR", "DB_HOST", "API_TOKEN", "GRPC_PORT", "PRICE_TIMEOUT", "CORS_ORIGINS", "SCHEDULER_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=investsim sslmode=disable", cfg.DBConnStr)
	assert.Equal(t, "dev-token", cfg.APIToken)
	assert.Equal(t, 8080, cfg.GRPCPort)
	assert.Equal(t, 10*time.Second, cfg.PriceTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.SchedulerEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONN_STR", "")
	t.Setenv("SQLITE_PATH", "/tmp/sim.db")
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("PRICE_TIMEOUT", "3s")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:3000,")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/sim.db", cfg.DBConnStr)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 3*time.Second, cfg.PriceTimeout)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.SchedulerEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("GRPC_PORT", "not-a-number")
	t.Setenv("PRICE_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.GRPCPort)
	assert.Equal(t, 10*time.Second, cfg.PriceTimeout)
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}
