package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Primary.Env)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.MaintenanceName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "simple_db", cfg.Mongo.Database)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "local", cfg.Observability.Environment)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("DATASTORES_PRIMARY.ENV", "production")
	t.Setenv("DATASTORES_DATABASE.HOST", "db.internal")
	t.Setenv("DATASTORES_DATABASE.PORT", "6543")
	t.Setenv("DATASTORES_REDIS.ADDRESS", "cache:6380")
	t.Setenv("DATASTORES_MONGO.DATABASE", "homework")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "cache:6380", cfg.Redis.Address)
	assert.Equal(t, "homework", cfg.Mongo.Database)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfig_RejectsEmptyRequiredValue(t *testing.T) {
	t.Setenv("DATASTORES_DATABASE.USER", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestObservabilityConfig_Validate(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.Logging.SlowQueryThreshold = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = DefaultObservabilityConfig()
	cfg.ServiceName = ""
	assert.Error(t, cfg.Validate())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	cfg.Logging.Level = ""

	cfg.Environment = "production"
	assert.Equal(t, "info", cfg.GetLogLevel())

	cfg.Environment = "local"
	assert.Equal(t, "debug", cfg.GetLogLevel())

	cfg.Logging.Level = "warn"
	assert.Equal(t, "warn", cfg.GetLogLevel())
}

func TestObservabilityConfig_HealthCheckEnabled(t *testing.T) {
	cfg := DefaultObservabilityConfig()
	assert.True(t, cfg.HealthCheckEnabled("mongo"))
	assert.False(t, cfg.HealthCheckEnabled("kafka"))

	cfg.HealthChecks.Enabled = false
	assert.False(t, cfg.HealthCheckEnabled("database"))
}
