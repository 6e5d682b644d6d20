package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	v, err := LoadConfig()
	require.NoError(t, err)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.predicthq.com", cfg.PredictHQ.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.PredictHQ.Timeout)
	assert.Equal(t, "IT", cfg.PredictHQ.Country)
	assert.Equal(t, "concerts", cfg.PredictHQ.Category)
	assert.Equal(t, "10", cfg.PredictHQ.Limit)
	assert.Equal(t, 2*time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, int64(8<<20), cfg.App.MaxUploadBytes)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PREDICTHQ_API_TOKEN", "secret-token")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PREDICTHQ_COUNTRY", "FR")

	v, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.PredictHQ.APIToken)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "FR", cfg.PredictHQ.Country)
	assert.Equal(t, ":9090", cfg.GetServerAddress())
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, (&AppConfig{}).Location())
	assert.Equal(t, time.UTC, (&AppConfig{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, time.UTC, (&AppConfig{Timezone: "UTC"}).Location())
}
