package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "chefmate-ai-fac55", cfg.Auth.ProjectID)
	assert.Equal(t, "https://api.elevenlabs.io", cfg.ElevenLabs.BaseURL)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_LegacyEnvironmentNames(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "xi-key")
	t.Setenv("ELEVENLABS_COOK_AGENT_ID", "cook-agent")
	t.Setenv("FIREBASE_PROJECT_ID", "my-project")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "xi-key", cfg.ElevenLabs.APIKey)
	assert.Equal(t, "cook-agent", cfg.ElevenLabs.CookAgentID)
	assert.Equal(t, "my-project", cfg.Auth.ProjectID)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_PrefixedEnvironmentNames(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_AUTH_ENABLED", "false")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Auth.Enabled)
}

func TestUnmarshal_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]interface{}
	}{
		{"zero port", map[string]interface{}{"server.port": 0}},
		{"redis without addr", map[string]interface{}{"redis.enabled": true, "redis.addr": ""}},
		{"auth without project", map[string]interface{}{"auth.project_id": ""}},
		{"bad rate limit", map[string]interface{}{"rate_limit.requests": 0}},
		{"bad burst", map[string]interface{}{"rate_limit.burst": 0}},
		{"bad body size", map[string]interface{}{"server.max_body_bytes": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}

			cfg, err := unmarshal(v)

			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestUnmarshal_AuthDisabledSkipsProjectCheck(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("auth.enabled", false)
	v.Set("auth.project_id", "")

	cfg, err := unmarshal(v)

	require.NoError(t, err)
	assert.False(t, cfg.Auth.Enabled)
}
