package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.InDelta(t, 0.1, float64(cfg.Temperature), 1e-6)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  sk-test-key ")
	t.Setenv("CAREPLAN_MODEL", "gpt-4o")
	t.Setenv("CAREPLAN_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoad_RejectsBadKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "missing", key: ""},
		{name: "wrong shape", key: "not-an-openai-key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.key)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
