package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePalette(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"empty", "", nil},
		{"default", "A:blue,B:red", map[string]string{"A": "blue", "B": "red"}},
		{"spaces", " A : blue , C:#00ff00 ", map[string]string{"A": "blue", "C": "#00ff00"}},
		{"malformed entries skipped", "A:blue,broken,:red,B:", map[string]string{"A": "blue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePalette(tt.in))
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "http://localhost:5000", cfg.Decoder.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.DecoderTimeout())
	assert.Equal(t, 10*1024*1024, cfg.Decoder.MaxUploadBytes)
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, "stream:signal:status", cfg.Redis.StatusStream)
	assert.Equal(t, 10*time.Minute, cfg.Cache.DecodeCacheTTL)
	assert.Equal(t, map[string]string{"A": "blue", "B": "red"}, cfg.Map.Palette)
	assert.Equal(t, 18, cfg.Map.MaxZoom)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, ":8080", cfg.GetServerAddr())
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 9000, Env: "production"},
		Decoder: DecoderConfig{BaseURL: "http://decoder:5000", RequestTimeout: 5},
		Map:     MapConfig{Palette: map[string]string{"C": "green"}, MaxZoom: 12},
	}
	cfg.applyDefaults()

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://decoder:5000", cfg.Decoder.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.DecoderTimeout())
	assert.Equal(t, map[string]string{"C": "green"}, cfg.Map.Palette)
	assert.Equal(t, 12, cfg.Map.MaxZoom)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9191")
	t.Setenv("DECODER_BASE_URL", "http://decoder.test")
	t.Setenv("SIGNAL_PALETTE", "A:navy")
	t.Setenv("SESSION_IDLE_TTL", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "http://decoder.test", cfg.Decoder.BaseURL)
	assert.Equal(t, map[string]string{"A": "navy"}, cfg.Map.Palette)
	assert.Equal(t, time.Minute, cfg.Session.IdleTTL)
}
