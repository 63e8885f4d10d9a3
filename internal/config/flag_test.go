package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name        string
		args        []string
		expected    func() *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-s", "memory:", "-q", "1024", "-k", "key", "-m", "m1", "-t", "5", "-d", "0",
				"-n", "3", "-u", "http://cam/snap", "-l", "debug", "-e", "http://minio:9000", "-g", "eu-west-1"},
			expected: func() *Config {
				c := base()
				c.StoreDSN = "memory:"
				c.StoreQuotaBytes = 1024
				c.GeminiAPIKey = "key"
				c.GeminiModel = "m1"
				c.ClassifyTimeout = 5 * time.Second
				c.AuthLatency = 0
				c.HistoryCapacity = 3
				c.CameraURL = "http://cam/snap"
				c.LogLevel = "debug"
				c.S3Endpoint = "http://minio:9000"
				c.S3Region = "eu-west-1"
				return c
			},
		},
		{
			name:     "config flag is ignored here",
			args:     []string{"-c", "cfg.json", "-l", "warn"},
			expected: func() *Config { c := base(); c.LogLevel = "warn"; return c },
		},
		{
			name:     "no flags keeps defaults",
			args:     nil,
			expected: base,
		},
		{
			name:        "bad timeout",
			args:        []string{"-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected(), cfg))
		})
	}
}
