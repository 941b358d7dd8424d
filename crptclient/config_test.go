/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ismp-tools/go-crpt/config"
)

func TestConfigSetFromYAML(t *testing.T) {
	cfgData := `
client:
  url: https://staging.example.com/api/v3/lk/documents/create
  timeout: 15s
  rateLimits:
    limit: 10
    window: 1m
    alg: token_bucket
    burst: 3
    waitTimeout: 5s
  logger:
    enabled: true
    mode: all
    slowRequestThreshold: 2s
  metrics:
    enabled: true
`
	cfg := NewConfigWithKeyPrefix("client")
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte(cfgData)), config.DataTypeYAML, cfg)
	require.NoError(t, err)

	require.Equal(t, "https://staging.example.com/api/v3/lk/documents/create", cfg.URL)
	require.Equal(t, 15*time.Second, cfg.Timeout)
	require.Equal(t, 10, cfg.RateLimits.Limit)
	require.Equal(t, time.Minute, cfg.RateLimits.Window)
	require.Equal(t, AlgTokenBucket, cfg.RateLimits.Alg)
	require.Equal(t, 3, cfg.RateLimits.Burst)
	require.Equal(t, 5*time.Second, cfg.RateLimits.WaitTimeout)
	require.True(t, cfg.Logger.Enabled)
	require.Equal(t, LoggingModeAll, cfg.Logger.Mode)
	require.Equal(t, 2*time.Second, cfg.Logger.SlowRequestThreshold)
	require.True(t, cfg.Metrics.Enabled)
}

func TestConfigDefaults(t *testing.T) {
	cfgData := `
client:
  rateLimits:
    limit: 5
    window: 1s
`
	cfg := NewConfigWithKeyPrefix("client")
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte(cfgData)), config.DataTypeYAML, cfg)
	require.NoError(t, err)

	require.Equal(t, DefaultURL, cfg.URL)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, AlgFixedWindow, cfg.RateLimits.Alg)
	require.Equal(t, DefaultRateLimitWaitTimeout, cfg.RateLimits.WaitTimeout)
	require.False(t, cfg.Logger.Enabled)
	require.False(t, cfg.Metrics.Enabled)
}

func TestConfigSetErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Data    string
		WantErr string
	}{
		{
			Name: "non-positive limit",
			Data: `
client:
  rateLimits:
    limit: 0
    window: 1s
`,
			WantErr: `client.rateLimits.limit: must be positive`,
		},
		{
			Name: "non-positive window",
			Data: `
client:
  rateLimits:
    limit: 1
    window: 0s
`,
			WantErr: `client.rateLimits.window: must be positive`,
		},
		{
			Name: "bad logger mode",
			Data: `
client:
  rateLimits:
    limit: 1
    window: 1s
  logger:
    enabled: true
    mode: verbose
`,
			WantErr: `client.logger.mode: must be one of: [none, all, failed]`,
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			cfg := NewConfigWithKeyPrefix("client")
			err := config.NewDefaultLoader("").LoadFromReader(
				bytes.NewReader([]byte(tt.Data)), config.DataTypeYAML, cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.WantErr)
		})
	}
}
