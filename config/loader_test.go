/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testServiceConfig struct {
	Endpoint string
	Timeout  time.Duration
	MaxSize  BytesCount
	Tags     []string

	keyPrefix string
}

func (c *testServiceConfig) KeyPrefix() string {
	return c.keyPrefix
}

func (c *testServiceConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("timeout", "30s")
	dp.SetDefault("maxSize", "1M")
}

func (c *testServiceConfig) Set(dp DataProvider) error {
	var err error
	if c.Endpoint, err = dp.GetString("endpoint"); err != nil {
		return err
	}
	if c.Timeout, err = dp.GetDuration("timeout"); err != nil {
		return err
	}
	if c.MaxSize, err = dp.GetBytesCount("maxSize"); err != nil {
		return err
	}
	if c.Tags, err = dp.GetStringSlice("tags"); err != nil {
		return err
	}
	return nil
}

func TestLoaderLoadFromReader(t *testing.T) {
	cfgData := bytes.NewBufferString(`
service:
  endpoint: https://example.com/api
  timeout: 5s
  tags:
    - a
    - b
`)
	cfg := &testServiceConfig{keyPrefix: "service"}
	err := NewDefaultLoader("").LoadFromReader(cfgData, DataTypeYAML, cfg)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api", cfg.Endpoint)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, BytesCount(1024*1024), cfg.MaxSize, "default should be applied")
	require.Equal(t, []string{"a", "b"}, cfg.Tags)
}

func TestViperAdapterGetStringFromSet(t *testing.T) {
	va := NewViperAdapter()
	va.Set("alg", "fixed_window")

	got, err := va.GetStringFromSet("alg", []string{"fixed_window", "token_bucket"}, true)
	require.NoError(t, err)
	require.Equal(t, "fixed_window", got)

	_, err = va.GetStringFromSet("alg", []string{"token_bucket"}, true)
	require.EqualError(t, err, `alg: unknown value "fixed_window", should be one of [token_bucket]`)
}

func TestBytesCountUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    BytesCount
		wantErr bool
	}{
		{"integer", `1024`, BytesCount(1024), false},
		{"human-readable", `"10MB"`, BytesCount(10 * 1024 * 1024), false},
		{"negative", `-5`, 0, true},
		{"garbage", `"foobar"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BytesCount
			err := b.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, b)
		})
	}
}
