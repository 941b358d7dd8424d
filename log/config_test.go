/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ismp-tools/go-crpt/config"
)

func TestConfigSetFromYAML(t *testing.T) {
	cfgData := `
log:
  level: warn
  format: text
  output: file
  file:
    path: /var/log/crpt-client.log
    rotation:
      compress: true
      maxSize: 100M
      maxBackups: 5
      maxAgeDays: 7
  addCaller: true
  masking:
    enabled: true
    rules:
      - field: token
        formats: [json]
`
	cfg := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte(cfgData)), config.DataTypeYAML, cfg)
	require.NoError(t, err)

	require.Equal(t, LevelWarn, cfg.Level)
	require.Equal(t, FormatText, cfg.Format)
	require.Equal(t, OutputFile, cfg.Output)
	require.Equal(t, "/var/log/crpt-client.log", cfg.File.Path)
	require.True(t, cfg.File.Rotation.Compress)
	require.Equal(t, config.BytesCount(100*1024*1024), cfg.File.Rotation.MaxSize)
	require.Equal(t, 5, cfg.File.Rotation.MaxBackups)
	require.Equal(t, 7, cfg.File.Rotation.MaxAgeDays)
	require.True(t, cfg.AddCaller)
	require.True(t, cfg.Masking.Enabled)
	require.True(t, cfg.Masking.UseDefaultRules)
	require.Len(t, cfg.Masking.Rules, 1)
	require.Equal(t, "token", cfg.Masking.Rules[0].Field)
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte("{}")), config.DataTypeYAML, cfg)
	require.NoError(t, err)

	require.Equal(t, LevelInfo, cfg.Level)
	require.Equal(t, FormatJSON, cfg.Format)
	require.Equal(t, OutputStdout, cfg.Output)
	require.Equal(t, config.BytesCount(DefaultFileRotationMaxSizeBytes), cfg.File.Rotation.MaxSize)
	require.Equal(t, DefaultFileRotationMaxBackups, cfg.File.Rotation.MaxBackups)
	require.False(t, cfg.Masking.Enabled)
}

func TestConfigSetErrors(t *testing.T) {
	tests := []struct {
		Name    string
		Data    string
		WantErr string
	}{
		{
			Name: "unknown level",
			Data: `
log:
  level: verbose
`,
			WantErr: `log.level: unknown value "verbose"`,
		},
		{
			Name: "file output without path",
			Data: `
log:
  output: file
`,
			WantErr: `log.file.path: cannot be empty`,
		},
		{
			Name: "rotation max size too small",
			Data: `
log:
  file:
    path: /tmp/test.log
    rotation:
      maxSize: 1K
`,
			WantErr: `log.file.rotation.maxSize: should be >= 1M`,
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			cfg := NewConfig()
			err := config.NewDefaultLoader("").LoadFromReader(
				bytes.NewReader([]byte(tt.Data)), config.DataTypeYAML, cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.WantErr)
		})
	}
}
