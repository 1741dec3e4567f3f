package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
)

const configYAML = `
ca_bundle: /etc/ssl/global.pem
stacks:
  app2:
    url: https://api2.example.com/
    access_key: ak2
    secret_key: sk2
  app:
    name: APP
    url: https://api.example.com
    access_key: ak
    secret_key: sk
    ca_bundle: /etc/ssl/app.pem
  app-eu:
    name: app.eu
    url: https://api.eu.example.com
cache:
  directory: /var/tmp/pcs
retry:
  delay: 1ms
`

func loadTestConfig(t *testing.T, raw string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBufferString(raw)))
	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigFrom(t *testing.T) {
	cfg := loadTestConfig(t, configYAML)

	assert.Equal(t, "/etc/ssl/global.pem", cfg.CABundle)
	assert.Equal(t, "/var/tmp/pcs", cfg.Cache.Directory)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultRetryStatuses, cfg.Retry.Statuses)
	assert.Equal(t, DefaultRetryAttempts, cfg.Retry.Attempts)
	assert.Equal(t, time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.Len(t, cfg.Stacks, 3)
}

func TestConfig_StackConfigs(t *testing.T) {
	cfg := loadTestConfig(t, configYAML)

	stacks := cfg.StackConfigs()
	require.Len(t, stacks, 3)

	assert.Equal(t, "APP", stacks[0].Name)
	assert.Equal(t, "/etc/ssl/app.pem", stacks[0].CABundle)
	assert.Equal(t, "app.eu", stacks[1].Name)
	assert.False(t, stacks[1].Credentialed())
	assert.Equal(t, "app2", stacks[2].Name)
	assert.Equal(t, "https://api2.example.com", stacks[2].URL, "trailing slash is trimmed")
}

func TestBuildRunConfig(t *testing.T) {
	cfg := loadTestConfig(t, configYAML)

	rc, err := BuildRunConfig(cfg, Options{Stack: "app", Cache: true, Debug: true})
	require.NoError(t, err)

	assert.True(t, rc.CacheEnabled)
	assert.True(t, rc.Debug)
	assert.Equal(t, "name", rc.Sort)
	assert.Equal(t, "table", rc.Format)
	assert.Equal(t, "/var/tmp/pcs", rc.CacheDir)
	assert.Equal(t, 8*time.Hour, rc.CacheTTL)
	assert.True(t, rc.Selected(rc.Stacks[0]))
	assert.False(t, rc.Selected(rc.Stacks[2]))

	assert.Equal(t, "/etc/ssl/app.pem", rc.CABundleFor(rc.Stacks[0]))
	assert.Equal(t, "/etc/ssl/global.pem", rc.CABundleFor(rc.Stacks[2]))
}

func TestBuildRunConfig_CABundleFlagOverridesConfig(t *testing.T) {
	cfg := loadTestConfig(t, configYAML)

	rc, err := BuildRunConfig(cfg, Options{CABundle: "/tmp/flag.pem"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.pem", rc.CABundleFor(rc.Stacks[2]))
	assert.Equal(t, "/etc/ssl/app.pem", rc.CABundleFor(rc.Stacks[0]), "per-stack override still wins")
}

func TestBuildRunConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		opts    Options
		errType errors.ErrorType
	}{
		{
			name:    "stack filter names uncredentialed stack",
			raw:     configYAML,
			opts:    Options{Stack: "app.eu"},
			errType: errors.ErrorTypeConfig,
		},
		{
			name: "no credentialed stack",
			raw: `
stacks:
  app:
    url: https://api.example.com
`,
			errType: errors.ErrorTypeConfig,
		},
		{
			name:    "bad sort",
			raw:     configYAML,
			opts:    Options{Sort: "email"},
			errType: errors.ErrorTypeValidation,
		},
		{
			name:    "bad format",
			raw:     configYAML,
			opts:    Options{Format: "xml"},
			errType: errors.ErrorTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadTestConfig(t, tt.raw)
			_, err := BuildRunConfig(cfg, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}
