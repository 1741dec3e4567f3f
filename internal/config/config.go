package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/models"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config represents the application configuration
type Config struct {
	Stacks   map[string]StackSettings `mapstructure:"stacks"`
	CABundle string                   `mapstructure:"ca_bundle"`
	Cache    CacheConfig              `mapstructure:"cache"`
	Retry    RetryConfig              `mapstructure:"retry"`
	Output   OutputConfig             `mapstructure:"output"`
}

// StackSettings holds the credentials of one stack. Name overrides the map
// key for display, since config keys are case-folded.
type StackSettings struct {
	Name      string `mapstructure:"name"`
	URL       string `mapstructure:"url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	CABundle  string `mapstructure:"ca_bundle"`
}

// CacheConfig represents tenant cache configuration
type CacheConfig struct {
	Directory string        `mapstructure:"directory"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// RetryConfig controls the request executor's retry policy
type RetryConfig struct {
	Statuses []int         `mapstructure:"statuses"`
	Attempts int           `mapstructure:"attempts"`
	Delay    time.Duration `mapstructure:"delay"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Format string `mapstructure:"format"` // table, json, csv
	Color  bool   `mapstructure:"color"`
}

// Defaults
const (
	DefaultCacheTTL      = 8 * time.Hour
	DefaultRetryAttempts = 2
	DefaultRetryDelay    = 16 * time.Second
)

// DefaultRetryStatuses are retried with a fixed delay. 401 is included to
// match the platform tooling this replaces, although a rejected token will
// not recover on retry.
var DefaultRetryStatuses = []int{401, 429, 500, 502, 503, 504}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ca_bundle", "")
	v.SetDefault("cache.directory", os.TempDir())
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("retry.statuses", DefaultRetryStatuses)
	v.SetDefault("retry.attempts", DefaultRetryAttempts)
	v.SetDefault("retry.delay", DefaultRetryDelay)
	v.SetDefault("output.format", "table")
	v.SetDefault("output.color", true)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError("unable to read configuration", err)
	}

	if config.Cache.TTL <= 0 {
		config.Cache.TTL = DefaultCacheTTL
	}
	if len(config.Retry.Statuses) == 0 {
		config.Retry.Statuses = DefaultRetryStatuses
	}
	if config.Retry.Attempts < 0 {
		config.Retry.Attempts = DefaultRetryAttempts
	}

	config.Cache.Directory = expandPath(config.Cache.Directory)
	config.CABundle = expandPath(config.CABundle)

	logger.GetLogger().Debug("Configuration loaded",
		zap.Int("stacks", len(config.Stacks)),
		zap.String("cache_directory", config.Cache.Directory),
		zap.Duration("cache_ttl", config.Cache.TTL),
		zap.Ints("retry_statuses", config.Retry.Statuses),
		zap.Int("retry_attempts", config.Retry.Attempts),
		zap.Duration("retry_delay", config.Retry.Delay))

	return &config, nil
}

// StackConfigs returns the configured stacks ordered by name. Config maps
// carry no order, so name order keeps sweeps deterministic.
func (c *Config) StackConfigs() []models.StackConfig {
	stacks := make([]models.StackConfig, 0, len(c.Stacks))
	for key, s := range c.Stacks {
		name := s.Name
		if name == "" {
			name = key
		}
		stacks = append(stacks, models.StackConfig{
			Name:      name,
			URL:       strings.TrimRight(s.URL, "/"),
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			CABundle:  expandPath(s.CABundle),
		})
	}
	sort.Slice(stacks, func(i, j int) bool {
		return strings.ToLower(stacks[i].Name) < strings.ToLower(stacks[j].Name)
	})
	return stacks
}

// expandPath expands tilde (~) in file paths
func expandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}
