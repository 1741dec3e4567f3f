package config

import (
	"strings"
	"time"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/validation"
)

// Options are the per-invocation values taken from the command line
type Options struct {
	Debug    bool
	Cache    bool
	Users    bool
	CABundle string
	Stack    string
	Sort     string
	Format   string
}

// RunConfig is the immutable configuration of a single run. It is built once
// from the loaded Config and the command line and passed to every component.
type RunConfig struct {
	Debug        bool
	CacheEnabled bool
	CacheDir     string
	CacheTTL     time.Duration
	CABundle     string
	StackFilter  string
	Users        bool
	Sort         string
	Format       string
	Retry        RetryConfig
	Stacks       []models.StackConfig
}

// BuildRunConfig validates opts against cfg and produces the run
// configuration. All configuration errors surface here, before any network
// activity.
func BuildRunConfig(cfg *Config, opts Options) (RunConfig, error) {
	v := validation.NewValidator()

	stacks := cfg.StackConfigs()
	if err := v.ValidateStacks(stacks, opts.Stack); err != nil {
		return RunConfig{}, err
	}

	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = validation.SortByName
	}
	if err := v.ValidateSort(sortBy); err != nil {
		return RunConfig{}, err
	}

	format := opts.Format
	if format == "" {
		format = cfg.Output.Format
	}
	if err := v.ValidateFormat(format); err != nil {
		return RunConfig{}, err
	}

	caBundle := cfg.CABundle
	if opts.CABundle != "" {
		caBundle = expandPath(opts.CABundle)
	}

	if cfg.Retry.Delay < 0 {
		return RunConfig{}, errors.NewConfigError("retry.delay must not be negative", nil)
	}

	return RunConfig{
		Debug:        opts.Debug,
		CacheEnabled: opts.Cache,
		CacheDir:     cfg.Cache.Directory,
		CacheTTL:     cfg.Cache.TTL,
		CABundle:     caBundle,
		StackFilter:  strings.TrimSpace(opts.Stack),
		Users:        opts.Users,
		Sort:         sortBy,
		Format:       format,
		Retry:        cfg.Retry,
		Stacks:       stacks,
	}, nil
}

// CABundleFor returns the CA bundle to use for stack: its own override if
// set, otherwise the run-wide bundle.
func (rc RunConfig) CABundleFor(stack models.StackConfig) string {
	if stack.CABundle != "" {
		return stack.CABundle
	}
	return rc.CABundle
}

// Selected reports whether stack passes the stack filter
func (rc RunConfig) Selected(stack models.StackConfig) bool {
	return rc.StackFilter == "" || strings.EqualFold(rc.StackFilter, stack.Name)
}
