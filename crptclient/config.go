/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crptclient

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ismp-tools/go-crpt/config"
)

// DefaultURL is the production endpoint documents are registered at.
const DefaultURL = "https://ismp.crpt.ru/api/v3/lk/documents/create"

// DefaultTimeout limits a single HTTP exchange, connection to response body.
const DefaultTimeout = 30 * time.Second

// DefaultRateLimitWaitTimeout bounds how long Submit waits for an
// admission slot before giving up with QuotaExceededError.
const DefaultRateLimitWaitTimeout = time.Minute

// Rate limiting algorithms selectable via rateLimits.alg.
const (
	AlgFixedWindow   = "fixed_window"
	AlgTokenBucket   = "token_bucket"
	AlgSlidingWindow = "sliding_window"
	AlgLeakyBucket   = "leaky_bucket"
)

var availableAlgs = []string{AlgFixedWindow, AlgTokenBucket, AlgSlidingWindow, AlgLeakyBucket}

const (
	cfgKeyURL                        = "url"
	cfgKeyTimeout                    = "timeout"
	cfgKeyRateLimitsLimit            = "rateLimits.limit"
	cfgKeyRateLimitsWindow           = "rateLimits.window"
	cfgKeyRateLimitsAlg              = "rateLimits.alg"
	cfgKeyRateLimitsBurst            = "rateLimits.burst"
	cfgKeyRateLimitsWaitTimeout      = "rateLimits.waitTimeout"
	cfgKeyLoggerEnabled              = "logger.enabled"
	cfgKeyLoggerMode                 = "logger.mode"
	cfgKeyLoggerSlowRequestThreshold = "logger.slowRequestThreshold"
	cfgKeyMetricsEnabled             = "metrics.enabled"
)

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// RateLimitConfig bounds submission throughput for the single endpoint.
type RateLimitConfig struct {
	// Limit is the maximum number of submissions per window.
	Limit int `mapstructure:"limit"`

	// Window is the length of the counting window.
	Window time.Duration `mapstructure:"window"`

	// Alg selects the limiting algorithm, fixed_window by default.
	Alg string `mapstructure:"alg"`

	// Burst allows temporary spikes for the token_bucket and leaky_bucket
	// algorithms. Ignored by fixed_window and sliding_window.
	Burst int `mapstructure:"burst"`

	// WaitTimeout is the maximum time to wait for an admission slot.
	// Zero means "do not wait": fail immediately when the quota is spent.
	WaitTimeout time.Duration `mapstructure:"waitTimeout"`
}

// Set is part of config interface implementation.
func (c *RateLimitConfig) Set(dp config.DataProvider) error {
	limit, err := dp.GetInt(cfgKeyRateLimitsLimit)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return dp.WrapKeyErr(cfgKeyRateLimitsLimit, errors.New("must be positive"))
	}
	c.Limit = limit

	window, err := dp.GetDuration(cfgKeyRateLimitsWindow)
	if err != nil {
		return err
	}
	if window <= 0 {
		return dp.WrapKeyErr(cfgKeyRateLimitsWindow, errors.New("must be positive"))
	}
	c.Window = window

	alg, err := dp.GetStringFromSet(cfgKeyRateLimitsAlg, availableAlgs, false)
	if err != nil {
		return err
	}
	c.Alg = alg

	burst, err := dp.GetInt(cfgKeyRateLimitsBurst)
	if err != nil {
		return err
	}
	if burst < 0 {
		return dp.WrapKeyErr(cfgKeyRateLimitsBurst, errors.New("must not be negative"))
	}
	c.Burst = burst

	waitTimeout, err := dp.GetDuration(cfgKeyRateLimitsWaitTimeout)
	if err != nil {
		return err
	}
	if waitTimeout < 0 {
		return dp.WrapKeyErr(cfgKeyRateLimitsWaitTimeout, errors.New("must not be negative"))
	}
	c.WaitTimeout = waitTimeout

	return nil
}

// SetProviderDefaults is part of config interface implementation.
func (c *RateLimitConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyRateLimitsAlg, AlgFixedWindow)
	dp.SetDefault(cfgKeyRateLimitsWaitTimeout, DefaultRateLimitWaitTimeout)
}

// LoggerConfig controls structured logging of submissions.
type LoggerConfig struct {
	// Enabled turns request logging on.
	Enabled bool `mapstructure:"enabled"`

	// Mode of logging: none, all, failed.
	Mode LoggingMode `mapstructure:"mode"`

	// SlowRequestThreshold is a threshold above which a request is logged
	// even in failed mode.
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold"`
}

// Set is part of config interface implementation.
func (c *LoggerConfig) Set(dp config.DataProvider) error {
	enabled, err := dp.GetBool(cfgKeyLoggerEnabled)
	if err != nil {
		return err
	}
	c.Enabled = enabled
	if !c.Enabled {
		return nil
	}

	mode, err := dp.GetString(cfgKeyLoggerMode)
	if err != nil {
		return err
	}
	if !LoggingMode(mode).IsValid() {
		return dp.WrapKeyErr(cfgKeyLoggerMode, errors.New("must be one of: [none, all, failed]"))
	}
	c.Mode = LoggingMode(mode)

	threshold, err := dp.GetDuration(cfgKeyLoggerSlowRequestThreshold)
	if err != nil {
		return err
	}
	if threshold < 0 {
		return dp.WrapKeyErr(cfgKeyLoggerSlowRequestThreshold, errors.New("must not be negative"))
	}
	c.SlowRequestThreshold = threshold

	return nil
}

// SetProviderDefaults is part of config interface implementation.
func (c *LoggerConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLoggerMode, string(LoggingModeFailed))
}

// MetricsConfig controls Prometheus metrics collection.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	Enabled bool `mapstructure:"enabled"`
}

// Set is part of config interface implementation.
func (c *MetricsConfig) Set(dp config.DataProvider) error {
	enabled, err := dp.GetBool(cfgKeyMetricsEnabled)
	if err != nil {
		return err
	}
	c.Enabled = enabled
	return nil
}

// SetProviderDefaults is part of config interface implementation.
func (c *MetricsConfig) SetProviderDefaults(_ config.DataProvider) {}

// Config holds all client configuration.
type Config struct {
	// URL is the registration endpoint.
	URL string `mapstructure:"url"`

	// Timeout limits one HTTP exchange.
	Timeout time.Duration `mapstructure:"timeout"`

	// RateLimits bounds submission throughput.
	RateLimits RateLimitConfig `mapstructure:"rateLimits"`

	// Logger controls request logging.
	Logger LoggerConfig `mapstructure:"logger"`

	// Metrics controls Prometheus metrics.
	Metrics MetricsConfig `mapstructure:"metrics"`

	keyPrefix string
}

// NewConfig returns a Config with defaults for the given quota:
// at most limit submissions per window.
func NewConfig(limit int, window time.Duration) *Config {
	return &Config{
		URL:     DefaultURL,
		Timeout: DefaultTimeout,
		RateLimits: RateLimitConfig{
			Limit:       limit,
			Window:      window,
			Alg:         AlgFixedWindow,
			WaitTimeout: DefaultRateLimitWaitTimeout,
		},
		Logger: LoggerConfig{Mode: LoggingModeFailed},
	}
}

// NewConfigWithKeyPrefix returns an empty Config that reads its values
// under the given key prefix.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return "client"
	}
	return c.keyPrefix
}

// SetProviderDefaults is part of config interface implementation.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyURL, DefaultURL)
	dp.SetDefault(cfgKeyTimeout, DefaultTimeout)
	c.RateLimits.SetProviderDefaults(dp)
	c.Logger.SetProviderDefaults(dp)
	c.Metrics.SetProviderDefaults(dp)
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	u, err := dp.GetString(cfgKeyURL)
	if err != nil {
		return err
	}
	c.URL = u

	timeout, err := dp.GetDuration(cfgKeyTimeout)
	if err != nil {
		return err
	}
	c.Timeout = timeout

	if err = c.RateLimits.Set(dp); err != nil {
		return err
	}
	if err = c.Logger.Set(dp); err != nil {
		return err
	}
	return c.Metrics.Set(dp)
}

// Validate checks the configuration the way constructors do.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("url must not be empty")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if c.RateLimits.Limit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimits.Limit)
	}
	if c.RateLimits.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimits.Window)
	}
	switch c.RateLimits.Alg {
	case "", AlgFixedWindow, AlgTokenBucket, AlgSlidingWindow, AlgLeakyBucket:
	default:
		return fmt.Errorf("unknown rate limiting algorithm %q", c.RateLimits.Alg)
	}
	if c.RateLimits.WaitTimeout < 0 {
		return fmt.Errorf("rate limit wait timeout must not be negative, got %s", c.RateLimits.WaitTimeout)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
