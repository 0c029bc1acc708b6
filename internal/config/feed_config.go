package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
	"net/url"
	"time"
)

type FeedConfig struct {
	URL                  string        `mapstructure:"url"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
	Timeout              time.Duration `mapstructure:"timeout"`
}

func (config FeedConfig) validate() error {
	var errs []error

	if config.URL == "" {
		errs = append(errs, fmt.Errorf("missing variable: feed url"))
	} else if parsed, err := url.Parse(config.URL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("invalid feed url: %s", config.URL))
	}

	if config.MaxRequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("max_requests_per_second must be positive"))
	}

	if config.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config FeedConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("feed.url", "FEED_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("feed.max_requests_per_second", "FEED_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("feed.timeout", "FEED_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
