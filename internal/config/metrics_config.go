package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

func (config MetricsConfig) validate() error {
	if config.ListenAddr == "" {
		return fmt.Errorf("missing variable: metrics listen_addr")
	}
	return nil
}

func (config MetricsConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("metrics.listen_addr", "METRICS_LISTEN_ADDR")
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
