package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
	"time"
)

type BotConfig struct {
	Token string `mapstructure:"token"`
	// SessionIdleTimeout is how long a chat may stay silent before its session
	// (and with it the saved jobs) is dropped.
	SessionIdleTimeout time.Duration `mapstructure:"session_idle_timeout"`
	ConfirmationTTL    time.Duration `mapstructure:"confirmation_ttl"`
}

func (config BotConfig) validate() error {

	var missingFields []string

	if config.Token == "" {
		missingFields = append(missingFields, "token")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session_idle_timeout must be positive")
	}

	if config.ConfirmationTTL <= 0 {
		return fmt.Errorf("confirmation_ttl must be positive")
	}

	return nil
}

func (config BotConfig) bindEnvironmentVariables() error {
	var errs []error
	if err := viper.BindEnv("bot.token", "TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("bot.session_idle_timeout", "SESSION_IDLE_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("bot.confirmation_ttl", "CONFIRMATION_TTL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
