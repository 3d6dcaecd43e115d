/**
 * @description
 * This package handles the configuration management for the fixed-deposit
 * service. It uses the Viper library to read configuration from environment
 * variables (plus an optional .env file), providing a centralized and
 * straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Clock modes.
const (
	ClockModeSystem     = "system"
	ClockModeAdjustable = "adjustable"
)

// Config holds all the configuration variables for the fixed-deposit service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	RedisURL              string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix  string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	EventExchange         string `mapstructure:"EVENT_EXCHANGE"`
	JWKSURL               string `mapstructure:"JWKS_URL"`
	JWTAudience           string `mapstructure:"JWT_AUDIENCE"`
	JWTIssuer             string `mapstructure:"JWT_ISSUER"`
	InternalAPIKey        string `mapstructure:"INTERNAL_API_KEY"`
	CalculationServiceURL string `mapstructure:"CALCULATION_SERVICE_URL"`
	ProductServiceURL     string `mapstructure:"PRODUCT_SERVICE_URL"`
	CustomerServiceURL    string `mapstructure:"CUSTOMER_SERVICE_URL"`
	ClockMode             string `mapstructure:"CLOCK_MODE"`
	TimeZone              string `mapstructure:"TIME_ZONE"`
	SchedulerTickSeconds  int    `mapstructure:"SCHEDULER_TICK_SECONDS"`
	BatchPageSize         int    `mapstructure:"BATCH_PAGE_SIZE"`
	AdminRateLimitPerMin  int    `mapstructure:"ADMIN_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8086")
	viper.SetDefault("EVENT_EXCHANGE", "fd_service.events")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "fd_service:rate_limit")
	viper.SetDefault("CLOCK_MODE", ClockModeSystem)
	viper.SetDefault("TIME_ZONE", "UTC")
	viper.SetDefault("SCHEDULER_TICK_SECONDS", 60)
	viper.SetDefault("BATCH_PAGE_SIZE", 200)
	viper.SetDefault("ADMIN_RATE_LIMIT_PER_MINUTE", 60)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("EVENT_EXCHANGE")
	_ = viper.BindEnv("JWKS_URL")
	_ = viper.BindEnv("JWT_AUDIENCE")
	_ = viper.BindEnv("JWT_ISSUER")
	_ = viper.BindEnv("INTERNAL_API_KEY")
	_ = viper.BindEnv("CALCULATION_SERVICE_URL")
	_ = viper.BindEnv("PRODUCT_SERVICE_URL")
	_ = viper.BindEnv("CUSTOMER_SERVICE_URL")
	_ = viper.BindEnv("CLOCK_MODE")
	_ = viper.BindEnv("TIME_ZONE")
	_ = viper.BindEnv("SCHEDULER_TICK_SECONDS")
	_ = viper.BindEnv("BATCH_PAGE_SIZE")
	_ = viper.BindEnv("ADMIN_RATE_LIMIT_PER_MINUTE")

	// The .env file is optional; a missing file is not an error.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	if err = viper.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	switch config.ClockMode {
	case ClockModeSystem, ClockModeAdjustable:
	default:
		return Config{}, fmt.Errorf("CLOCK_MODE must be %q or %q, got %q", ClockModeSystem, ClockModeAdjustable, config.ClockMode)
	}

	return config, nil
}
