// Package config provides Viper-based hierarchical configuration management:
// defaults, then an optional config file, then HKSTMT_* environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/hkstmt/internal/logging"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Pdftotext struct {
		Binary string `mapstructure:"binary" yaml:"binary"`
	} `mapstructure:"pdftotext" yaml:"pdftotext"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Server struct {
		Addr  string `mapstructure:"addr" yaml:"addr"`
		Token string `mapstructure:"token" yaml:"-"` // never serialize the token
	} `mapstructure:"server" yaml:"server"`
}

// Load initializes Viper configuration with hierarchical loading.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.hkstmt")
	v.AddConfigPath(".hkstmt")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HKSTMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going on a broken config file; defaults and env still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The API token always comes from the environment, unprefixed.
	if err := v.BindEnv("server.token", "HKSTMT_API_TOKEN"); err != nil {
		fmt.Printf("Warning: failed to bind HKSTMT_API_TOKEN environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("pdftotext.binary", "pdftotext")

	v.SetDefault("data.directory", "data")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.token", "")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	if config.Pdftotext.Binary == "" {
		return fmt.Errorf("pdftotext.binary must not be empty")
	}
	return nil
}

// NewLogger builds the application logger from the configured level and
// format.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
