package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DockerConfig holds settings for the spawned CLI.
type DockerConfig struct {
	Binary string `mapstructure:"binary"`
}

// StreamConfig holds settings for the relay between a process and its
// consumer.
type StreamConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

// StatsConfig holds settings for stats aggregation.
type StatsConfig struct {
	HistorySize   int `mapstructure:"history_size"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"log_level"`
}

// Config is the top-level configuration struct.
type Config struct {
	Docker  DockerConfig  `mapstructure:"docker"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Stats   StatsConfig   `mapstructure:"stats"`
	Logging LoggingConfig `mapstructure:"log"`
}

// InitConfig performs the initial configuration: setting defaults, specifying the config file, and reading it.
func InitConfig() error {
	viper.SetDefault("docker.binary", "docker")
	viper.SetDefault("stream.buffer_size", 256)
	viper.SetDefault("stats.history_size", 120)
	viper.SetDefault("stats.window_seconds", 60)
	viper.SetDefault("log.log_level", "INFO")

	// Specify the config file details.
	viper.SetConfigName("config") // Looks for config.yaml
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // current directory

	// Read the config file if available.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// If the file is not found, just continue with defaults and env vars.
	}

	// Enable automatic environment variable binding.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the configuration into the Config struct.
func Load() (*Config, error) {
	if err := InitConfig(); err != nil {
		return nil, err
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &config, nil
}
