package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the server consumes from the environment. The
// store itself only ever sees DataDir and MaxUploadBytes, passed in at
// construction.
type Config struct {
	Port           int      `mapstructure:"port"`
	DataDir        string   `mapstructure:"data_dir"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

// Load reads configuration from STORYBOOK_-prefixed environment variables,
// falling back to defaults that match the reference deployment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 9998)
	v.SetDefault("data_dir", "data")
	v.SetDefault("max_upload_bytes", int64(50<<20)) // Base64-inflated uploads get large
	v.SetDefault("cors_origins", []string{"*"})

	v.SetEnvPrefix("STORYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir must not be empty")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive")
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
