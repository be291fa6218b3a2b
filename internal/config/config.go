// Package config loads client configuration from file, environment and
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tethrai/tethr-go/internal/models"
)

const (
	appName          = "tethr"
	defaultTimeout   = 60 * time.Second
	defaultRateLimit = 1.0 // sends per second
)

// Config is the client configuration.
type Config struct {
	// BaseURL is the chat service endpoint.
	BaseURL string `mapstructure:"base_url"`
	// DefaultModel preselects the model before the first catalog refresh.
	DefaultModel string `mapstructure:"default_model"`
	// Workspace optionally preselects a workspace scope by ID.
	Workspace int `mapstructure:"workspace"`
	// RequestTimeout bounds each service call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// SendRate caps client-side sends per second; zero disables the limit.
	SendRate float64 `mapstructure:"send_rate"`
	// Debug enables verbose logging.
	Debug bool `mapstructure:"debug"`
}

// Load reads configuration from the given file, or from the default search
// paths when path is empty. A missing config file is not an error; defaults
// and TETHR_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("default_model", models.DefaultModelID)
	v.SetDefault("request_timeout", defaultTimeout)
	v.SetDefault("send_rate", defaultRateLimit)

	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
