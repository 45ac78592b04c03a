package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings for the brochure server and CLI.
type Config struct {
	Port           string `mapstructure:"port"`
	UploadsDir     string `mapstructure:"uploads_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	LogLevel       string `mapstructure:"log_level"`

	// Photo labeling collaborator
	LabelProvider string `mapstructure:"label_provider"`
	LabelModel    string `mapstructure:"label_model"`
	OllamaURL     string `mapstructure:"ollama_url"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:           "8888",
		UploadsDir:     "uploads",
		MaxUploadBytes: 10 * 1024 * 1024,
		LogLevel:       "info",
		LabelProvider:  "ollama",
		OllamaURL:      "http://localhost:11434",
	}
}

// Load reads defaults, an optional config file and BROCHURER_* environment
// variables, in increasing order of precedence. An empty cfgFile searches
// for brochurer.yaml in the working directory and $HOME/.brochurer.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("port", defaults.Port)
	v.SetDefault("uploads_dir", defaults.UploadsDir)
	v.SetDefault("max_upload_bytes", defaults.MaxUploadBytes)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("label_provider", defaults.LabelProvider)
	v.SetDefault("label_model", defaults.LabelModel)
	v.SetDefault("ollama_url", defaults.OllamaURL)

	v.SetEnvPrefix("BROCHURER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("brochurer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.brochurer")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		slog.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
