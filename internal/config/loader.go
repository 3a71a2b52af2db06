// Package config provides configuration loading for gameforge.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/gameforge/internal/logging"
	"github.com/fyrsmithlabs/gameforge/internal/telemetry"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load loads configuration from an optional YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PIPELINE_MAX_FIX_ROUNDS, GENERATOR_API_KEY, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// Environment variables use an underscore separator and are uppercased; the
// first underscore splits the section from the field name:
//
//	PIPELINE_MAX_FIX_ROUNDS -> pipeline.max_fix_rounds
//	GENERATOR_API_KEY       -> generator.api_key
//	LOGGING_LEVEL           -> logging.level
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			f, err := os.Open(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to open config file: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("failed to stat config file: %w", err)
			}
			if info.Size() > maxConfigFileSize {
				return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
			}

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	// Override with environment variables
	if err := k.Load(env.Provider("", ".", func(s string) string {
		// Split on first underscore only (section.field_name pattern)
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Project.OutputDir == "" {
		cfg.Project.OutputDir = "games"
	}

	if cfg.Pipeline.MaxFixRounds == 0 {
		cfg.Pipeline.MaxFixRounds = 3
	}
	if cfg.Pipeline.GeneratorTimeout == 0 {
		cfg.Pipeline.GeneratorTimeout = 5 * time.Minute
	}

	if cfg.Generator.Provider == "" {
		cfg.Generator.Provider = "anthropic"
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 4096
	}
	if cfg.Generator.Temperature == 0 {
		cfg.Generator.Temperature = 0.3
	}

	if cfg.Logging.Level == "" && cfg.Logging.Format == "" {
		cfg.Logging = *logging.NewDefaultConfig()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	defaults := telemetry.NewDefaultConfig()
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = defaults.ServiceName
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = defaults.ServiceVersion
	}
	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = defaults.Endpoint
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = defaults.Protocol
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = defaults.SampleRate
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = defaults.MetricsInterval
	}
}
