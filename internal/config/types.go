package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/gameforge/internal/logging"
	"github.com/fyrsmithlabs/gameforge/internal/telemetry"
)

// Config is the root configuration for gameforge.
type Config struct {
	Project   ProjectConfig    `koanf:"project"`
	Pipeline  PipelineConfig   `koanf:"pipeline"`
	Generator GeneratorConfig  `koanf:"generator"`
	Logging   logging.Config   `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

// ProjectConfig controls where generated projects are written.
type ProjectConfig struct {
	// OutputDir is the base directory for generated projects (default: games)
	OutputDir string `koanf:"output_dir"`
}

// PipelineConfig controls the iteration controller.
type PipelineConfig struct {
	// MaxFixRounds bounds repair attempts before forced publication (default: 3)
	MaxFixRounds int `koanf:"max_fix_rounds"`

	// GeneratorTimeout bounds a single generation call (default: 5m)
	GeneratorTimeout time.Duration `koanf:"generator_timeout"`
}

// GeneratorConfig configures the LLM generation capability.
type GeneratorConfig struct {
	// Provider selects the backend: anthropic, openai (default: anthropic)
	Provider string `koanf:"provider"`

	// Model overrides the provider's default model.
	Model string `koanf:"model"`

	// APIKey authenticates against the provider. Usually set via
	// GENERATOR_API_KEY rather than the config file.
	APIKey string `koanf:"api_key"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `koanf:"base_url"`

	// MaxTokens caps response length (default: 4096)
	MaxTokens int `koanf:"max_tokens"`

	// Temperature is the sampling temperature (default: 0.3)
	Temperature float64 `koanf:"temperature"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Project.OutputDir == "" {
		return fmt.Errorf("project output_dir must not be empty")
	}
	if c.Pipeline.MaxFixRounds < 0 {
		return fmt.Errorf("pipeline max_fix_rounds must be >= 0, got %d", c.Pipeline.MaxFixRounds)
	}
	if c.Pipeline.GeneratorTimeout <= 0 {
		return fmt.Errorf("pipeline generator_timeout must be > 0, got %s", c.Pipeline.GeneratorTimeout)
	}
	switch c.Generator.Provider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("generator provider must be 'anthropic' or 'openai', got %q", c.Generator.Provider)
	}
	if c.Generator.MaxTokens <= 0 {
		return fmt.Errorf("generator max_tokens must be > 0, got %d", c.Generator.MaxTokens)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}
