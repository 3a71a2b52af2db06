package generate

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default client behavior shared by both providers.
const (
	defaultAnthropicModel   = "claude-sonnet-4-5"
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultOpenAIModel      = "gpt-4o"
	defaultOpenAIBaseURL    = "https://api.openai.com"

	defaultMaxTokens   = 4096
	defaultTemperature = 0.3
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
)

// Rate limiter defaults: 50 requests per minute for both APIs.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// Mode selects which artifact a generation call produces.
type Mode string

const (
	// ModeDesign produces the game design document from a concept.
	ModeDesign Mode = "design"
	// ModeImplement produces the game source from the design.
	ModeImplement Mode = "implement"
	// ModeRequirements produces the dependency manifest from the source.
	ModeRequirements Mode = "requirements"
	// ModeFix produces a corrected full source from the evaluation report.
	ModeFix Mode = "fix"
	// ModePublish produces the user-facing publication summary.
	ModePublish Mode = "publish"
)

// Request carries the inputs for one generation call. Which fields are
// required depends on the mode; BuildPrompt rejects requests with missing
// inputs.
type Request struct {
	Mode        Mode
	Concept     string
	ProjectName string

	// Design, Implementation and Report carry the latest artifact contents
	// for modes that revise or summarize prior output.
	Design         string
	Implementation string
	Report         string
}

// Generator produces artifact content from a request.
//
// Implementations must honor context cancellation and deadlines. The returned
// string is raw model output; callers run it through Clean before storing it.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config configures a generation client.
type Config struct {
	// Provider selects the backend: anthropic or openai.
	Provider string

	// Model overrides the provider default.
	Model string

	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// MaxTokens caps response length (default 4096).
	MaxTokens int

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64
}

// New creates a generator for the configured provider.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicClient(cfg)
	case "openai":
		return newOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// retryableError marks an error as transient so the retry loop knows to
// continue.
type retryableError struct {
	err error
}

func (r *retryableError) Error() string {
	return r.err.Error()
}

func (r *retryableError) Unwrap() error {
	return r.err
}

// isRetryableError reports whether the retry loop should continue after err.
func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
