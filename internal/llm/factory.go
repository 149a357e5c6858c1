package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// timeout, retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → logging → base
	logged := WithLogging(base, cfg.Provider, events, log)
	retried := WithRetry(logged, cfg.Retry, log)
	return WithTimeout(retried, cfg.Timeout), nil
}
