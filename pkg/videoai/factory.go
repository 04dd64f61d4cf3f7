package videoai

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
)

// NewFromConfig builds the configured provider client wrapped in a
// GuardedModel.
func NewFromConfig(cfg *config.AIConfig, logger *zap.Logger) (*GuardedModel, error) {
	var (
		inner VideoModel
		err   error
	)

	switch cfg.Provider {
	case "openai":
		inner, err = NewOpenAIClient(&OpenAIConfig{
			Endpoint:    cfg.Endpoint,
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, logger)
	case "anthropic":
		inner, err = NewAnthropicClient(&AnthropicConfig{
			Endpoint:    cfg.Endpoint,
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return NewGuardedModel(inner, nil, logger), nil
}
