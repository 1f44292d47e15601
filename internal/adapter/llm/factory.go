package llm

import (
	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/config"
)

// NewGateway creates a gateway based on the configured mode. CONDUIT_MODE=MOCK
// returns the mock client; anything else returns the real client.
func NewGateway(cfg *config.Config, logger zerolog.Logger) Gateway {
	if cfg.Mode == config.ModeMock {
		logger.Info().Msg("mock mode detected, using mock LLM gateway")
		return NewMockClient()
	}
	return NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
}
