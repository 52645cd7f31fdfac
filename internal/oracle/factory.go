package oracle

import (
	"fmt"
	"strings"

	"github.com/reliefscout/reliefscout/internal/model"
)

// NewProvider creates an oracle provider based on configuration.
// An empty provider name disables the oracle: the adapter then degrades
// every classification to the safe default.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		p, err := NewOllamaProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.OracleConfig to oracle.Config
func ConfigFromModel(cfg model.OracleConfig) Config {
	return Config{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		MaxTokens: cfg.MaxTokens,
	}
}
