package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/blending"
	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/engine"
	"github.com/jonathan/match-engine/internal/providers"
	"github.com/jonathan/match-engine/internal/scoring"
	"github.com/jonathan/match-engine/internal/store"
)

// buildEngine assembles the full pipeline from configuration. Providers
// without credentials are skipped; the engine degrades to ml_only when
// none is configured.
func buildEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*engine.Engine, func(), error) {
	var provs []providers.Provider
	for _, name := range cfg.ProviderOrder {
		p, err := buildProvider(ctx, cfg, name)
		if err != nil {
			return nil, nil, err
		}
		if p != nil {
			provs = append(provs, p)
		}
	}
	if len(provs) == 0 {
		logger.Warn("no provider credentials configured, running ml_only")
	}

	sharedCache := cache.New()
	selector := providers.NewSelector(provs, sharedCache, logger)

	adapter, err := scoring.NewAdapter(scoring.RubricScore, cfg.ScoringWeights)
	if err != nil {
		return nil, nil, err
	}

	deps := engine.Deps{
		ML:      adapter,
		LLM:     selector,
		Blender: blending.NewBlender(blending.AliasNormalizer{}).WithFailureThreshold(cfg.FailureThreshold),
		Cache:   sharedCache,
		Logger:  logger,
	}

	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect match store: %w", err)
		}
		deps.Store = pg
		cleanup = pg.Close
	}

	eng, err := engine.New(deps)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return eng, cleanup, nil
}

// buildProvider constructs one named provider, or nil when its credential
// is absent.
func buildProvider(ctx context.Context, cfg *config.Config, name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		return providers.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, nil
		}
		return providers.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, nil
		}
		return providers.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
