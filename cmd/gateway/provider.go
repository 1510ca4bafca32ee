package main

import (
	"context"
	"fmt"

	"github.com/mind-engage/mindengage-testgen/internal/config"
	"github.com/mind-engage/mindengage-testgen/internal/provider/gemini"
	"github.com/mind-engage/mindengage-testgen/internal/provider/openai"
	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

// newProvider builds the configured backend and its candidate model list. AI_MODELS overrides
// the backend's defaults.
func newProvider(ctx context.Context, cfg config.Config) (testgen.Provider, []string, func(), error) {
	switch cfg.AIProvider {
	case "", "gemini":
		c, err := gemini.New(ctx, cfg.APIKey())
		if err != nil {
			return nil, nil, nil, err
		}
		return c, modelsOr(cfg.AIModels, testgen.DefaultModels), func() { _ = c.Close() }, nil
	case "openai":
		c, err := openai.New(cfg.APIKey())
		if err != nil {
			return nil, nil, nil, err
		}
		return c, modelsOr(cfg.AIModels, openai.DefaultModels), func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown AI_PROVIDER %q (want gemini or openai)", cfg.AIProvider)
}

func modelsOr(override, def []string) []string {
	if len(override) > 0 {
		return override
	}
	return def
}
