package infra

import (
	"context"

	"github.com/dualspace/launcher/internal/config"
	"github.com/dualspace/launcher/internal/polish"
)

// NewGenerator returns the Gemini generator, or nil when no API key is
// configured so texts are served unpolished. Callers close the result when
// it implements io.Closer.
func NewGenerator(ctx context.Context, cfg config.GeminiConfig) (polish.Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	gen, err := polish.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
