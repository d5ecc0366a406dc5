package commands

import (
	"context"
	"fmt"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/bootstrap"
)

// openApp wires the assistant from the loaded configuration.
func openApp(ctx context.Context) (*bootstrap.App, error) {
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize assistant: %w", err)
	}
	return app, nil
}
