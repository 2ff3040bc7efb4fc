package app

import (
	"context"

	"gosheet/internal/config"
	"gosheet/internal/container"
	"gosheet/internal/errors"
	"gosheet/ui"
)

// Serve builds the container and runs the HTTP application until ctx ends
func Serve(ctx context.Context, cfg *config.Config) error {
	c, err := container.New(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to create application container")
	}
	if err := c.Init(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize container")
	}
	defer c.Shutdown(context.Background())

	server := ui.NewServer(ui.ServerDeps{
		Documents: c.Documents,
		Assistant: c.Assistant,
		Hub:       c.SSEHub,
		Grid:      cfg.Grid,
		GinMode:   cfg.Server.GinMode,
	})
	return ui.NewApp(ui.Config{Port: cfg.Server.Port}, server).Start(ctx)
}
