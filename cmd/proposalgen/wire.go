package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentcraft/proposalgen/internal/config"
	"github.com/talentcraft/proposalgen/internal/generate"
	"github.com/talentcraft/proposalgen/internal/llm"
	"github.com/talentcraft/proposalgen/internal/proposal"
	"github.com/talentcraft/proposalgen/internal/research"
)

// app holds the services shared by the serve and generate commands.
type app struct {
	gen      llm.Generator
	stats    *llm.Stats
	service  *generate.Service
	renderer *proposal.Renderer
}

func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	theme, err := proposal.LoadTheme(cfg.ThemeFile)
	if err != nil {
		return nil, err
	}

	stats := llm.NewStats(time.Hour)
	gen, err := llm.New(ctx, cfg, stats, log)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	researcher, err := research.NewFromConfig(ctx, cfg, log)
	if err != nil {
		gen.Close()
		return nil, err
	}

	return &app{
		gen:   gen,
		stats: stats,
		service: generate.NewService(gen, researcher, generate.Options{
			MaxResults:    cfg.SearchMaxResults,
			ContextTokens: cfg.ScrapeMaxTokens,
			Logger:        log,
		}),
		renderer: proposal.NewRenderer(theme),
	}, nil
}

func (a *app) Close() error {
	return a.gen.Close()
}
