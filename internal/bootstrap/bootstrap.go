package bootstrap

import (
	"context"
	"fmt"

	"github.com/tcarvalho/doc-analyst/internal/config"
	"github.com/tcarvalho/doc-analyst/internal/core/ports"
	"github.com/tcarvalho/doc-analyst/internal/core/usecase"
	"github.com/tcarvalho/doc-analyst/internal/infrastructure/engine/gemini"
	"github.com/tcarvalho/doc-analyst/internal/infrastructure/extractor"
	"github.com/tcarvalho/doc-analyst/internal/infrastructure/repository/postgres"
)

type App struct {
	Config config.Config

	Store  ports.RecordStore
	Intake ports.DocumentIntake

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewRecordRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	engine, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.GeminiAPIKey,
		TextModel:   cfg.GeminiTextModel,
		VisionModel: cfg.GeminiVisionModel,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init analysis engine: %w", err)
	}

	intake := usecase.NewIntakeUseCase(repo, extractor.New(cfg.MaxUploadBytes), engine)

	return &App{
		Config: cfg,
		Store:  repo,
		Intake: intake,

		closeFn: func() {
			_ = engine.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
