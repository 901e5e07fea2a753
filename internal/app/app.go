package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/compiler/gen"
	"github.com/syssam/lowcode/compiler/load"
	"github.com/syssam/lowcode/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger *slog.Logger
	config *Config
	opts   []gen.Option
}

// NewApp returns an App logging to outW. The configuration must come from
// NewConfig.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	opts, err := cfg.genOptions()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")
	return &App{logger: logger, config: cfg, opts: opts}, nil
}

// Run builds once, then keeps rebuilding on model changes in watch mode until
// ctx is done. Build failures in watch mode are logged and do not stop it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	_, err := a.Build(ctx)
	if !a.config.Watch {
		return err
	}
	if err != nil {
		a.logger.Error("build failed", "error", err)
	}
	return a.watch(ctx)
}

// Build loads the models and generates their packages. Every build is
// logged under its own run id.
func (a *App) Build(ctx context.Context) ([]*design.Module, error) {
	logger := ctxlog.FromContext(ctx).With("run", uuid.NewString())
	ctx = ctxlog.WithLogger(ctx, logger)
	start := time.Now()

	loader := &load.Config{Paths: a.config.Models}
	modules, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	cfg, err := gen.NewConfig(a.opts...)
	if err != nil {
		return nil, err
	}
	g, err := gen.NewGenerator(cfg, modules...)
	if err != nil {
		return nil, err
	}
	if err := g.Generate(ctx); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	metrics := g.Metrics()
	logger.Info("build finished", "modules", len(modules), "files", metrics.FilesGenerated, "duration", time.Since(start))
	return modules, nil
}
