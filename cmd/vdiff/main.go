package main

import (
	"context"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"vdiff/config"
	"vdiff/internal/store"
	"vdiff/pkg/logger"
)

func newOutcomeStore(cfg *config.AppConfig, log *zap.Logger) (*store.OutcomeStore, error) {
	s, err := store.Open(cfg.DatabaseURL, cfg.ArtifactRoot, log)
	if err != nil {
		log.Warn("outcome persistence disabled", zap.Error(err))
		return nil, nil
	}
	return s, nil
}

func main() {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts == nil {
		return
	}

	exitCode := 0

	app := fx.New(
		fx.Supply(opts),
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			newOutcomeStore,
		),
		fx.Invoke(func(p RunParams) {
			exitCode = Execute(p)
		}),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			zlogger := fxevent.ZapLogger{Logger: log}
			zlogger.UseLogLevel(zap.DebugLevel)
			return &zlogger
		}),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
	_ = app.Stop(ctx)
	os.Exit(exitCode)
}
