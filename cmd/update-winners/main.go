package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/superbowl-squares/internal/config"
	"github.com/mcoot/superbowl-squares/internal/factory"
	"github.com/mcoot/superbowl-squares/internal/scorefeed"
	"github.com/mcoot/superbowl-squares/internal/services/winners"
)

// errSharedStoreRequired rejects the in-process store, which holds no boards from the server
var errSharedStoreRequired = errors.New("update-winners needs a shared store (redis or mysql)")

type options struct {
	envFile     string
	concurrency int
	watch       bool
	interval    time.Duration
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "update-winners",
		Short: "Mark winning squares on locked boards from quarter scores",
		Long: `update-winners reads WINNER_Q1..WINNER_Q4 ("chiefs,eagles") from the
environment and the env file, and records each quarter's winning square on
every locked board.

With --watch the env file is re-read and the update rerun every --interval
until interrupted.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Env file with storage settings and WINNER_Q* scores")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", winners.DefaultConcurrency, "Boards updated in parallel")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Keep running and re-read scores every interval")
	cmd.Flags().DurationVar(&opts.interval, "interval", time.Minute, "Re-read interval with --watch")

	return cmd
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}
	if cfg.StorageType == config.StorageMemory {
		err := errSharedStoreRequired
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}
	if opts.watch && opts.interval <= 0 {
		err := errors.New("--interval must be positive")
		logger.Error("invalid flags", slog.String("error", err.Error()))
		return err
	}

	factoryCfg := factory.Config{
		Logger:            logger,
		StorageType:       cfg.StorageType,
		WinnerConcurrency: opts.concurrency,
	}
	switch cfg.StorageType {
	case config.StorageRedis:
		redisCfg := cfg.RedisConfig()
		factoryCfg.RedisConfig = &redisCfg
	case config.StorageMySQL:
		mysqlCfg := cfg.MySQLConfig()
		factoryCfg.MySQLConfig = &mysqlCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := scorefeed.NewSource(opts.envFile, logger)
	runner := winners.NewRunner(app.WinnerService, source, app.Clock, logger)

	if opts.watch {
		return runner.Watch(ctx, opts.interval)
	}

	if _, err := runner.RunOnce(ctx); err != nil {
		logger.Error("winner update failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
