// Command recurdns runs the recursive DNS resolver server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arnegrim/recurdns/internal/config"
	"github.com/arnegrim/recurdns/internal/resolver"
	"github.com/arnegrim/recurdns/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Error("loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	rv := &resolver.Resolver{
		Mode:       resolverMode(cfg.Mode),
		RootServer: cfg.RootServer,
		Forwarder:  cfg.Forwarder,
		CachePath:  cfg.CachePath,
		Logger:     logger,
	}

	srv, err := server.New(cfg.Host, cfg.Port, rv, logger)
	if err != nil {
		logger.Error("starting server", slog.Any("error", err))
		os.Exit(1)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("recurdns starting",
		slog.String("mode", string(cfg.Mode)),
		slog.String("root_server", cfg.RootServer),
		slog.String("forwarder", cfg.Forwarder),
		slog.String("cache_path", cfg.CachePath),
	)

	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func resolverMode(m config.Mode) resolver.Mode {
	if m == config.ModeForward {
		return resolver.ModeForward
	}
	return resolver.ModeRecursive
}
