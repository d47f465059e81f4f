package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/kursadbilgin/logurl/internal/config"
	"github.com/kursadbilgin/logurl/internal/handler"
	infraredis "github.com/kursadbilgin/logurl/internal/infra/redis"
	"github.com/kursadbilgin/logurl/internal/notifier"
	"github.com/kursadbilgin/logurl/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	scopes, err := config.LoadScopes(cfg.LogURLScopesFile, cfg.ServerScope())
	if err != nil {
		logger.Fatal("scopes initialization failed", zap.Error(err))
	}

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	store, err := infraredis.NewObjectStore(rdb)
	if err != nil {
		logger.Fatal("object store initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	dispatcher := notifier.NewDispatcher(
		notifier.NewNetResolver(notifier.ResolveConfig{
			DNSServer:   cfg.LogURLDNSServer,
			StaticHosts: scopes.StaticHosts(),
		}),
		notifier.NewDialConnector(cfg.ConnectTimeout(), logger),
		logger,
	)
	dispatcher.SetMetrics(metrics)

	app, err := handler.NewApp(handler.AppDeps{
		Store:    store,
		Notifier: dispatcher,
		Scopes:   scopes,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("http app initialization failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("logurl server started",
			zap.Int("port", cfg.APIPort),
			zap.Bool("notifierEnabled", cfg.LogURLEnable),
			zap.String("collector", fmt.Sprintf("%s:%d", cfg.LogURLHost, cfg.LogURLPort)),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-groupCtx.Done()
		logger.Info("logurl server shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		logger.Error("logurl server stopped with error", zap.Error(err))
		return
	}
	logger.Info("logurl server stopped")
}
