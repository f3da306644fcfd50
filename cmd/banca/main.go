package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	_ "time/tzdata"

	"golang.org/x/sync/errgroup"

	"banca/internal/analytics"
	"banca/internal/backend"
	"banca/internal/cache"
	"banca/internal/cli"
	apphttp "banca/internal/http"
	applog "banca/internal/log"
	"banca/internal/metrics"
	"banca/internal/middleware/ratelimit"
	"banca/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, applog.ComponentApp)

	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog()).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	var publisher services.Publisher
	if result.Publisher != nil {
		publisher = result.Publisher
	}

	m := metrics.New()
	wagers := services.NewWagerService(result.Store, publisher)
	wagers.Instrument(m)

	dashboards := cache.NewLRUCache[analytics.Dashboard](cfg.AnalyticsCacheSize, cfg.AnalyticsCacheTTL)
	cacheManager := cache.NewManager(logger.WithComponent(applog.ComponentCache).Slog())
	cacheManager.Register(dashboards)
	cacheManager.StartCleanup(cfg.AnalyticsCacheTTL)
	defer cacheManager.Stop()

	loc := cfg.Location()
	analyticsSvc := services.NewAnalyticsService(wagers, dashboards, m, analytics.Options{TopN: cfg.TopN, Location: loc})

	var ready func(context.Context) error
	if p, ok := result.Store.(interface{ Ping(context.Context) error }); ok {
		ready = p.Ping
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Wagers:    wagers,
		Analytics: analyticsSvc,
		Metrics:   m,
		Logger:    logger.WithComponent(applog.ComponentHTTP),
		Ready:     ready,
		RateLimit: ratelimit.DefaultConfig(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting banca server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"timezone", loc.String(),
			"amqp", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
