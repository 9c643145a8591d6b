package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"headshot/internal/headshot"
	"headshot/internal/http/handlers"
	httpapi "headshot/internal/http/httpapi"
	"headshot/internal/infra"
	"headshot/internal/metrics"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("headshot")
	svc, err := headshot.NewFromConfig(ctx, cfg, &logger, collector)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build service")
	}

	// Base64 inflates by 4/3; leave room for the JSON envelope.
	maxBody := int64(cfg.MaxImageBytes)*4/3 + 64<<10
	app := handlers.NewApp(svc, maxBody)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:            logger,
		Metrics:           collector,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		RateLimit:         cfg.RateLimitPerMin,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	server := infra.NewHTTPServer(cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
