package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"webgen/internal/bootstrap"
	"webgen/internal/http/handlers"
	httpapi "webgen/internal/http/httpapi"
	"webgen/internal/infra"
	"webgen/internal/infra/geoip"
	"webgen/internal/metrics"
	"webgen/internal/middleware"
	"webgen/internal/providers/chat"
	"webgen/internal/providers/imagesearch"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	deps, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise dependencies")
	}
	defer deps.Close()

	m := metrics.New()

	demo, err := imagesearch.LoadDemoCatalog()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load demo image catalog")
	}
	unsplash := imagesearch.NewClient(imagesearch.Options{
		APIKey:         cfg.UnsplashAPIKey,
		BaseURL:        cfg.UnsplashBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.ImageSearchTimeout,
	})
	if !unsplash.HasCredentials() {
		logger.Warn().Msg("UNSPLASH_API_KEY not set, image search serves placeholders")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Store:     deps.Store,
		Queue:     deps.Queue,
		Assembler: deps.Assembler,
		Images:    imagesearch.NewService(unsplash, infra.NewComponentLogger(logger, "imagesearch"), m),
		Demo:      demo,
		Assistant: chat.NewAssistant(),
		Metrics:   m,
		Logger:    logger,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Metrics:         m,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	workersDone := make(chan struct{})
	if cfg.DeliveryEmbedded {
		if n, err := deps.RecoverQueue(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to recover claimed deliveries")
		} else if n > 0 {
			logger.Info().Int("tasks", n).Msg("recovered claimed deliveries")
		}
		pool := deps.DeliveryPool(cfg, logger, m)
		go func() {
			defer close(workersDone)
			if err := pool.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("delivery pool stopped")
			}
		}()
		logger.Info().Int("workers", pool.Size()).Msg("embedded delivery workers started")
	} else {
		close(workersDone)
	}

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	cancelWorkers()
	<-workersDone
	logger.Info().Msg("server stopped")
}
