package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"brandmock/internal/brand"
	"brandmock/internal/http/handlers"
	httpapi "brandmock/internal/http/httpapi"
	"brandmock/internal/infra"
	"brandmock/internal/logo"
	"brandmock/internal/mockup"
	"brandmock/internal/providers/genai"
	"brandmock/internal/render"
	"brandmock/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	// Configuration & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare storage")
	}

	// Brand resolution tiers: input normalization, directory lookup, page scrape.
	normalizer := brand.NewNormalizer(brand.NormalizerOptions{
		SearchBaseURL: cfg.SearchBaseURL,
		Timeout:       cfg.FetchTimeout,
		Logger:        &logger,
	})
	resolver := brand.NewResolver(brand.ResolverOptions{
		Directory: brand.NewDirectoryClient(brand.DirectoryOptions{
			BaseURL: cfg.BrandDirectoryURL,
			APIKey:  cfg.BrandDirectoryKey,
			Timeout: cfg.FetchTimeout,
		}),
		Scraper: brand.NewScraper(brand.ScraperOptions{
			Timeout: cfg.FetchTimeout,
			Logger:  &logger,
		}),
		Logger: &logger,
	})

	classifier := logo.NewClassifier(logo.ClassifierOptions{
		Threshold: cfg.BrightnessThreshold,
		Timeout:   cfg.FetchTimeout,
		Logger:    &logger,
	})
	renderer := render.New(render.Options{
		BaseURL: cfg.RenderBaseURL,
		APIKey:  cfg.RenderAPIKey,
	})
	enhancer, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build genai client")
	}
	if !enhancer.Enabled() {
		logger.Warn().Msg("GEMINI_API_KEY not set, enhancement requests will be skipped")
	}

	pipeline, err := mockup.NewPipeline(mockup.PipelineOptions{
		Renderer:    renderer,
		Classifier:  classifier,
		Enhancer:    enhancer,
		Concurrency: cfg.RenderConcurrency,
		Logger:      &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build mockup pipeline")
	}

	// App container & router
	app := handlers.NewApp(cfg, logger, normalizer, resolver, pipeline, store)
	router := httpapi.NewRouter(app)

	// HTTP server wrapper from infra
	server := infra.NewHTTPServer(cfg, router)

	// Start async
	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
