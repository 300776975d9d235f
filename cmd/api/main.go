package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"visualizer/internal/http/handlers"
	httpapi "visualizer/internal/http/httpapi"
	"visualizer/internal/imagegen"
	"visualizer/internal/infra"
	"visualizer/internal/providers/chat"
	"visualizer/internal/providers/replicate"
	"visualizer/internal/providers/telegram"
	"visualizer/internal/storage"
	"visualizer/internal/visualizer"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	httpClient := infra.NewHTTPClient(60 * time.Second)

	rep := replicate.NewClient(replicate.Options{
		APIToken:   cfg.ReplicateAPIToken,
		BaseURL:    cfg.ReplicateBaseURL,
		HTTPClient: httpClient,
		Logger:     &logger,
	})
	if !rep.HasCredentials() {
		logger.Warn().Msg("REPLICATE_API_TOKEN not set: visualize will fail and analysis will use defaults")
	}

	analyzer := imagegen.NewAnalyzer(imagegen.AnalyzerOptions{
		Client:       rep,
		ModelVersion: cfg.VisionModelVersion,
		PollInterval: cfg.PollInterval,
		MaxWait:      cfg.AnalyzeMaxWait,
		Logger:       &logger,
	})
	transformer := imagegen.NewTransformer(imagegen.TransformerOptions{
		Client:       rep,
		Model:        cfg.EditModel,
		OutputFormat: cfg.EditOutputFormat,
		PollInterval: cfg.PollInterval,
		MaxAttempts:  cfg.TransformMaxAttempts,
		Logger:       &logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Upload storage: S3, then local disk, then the Replicate file API.
	var uploader storage.Uploader
	var staticDir string
	switch {
	case cfg.S3Bucket != "":
		store, err := storage.OpenS3Store(ctx, storage.S3Options{
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
			Region: cfg.S3Region,
			URLTTL: cfg.S3URLTTL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open s3 storage")
		}
		uploader = store
	case cfg.StorageDir != "":
		store, err := storage.NewFileStore(cfg.StorageDir, cfg.StorageBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare storage dir")
		}
		uploader = store
		staticDir = store.BasePath()
	default:
		uploader = storage.NewRemoteUploader(rep, &logger)
	}

	var notifier visualizer.LeadNotifier
	if cfg.TelegramConfigured() {
		n, err := telegram.NewNotifier(telegram.Options{
			Token:      cfg.TelegramBotToken,
			ChatID:     cfg.TelegramChatID,
			HTTPClient: httpClient,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("telegram lead alerts disabled")
		} else {
			notifier = n
		}
	}

	var completer chat.Completer
	if cfg.ChatConfigured() {
		c, err := chat.NewAzureClient(chat.AzureOptions{
			APIKey:     cfg.AzureOpenAIKey,
			Endpoint:   cfg.AzureOpenAIEndpoint,
			APIVersion: cfg.AzureOpenAIAPIVersion,
			Deployment: cfg.AzureOpenAIDeployment,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("chat completion disabled")
		} else {
			completer = c
		}
	}

	svc := visualizer.NewService(visualizer.Options{
		Analyzer:      analyzer,
		Transformer:   transformer,
		Uploader:      uploader,
		Notifier:      notifier,
		Logger:        &logger,
		MaxConcurrent: cfg.MaxConcurrentJobs,
	})

	app := handlers.NewApp(svc, completer, &logger)
	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMin,
		TrustProxy:         cfg.TrustProxy,
		StaticDir:          staticDir,
	})

	server := infra.NewHTTPServer(cfg, router, &logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
	}
	svc.Wait()
	logger.Info().Msg("server stopped")
}
