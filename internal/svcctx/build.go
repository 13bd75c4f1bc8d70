package svcctx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackzampolin/ocrstudio/internal/config"
	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/history"
	"github.com/jackzampolin/ocrstudio/internal/home"
	"github.com/jackzampolin/ocrstudio/internal/langdetect"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/ocr"
	"github.com/jackzampolin/ocrstudio/internal/pipeline"
	"github.com/jackzampolin/ocrstudio/internal/storage"
	"github.com/jackzampolin/ocrstudio/internal/translate"
)

// metricsLimit bounds the step timings kept in memory.
const metricsLimit = 10000

// BuildOptions carries the pieces shared across rebuilds.
type BuildOptions struct {
	Config  *config.Config
	Home    *home.Dir
	Logger  *slog.Logger
	Runs    *pipeline.Registry // nil: new registry
	Metrics *metrics.Recorder  // nil: new recorder
}

// Build wires every service from configuration.
func Build(ctx context.Context, opts BuildOptions) (*Services, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Home == nil {
		return nil, fmt.Errorf("home directory is required")
	}
	if opts.Runs == nil {
		opts.Runs = pipeline.NewRegistry(100)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRecorder(metricsLimit)
	}

	engine, err := ocr.NewEngine(ocr.Config{
		Engine:     cfg.OCR.Engine,
		BinaryPath: cfg.OCR.BinaryPath,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ocr engine: %w", err)
	}

	backend, err := translate.NewBackend(translate.BackendConfig{
		Backend:    cfg.Translate.Backend,
		Endpoint:   cfg.Translate.Endpoint,
		Model:      cfg.Translate.Model,
		APIKey:     cfg.TranslateAPIKey(),
		MaxRetries: cfg.Translate.MaxRetries,
		Timeout:    time.Duration(cfg.Translate.TimeoutSeconds) * time.Second,
		Logger:     logger,
	})
	if err != nil {
		// Translation is best-effort; a misconfigured backend only disables it.
		logger.Warn("translation backend unavailable, pages will not be translated", "backend", cfg.Translate.Backend, "error", err)
		backend = translate.None{}
	}
	translator := translate.NewBestEffort(backend, translate.Options{
		Source:     cfg.Translate.Source,
		Target:     cfg.Translate.Target,
		ChunkChars: cfg.Translate.ChunkChars,
		RateLimit:  cfg.Translate.RequestsPerMin,
		Logger:     logger,
	})

	exporters := export.NewSet(export.Config{
		OutputDir:   cfg.OutputDir(opts.Home.OutputPath()),
		LogoPath:    cfg.LogoPath(opts.Home.LogoPath()),
		PDFFontPath: cfg.Export.PDFFontPath,
		Logger:      logger,
	})

	hist := history.New(cfg.HistoryPath(opts.Home.HistoryPath()), logger)

	var mirror storage.Mirror = storage.Nop{}
	if cfg.Storage.Enabled {
		accessKey, secretKey := cfg.StorageCredentials()
		sink, err := storage.New(ctx, storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: accessKey,
			SecretKey: secretKey,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
			Prefix:    cfg.Storage.Prefix,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect export storage: %w", err)
		}
		mirror = sink
	}

	p, err := pipeline.New(pipeline.Config{
		Engine:      engine,
		Exporters:   exporters,
		Detector:    langdetect.Whatlang{MinConfidence: cfg.Detect.MinConfidence},
		SamplePages: cfg.Detect.SamplePages,
		Translator:  translator,
		History:     hist,
		Mirror:      mirror,
		Metrics:     opts.Metrics,
		DPI:         cfg.OCR.DPI,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &Services{
		Config:     cfg,
		Home:       opts.Home,
		Logger:     logger,
		Pipeline:   p,
		Runs:       opts.Runs,
		History:    hist,
		Exporters:  exporters,
		Translator: translator,
		Metrics:    opts.Metrics,
	}, nil
}
