package svcctx

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackzampolin/ocrstudio/internal/config"
	"github.com/jackzampolin/ocrstudio/internal/home"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/pipeline"
)

func testHome(t *testing.T) *home.Dir {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New: %v", err)
	}
	return h
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuild_Defaults(t *testing.T) {
	h := testHome(t)
	svcs, err := Build(context.Background(), BuildOptions{Home: h, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if svcs.Pipeline == nil || svcs.Runs == nil || svcs.History == nil || svcs.Metrics == nil {
		t.Fatalf("missing services: %+v", svcs)
	}
	if got := svcs.Pipeline.Engine(); got != "library" {
		t.Errorf("engine = %q, want library", got)
	}
	if svcs.Translator.Limiter() == nil {
		t.Error("expected a rate limiter from the default requests_per_minute")
	}
	if svcs.Pipeline.Metrics() != svcs.Metrics {
		t.Error("pipeline should record into the shared recorder")
	}
}

func TestBuild_RequiresHome(t *testing.T) {
	if _, err := Build(context.Background(), BuildOptions{Logger: quietLogger()}); err == nil {
		t.Fatal("expected error without home")
	}
}

func TestBuild_UnknownEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OCR.Engine = "cuneiform"

	_, err := Build(context.Background(), BuildOptions{Config: cfg, Home: testHome(t), Logger: quietLogger()})
	if err == nil {
		t.Fatal("expected error for unknown ocr engine")
	}
}

func TestBuild_BadTranslateBackendDisablesTranslation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Translate.Backend = "openai"
	cfg.Translate.APIKey = ""
	t.Setenv("OPENAI_API_KEY", "")

	svcs, err := Build(context.Background(), BuildOptions{Config: cfg, Home: testHome(t), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := svcs.Translator.Backend(); got != "none" {
		t.Errorf("backend = %q, want none", got)
	}
}

func TestBuild_KeepsSharedState(t *testing.T) {
	runs := pipeline.NewRegistry(10)
	rec := metrics.NewRecorder(10)
	h := testHome(t)

	first, err := Build(context.Background(), BuildOptions{Home: h, Logger: quietLogger(), Runs: runs, Metrics: rec})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	second, err := Build(context.Background(), BuildOptions{Home: h, Logger: quietLogger(), Runs: runs, Metrics: rec})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if first.Pipeline == second.Pipeline {
		t.Error("expected a fresh pipeline per build")
	}
	if second.Runs != runs || second.Metrics != rec {
		t.Error("runs and metrics should survive a rebuild")
	}
}

func TestExtractors(t *testing.T) {
	ctx := context.Background()
	if ServicesFrom(ctx) != nil || PipelineFrom(ctx) != nil || RunsFrom(ctx) != nil {
		t.Error("expected nil services on a bare context")
	}
	if HistoryFrom(ctx) != nil || TranslatorFrom(ctx) != nil || MetricsFrom(ctx) != nil {
		t.Error("expected nil services on a bare context")
	}
	if LoggerFrom(ctx) == nil {
		t.Error("LoggerFrom should fall back to the default logger")
	}

	svcs, err := Build(ctx, BuildOptions{Home: testHome(t), Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ctx = WithServices(ctx, svcs)

	if ServicesFrom(ctx) != svcs {
		t.Error("ServicesFrom returned a different set")
	}
	if PipelineFrom(ctx) != svcs.Pipeline || RunsFrom(ctx) != svcs.Runs {
		t.Error("pipeline extractors mismatch")
	}
	if HistoryFrom(ctx) != svcs.History || TranslatorFrom(ctx) != svcs.Translator {
		t.Error("history or translator extractor mismatch")
	}
	if MetricsFrom(ctx) != svcs.Metrics || HomeFrom(ctx) != svcs.Home || ConfigFrom(ctx) != svcs.Config {
		t.Error("metrics, home or config extractor mismatch")
	}
	if LoggerFrom(ctx) != svcs.Logger {
		t.Error("LoggerFrom should return the wired logger")
	}
}
