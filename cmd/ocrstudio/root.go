package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/config"
	"github.com/jackzampolin/ocrstudio/internal/home"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
	"github.com/jackzampolin/ocrstudio/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "ocrstudio",
	Short: "OCR scanned PDFs, translate them to Polish and export TXT, DOCX or PDF",
	Long: `ocrstudio turns scanned PDF documents into editable text.

The pipeline includes:
  - Page rasterization and tesseract OCR (English, Polish or both)
  - Language detection on the recognized text
  - Best-effort translation to Polish for non-Polish documents
  - Export to TXT, DOCX and PDF as {name}_OCR.{ext}
  - A persistent history of completed conversions`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ocrstudio/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "ocrstudio home directory (default: ~/.ocrstudio)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "debug logging",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// API keys may live in a local .env file.
		_ = godotenv.Load()
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger returns the process logger. Logs go to stderr so command
// output on stdout stays parseable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the home directory and loads configuration from it.
func loadConfig() (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	return h, mgr, nil
}

// localServices wires the pipeline in-process for commands that do not
// need a running server.
func localServices(ctx context.Context, logger *slog.Logger) (*svcctx.Services, error) {
	h, mgr, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, err
	}
	if used := mgr.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return svcctx.Build(ctx, svcctx.BuildOptions{
		Config: mgr.Get(),
		Home:   h,
		Logger: logger,
	})
}
