package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ocrstudio server",
	Long: `Start the ocrstudio HTTP server.

The config file is watched; edits rewire OCR, translation, export and
storage settings without a restart. Runs already listed stay available.

The server provides:
  - /health        - Basic server health check
  - /ready         - Readiness check
  - /api/runs      - Convert PDFs and fetch exported files
  - /api/history   - Recent conversions
  - /swagger       - API documentation

Examples:
  ocrstudio serve                    # Start on the configured port (8080)
  ocrstudio serve --port 3000        # Start on custom port
  ocrstudio serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		h, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		if used := mgr.ConfigFileUsed(); used != "" {
			logger.Info("watching config file", "path", used)
			mgr.WatchConfig()
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			ConfigManager: mgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "host to bind to (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default: server.port)")

	rootCmd.AddCommand(serveCmd)
}
