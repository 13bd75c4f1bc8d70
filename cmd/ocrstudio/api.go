package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running ocrstudio server via HTTP.

These commands require a running server (ocrstudio serve).
Use --server to specify a custom server URL.

Examples:
  ocrstudio api health                       # Check server health
  ocrstudio api runs create scan.pdf         # Convert a PDF on the server
  ocrstudio api runs download <id> DOCX      # Fetch an exported file
  ocrstudio api history list --limit 5       # Recent conversions`,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Conversion run commands",
}

var apiHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Conversion history commands",
}

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "PDF inspection commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func addEndpoints(parent *cobra.Command, eps []api.Endpoint) {
	reg := api.NewRegistry()
	for _, ep := range eps {
		reg.Register(ep)
	}
	parent.AddCommand(reg.Commands(getServerURL)...)
}

func init() {
	// Persistent so all subcommands inherit it
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "server URL",
	)

	addEndpoints(apiCmd, endpoints.TopLevelCommands())
	addEndpoints(runsCmd, endpoints.RunCommands())
	addEndpoints(apiHistoryCmd, endpoints.HistoryCommands())
	addEndpoints(documentsCmd, endpoints.DocumentCommands())

	apiCmd.AddCommand(runsCmd)
	apiCmd.AddCommand(apiHistoryCmd)
	apiCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(apiCmd)
}
