package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Local conversion history",
}

var historyLimit int

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, limit, err := localHistory()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("limit") {
			limit = historyLimit
		}
		records, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return api.Output(records)
	},
}

var historyYes bool

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every history record",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := localHistory()
		if err != nil {
			return err
		}
		if err := store.Clear(cmd.Context(), historyYes); err != nil {
			return fmt.Errorf("%w (pass --yes)", err)
		}
		fmt.Println("History cleared")
		return nil
	},
}

// localHistory opens the configured history file and returns the default
// display limit.
func localHistory() (*history.Store, int, error) {
	h, mgr, err := loadConfig()
	if err != nil {
		return nil, 0, err
	}
	cfg := mgr.Get()
	return history.New(cfg.HistoryPath(h.HistoryPath()), newLogger()), cfg.History.DisplayLimit, nil
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum records, 0 for all (default: history.display_limit)")
	historyClearCmd.Flags().BoolVar(&historyYes, "yes", false, "confirm clearing every record")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
