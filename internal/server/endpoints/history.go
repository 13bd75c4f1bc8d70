package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/history"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
)

// HistoryResponse lists conversion records, newest first.
type HistoryResponse struct {
	Records []history.Record `json:"records" yaml:"records"`
	Total   int              `json:"total" yaml:"total"`
}

// ListHistoryEndpoint handles GET /api/history.
type ListHistoryEndpoint struct{}

var _ api.Endpoint = (*ListHistoryEndpoint)(nil)

func (e *ListHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/history", e.handler
}

func (e *ListHistoryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Recent conversions, newest first
//	@Tags		history
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum records (0: all)"
//	@Success	200		{object}	HistoryResponse
//	@Router		/api/history [get]
func (e *ListHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if cfg := svcctx.ConfigFrom(ctx); cfg != nil {
		limit = cfg.History.DisplayLimit
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit: %q", v))
			return
		}
		limit = n
	}

	records, err := svcctx.HistoryFrom(ctx).Recent(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Records: records, Total: len(records)})
}

func (e *ListHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/history"
			if cmd.Flags().Changed("limit") {
				path += "?limit=" + strconv.Itoa(limit)
			}
			client := api.NewClient(getServerURL())
			var resp HistoryResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum records, 0 for all (default: history.display_limit)")
	return cmd
}

// ClearHistoryResponse confirms a cleared history.
type ClearHistoryResponse struct {
	Cleared bool `json:"cleared" yaml:"cleared"`
}

// ClearHistoryEndpoint handles DELETE /api/history.
type ClearHistoryEndpoint struct{}

var _ api.Endpoint = (*ClearHistoryEndpoint)(nil)

func (e *ClearHistoryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/history", e.handler
}

func (e *ClearHistoryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Clear history
//	@Tags		history
//	@Produce	json
//	@Param		confirm	query		bool	true	"Must be true"
//	@Success	200		{object}	ClearHistoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/api/history [delete]
func (e *ClearHistoryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	err := svcctx.HistoryFrom(ctx).Clear(ctx, confirmed)
	switch {
	case errors.Is(err, history.ErrClearNotConfirmed):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		svcctx.LoggerFrom(ctx).Error("failed to clear history", "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to clear history: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, ClearHistoryResponse{Cleared: true})
}

func (e *ClearHistoryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the conversion history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return history.ErrClearNotConfirmed
			}
			client := api.NewClient(getServerURL())
			var resp ClearHistoryResponse
			if err := client.Delete(cmd.Context(), "/api/history?confirm=true", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing every record")
	return cmd
}
