package endpoints

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
	"github.com/jackzampolin/ocrstudio/internal/translate"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Server health
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyResponse reports whether the pipeline services are wired.
type ReadyResponse struct {
	Status   string `json:"status"`
	Pipeline string `json:"pipeline"`
}

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

var _ api.Endpoint = (*ReadyEndpoint)(nil)

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Server readiness
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	ReadyResponse
//	@Failure	503	{object}	ReadyResponse
//	@Router		/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	if svcctx.PipelineFrom(r.Context()) == nil {
		writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "degraded", Pipeline: "not_initialized"})
		return
	}
	writeJSON(w, http.StatusOK, ReadyResponse{Status: "ok", Pipeline: "ok"})
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check whether the server can accept runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ReadyResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string `json:"server" yaml:"server"`
	OCREngine string `json:"ocr_engine" yaml:"ocr_engine"`
	Translate string `json:"translate_backend" yaml:"translate_backend"`
	Runs      int    `json:"runs" yaml:"runs"`
	History   int    `json:"history_records" yaml:"history_records"`

	TranslateLimit *translate.RateLimiterStatus `json:"translate_limit,omitempty" yaml:"translate_limit,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Server status
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status(r.Context()))
}

func status(ctx context.Context) StatusResponse {
	resp := StatusResponse{
		Server:    "running",
		OCREngine: "not_initialized",
		Translate: "not_initialized",
	}

	if p := svcctx.PipelineFrom(ctx); p != nil {
		resp.OCREngine = p.Engine()
	}
	if t := svcctx.TranslatorFrom(ctx); t != nil {
		resp.Translate = t.Backend()
		if l := t.Limiter(); l != nil {
			st := l.Status()
			resp.TranslateLimit = &st
		}
	}
	if runs := svcctx.RunsFrom(ctx); runs != nil {
		resp.Runs = runs.Len()
	}
	if h := svcctx.HistoryFrom(ctx); h != nil {
		if records, err := h.Load(ctx); err == nil {
			resp.History = len(records)
		}
	}
	return resp
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
