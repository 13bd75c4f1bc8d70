package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/config"
	"github.com/jackzampolin/ocrstudio/internal/document"
	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/ocr"
	"github.com/jackzampolin/ocrstudio/internal/pipeline"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
)

// CreateRunEndpoint handles POST /api/runs.
type CreateRunEndpoint struct{}

var _ api.Endpoint = (*CreateRunEndpoint)(nil)

func (e *CreateRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/runs", e.handler
}

func (e *CreateRunEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Convert a PDF
//	@Description	Runs OCR on the selected pages, translates when the language gate allows and exports the requested formats.
//	@Tags			runs
//	@Accept			mpfd
//	@Produce		json
//	@Param			file		formData	file	true	"PDF document"
//	@Param			pages		formData	string	false	"1-based pages, e.g. 1,3-5 (default: all)"
//	@Param			ocr_mode	formData	string	false	"auto, english, polish or eng+pol"
//	@Param			translate	formData	bool	false	"Translate to Polish"
//	@Param			exports		formData	string	false	"Comma separated TXT, DOCX, PDF"
//	@Success		200			{object}	pipeline.Result
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/runs [post]
func (e *CreateRunEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := svcctx.LoggerFrom(ctx)
	p := svcctx.PipelineFrom(ctx)
	runs := svcctx.RunsFrom(ctx)
	cfg := svcctx.ConfigFrom(ctx)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	name, data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts, err := runOptions(r, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.FileName = name
	opts.RunDir = true

	doc, err := document.Open(name, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer doc.Close()

	run, err := p.NewRun(doc, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := runs.Register(run); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := p.Execute(ctx, run, nil)
	if err != nil {
		logger.Error("conversion failed", "run_id", run.ID(), "file", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: fmt.Sprintf("conversion failed: %v", err),
			Kind:  string(pipeline.KindOf(err)),
		})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// runOptions reads the run choices from the form, falling back to config.
func runOptions(r *http.Request, cfg *config.Config) (pipeline.Options, error) {
	var opts pipeline.Options

	pages, err := pipeline.ParsePageSpec(r.FormValue("pages"))
	if err != nil {
		return opts, err
	}
	opts.Pages = pages

	modeLabel := r.FormValue("ocr_mode")
	if modeLabel == "" {
		modeLabel = cfg.OCR.DefaultMode
	}
	mode, err := ocr.ParseMode(modeLabel)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode

	opts.Translate = cfg.Translate.Enabled
	if v := r.FormValue("translate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid translate: %q", v)
		}
		opts.Translate = b
	}

	labels := cfg.Export.Formats
	if values, ok := r.MultipartForm.Value["exports"]; ok {
		labels = nil
		for _, v := range values {
			for _, l := range strings.Split(v, ",") {
				if l = strings.TrimSpace(l); l != "" {
					labels = append(labels, l)
				}
			}
		}
	}
	formats, err := export.ParseFormats(labels)
	if err != nil {
		return opts, err
	}
	opts.Formats = formats

	return opts, nil
}

func (e *CreateRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	var pages, mode string
	var translate bool
	var exports []string
	cmd := &cobra.Command{
		Use:   "create <file.pdf>",
		Short: "Convert a PDF on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{}
			if pages != "" {
				fields["pages"] = pages
			}
			if mode != "" {
				fields["ocr_mode"] = mode
			}
			if cmd.Flags().Changed("translate") {
				fields["translate"] = strconv.FormatBool(translate)
			}
			if cmd.Flags().Changed("exports") {
				fields["exports"] = strings.Join(exports, ",")
			}

			client := api.NewClient(getServerURL())
			var res pipeline.Result
			if err := client.PostFile(cmd.Context(), "/api/runs", args[0], fields, &res); err != nil {
				return err
			}
			return api.Output(res)
		},
	}
	cmd.Flags().StringVar(&pages, "pages", "", "1-based pages, e.g. 1,3-5 (default: all)")
	cmd.Flags().StringVar(&mode, "mode", "", "OCR language mode: auto, english, polish, eng+pol")
	cmd.Flags().BoolVar(&translate, "translate", true, "translate to Polish when the detected language is English or unknown, or English OCR is forced")
	cmd.Flags().StringSliceVar(&exports, "exports", nil, "export formats: TXT, DOCX, PDF")
	return cmd
}

// ListRunsResponse lists runs started by the server.
type ListRunsResponse struct {
	Runs  []pipeline.Result `json:"runs" yaml:"runs"`
	Total int               `json:"total" yaml:"total"`
}

// ListRunsEndpoint handles GET /api/runs.
type ListRunsEndpoint struct{}

var _ api.Endpoint = (*ListRunsEndpoint)(nil)

func (e *ListRunsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs", e.handler
}

func (e *ListRunsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	List runs
//	@Tags		runs
//	@Produce	json
//	@Success	200	{object}	ListRunsResponse
//	@Router		/api/runs [get]
func (e *ListRunsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	runs := svcctx.RunsFrom(r.Context()).List()
	resp := ListRunsResponse{Runs: make([]pipeline.Result, 0, len(runs)), Total: len(runs)}
	for _, run := range runs {
		res := run.Result()
		res.Texts = nil
		resp.Runs = append(resp.Runs, res)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListRunsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListRunsResponse
			if err := client.Get(cmd.Context(), "/api/runs", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetRunEndpoint handles GET /api/runs/{id}.
type GetRunEndpoint struct{}

var _ api.Endpoint = (*GetRunEndpoint)(nil)

func (e *GetRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs/{id}", e.handler
}

func (e *GetRunEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Get run
//	@Tags		runs
//	@Produce	json
//	@Param		id	path		string	true	"Run ID"
//	@Success	200	{object}	pipeline.Result
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/runs/{id} [get]
func (e *GetRunEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	run, err := svcctx.RunsFrom(r.Context()).Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run.Result())
}

func (e *GetRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var res pipeline.Result
			if err := client.Get(cmd.Context(), "/api/runs/"+args[0], &res); err != nil {
				return err
			}
			return api.Output(res)
		},
	}
}

// RunFileEndpoint handles GET /api/runs/{id}/files/{format}.
type RunFileEndpoint struct{}

var _ api.Endpoint = (*RunFileEndpoint)(nil)

func (e *RunFileEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs/{id}/files/{format}", e.handler
}

func (e *RunFileEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Download an export
//	@Tags		runs
//	@Produce	octet-stream
//	@Param		id		path		string	true	"Run ID"
//	@Param		format	path		string	true	"TXT, DOCX or PDF"
//	@Success	200		{file}		binary
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/runs/{id}/files/{format} [get]
func (e *RunFileEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	run, err := svcctx.RunsFrom(r.Context()).Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := run.Result()
	file, ok := res.Export(format)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("run %s has no %s export", res.RunID, format))
		return
	}

	f, err := os.Open(file.Path)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("export file unavailable: %v", err))
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := filepath.Base(file.Path)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (e *RunFileEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "download <id> <format>",
		Short: "Download an export of a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())

			format, err := export.ParseFormat(args[1])
			if err != nil {
				return err
			}
			if outPath == "" {
				var res pipeline.Result
				if err := client.Get(ctx, "/api/runs/"+args[0], &res); err != nil {
					return err
				}
				file, ok := res.Export(format)
				if !ok {
					return fmt.Errorf("run %s has no %s export", args[0], format)
				}
				outPath = filepath.Base(file.Path)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			if err := client.Download(ctx, "/api/runs/"+args[0]+"/files/"+string(format), f); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "file", "f", "", "destination path (default: export file name)")
	return cmd
}

// RunMetricsResponse holds step timings of one run grouped by stage.
type RunMetricsResponse struct {
	RunID   string                            `json:"run_id" yaml:"run_id"`
	Summary *metrics.Summary                  `json:"summary" yaml:"summary"`
	Stages  map[string]*metrics.DetailedStats `json:"stages" yaml:"stages"`
}

// RunMetricsEndpoint handles GET /api/runs/{id}/metrics.
type RunMetricsEndpoint struct{}

var _ api.Endpoint = (*RunMetricsEndpoint)(nil)

func (e *RunMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs/{id}/metrics", e.handler
}

func (e *RunMetricsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary	Step timings of a run
//	@Tags		runs
//	@Produce	json
//	@Param		id	path		string	true	"Run ID"
//	@Success	200	{object}	RunMetricsResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/runs/{id}/metrics [get]
func (e *RunMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	run, err := svcctx.RunsFrom(ctx).Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	rec := svcctx.MetricsFrom(ctx)
	if rec == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not initialized")
		return
	}
	writeJSON(w, http.StatusOK, RunMetricsResponse{
		RunID:   run.ID(),
		Summary: rec.Summary(metrics.Filter{RunID: run.ID()}),
		Stages:  rec.StageStats(run.ID()),
	})
}

func (e *RunMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <id>",
		Short: "Show step timings of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RunMetricsResponse
			if err := client.Get(cmd.Context(), "/api/runs/"+args[0]+"/metrics", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
