package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/document"
	"github.com/jackzampolin/ocrstudio/internal/svcctx"
)

// InspectEndpoint handles POST /api/documents/inspect.
type InspectEndpoint struct{}

var _ api.Endpoint = (*InspectEndpoint)(nil)

func (e *InspectEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/inspect", e.handler
}

func (e *InspectEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	PDF metadata
//	@Tags		documents
//	@Accept		mpfd
//	@Produce	json
//	@Param		file	formData	file	true	"PDF document"
//	@Success	200		{object}	document.Info
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/documents/inspect [post]
func (e *InspectEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := document.Open(name, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer doc.Close()

	writeJSON(w, http.StatusOK, doc.Inspect(svcctx.LoggerFrom(r.Context())))
}

func (e *InspectEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show PDF metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var info document.Info
			if err := client.PostFile(cmd.Context(), "/api/documents/inspect", args[0], nil, &info); err != nil {
				return err
			}
			return api.Output(info)
		},
	}
}

// ThumbnailEndpoint handles POST /api/documents/thumbnail.
type ThumbnailEndpoint struct{}

var _ api.Endpoint = (*ThumbnailEndpoint)(nil)

func (e *ThumbnailEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents/thumbnail", e.handler
}

func (e *ThumbnailEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Render a page preview
//	@Tags		documents
//	@Accept		mpfd
//	@Produce	png
//	@Param		file		formData	file	true	"PDF document"
//	@Param		page		formData	int		false	"1-based page (default 1)"
//	@Param		dpi			formData	int		false	"Render DPI"
//	@Param		max_width	formData	int		false	"Maximum width in pixels"
//	@Success	200			{file}		binary
//	@Failure	400			{object}	ErrorResponse
//	@Router		/api/documents/thumbnail [post]
func (e *ThumbnailEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dpi, maxWidth := 110, 0
	if cfg := svcctx.ConfigFrom(r.Context()); cfg != nil {
		dpi, maxWidth = cfg.Preview.DPI, cfg.Preview.MaxWidth
	}
	page, err := formInt(r, "page", 1)
	if err == nil {
		dpi, err = formInt(r, "dpi", dpi)
	}
	if err == nil {
		maxWidth, err = formInt(r, "max_width", maxWidth)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := document.Open(name, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer doc.Close()

	img, err := doc.Thumbnail(page-1, dpi, maxWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := document.EncodePNG(w, img); err != nil {
		svcctx.LoggerFrom(r.Context()).Error("failed to write thumbnail", "error", err)
	}
}

func (e *ThumbnailEndpoint) Command(getServerURL func() string) *cobra.Command {
	var page int
	var outPath string
	cmd := &cobra.Command{
		Use:   "thumbnail <file.pdf>",
		Short: "Render a page preview as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = fmt.Sprintf("page_%04d.png", page)
			}
			client := api.NewClient(getServerURL())
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			fields := map[string]string{"page": strconv.Itoa(page)}
			if err := client.PostFileTo(cmd.Context(), "/api/documents/thumbnail", args[0], fields, f); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page")
	cmd.Flags().StringVarP(&outPath, "file", "f", "", "destination path (default: page_NNNN.png)")
	return cmd
}
