package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/document"
)

var inspectCmd = &cobra.Command{
	Use:     "info <file.pdf>",
	Aliases: []string{"inspect"},
	Short:   "Show PDF metadata",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()
		return api.Output(doc.Inspect(newLogger()))
	},
}

var (
	thumbPage     int
	thumbDPI      int
	thumbMaxWidth int
	thumbOut      string
)

var thumbnailCmd = &cobra.Command{
	Use:     "thumbs <file.pdf>",
	Aliases: []string{"thumbnail"},
	Short:   "Render a page preview as PNG",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, mgr, err := loadConfig()
		if err != nil {
			return err
		}
		preview := mgr.Get().Preview
		if !cmd.Flags().Changed("dpi") {
			thumbDPI = preview.DPI
		}
		if !cmd.Flags().Changed("max-width") {
			thumbMaxWidth = preview.MaxWidth
		}

		doc, err := document.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		img, err := doc.Thumbnail(thumbPage-1, thumbDPI, thumbMaxWidth)
		if err != nil {
			return err
		}

		out := thumbOut
		if out == "" {
			out = fmt.Sprintf("%s_page_%04d.png", doc.BaseName(), thumbPage)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		if err := document.EncodePNG(f, img); err != nil {
			return err
		}
		fmt.Printf("Saved %s\n", out)
		return nil
	},
}

func init() {
	thumbnailCmd.Flags().IntVar(&thumbPage, "page", 1, "1-based page")
	thumbnailCmd.Flags().IntVar(&thumbDPI, "dpi", 0, "render DPI (default: preview.dpi)")
	thumbnailCmd.Flags().IntVar(&thumbMaxWidth, "max-width", 0, "maximum width in pixels (default: preview.max_width)")
	thumbnailCmd.Flags().StringVarP(&thumbOut, "file", "f", "", "destination path (default: {name}_page_NNNN.png)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(thumbnailCmd)
}
