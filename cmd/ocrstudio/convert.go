package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrstudio/internal/api"
	"github.com/jackzampolin/ocrstudio/internal/document"
	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/ocr"
	"github.com/jackzampolin/ocrstudio/internal/pipeline"
)

var (
	convertPages     string
	convertMode      string
	convertTranslate bool
	convertExports   []string
	convertShowText  bool
)

var convertCmd = &cobra.Command{
	Use:     "run <file.pdf>",
	Aliases: []string{"convert"},
	Short:   "Convert a PDF locally",
	Long: `Run the full pipeline in-process: OCR the selected pages, detect the
language, translate to Polish when the document is not already Polish and
export the requested formats into the output directory.

Examples:
  ocrstudio run scan.pdf
  ocrstudio run scan.pdf --pages 1,3-5 --mode polish
  ocrstudio run scan.pdf --exports TXT,PDF --translate=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		svcs, err := localServices(ctx, logger)
		if err != nil {
			return err
		}
		cfg := svcs.Config

		opts := pipeline.Options{Translate: cfg.Translate.Enabled}
		if cmd.Flags().Changed("translate") {
			opts.Translate = convertTranslate
		}
		if opts.Pages, err = pipeline.ParsePageSpec(convertPages); err != nil {
			return err
		}
		modeLabel := convertMode
		if modeLabel == "" {
			modeLabel = cfg.OCR.DefaultMode
		}
		if opts.Mode, err = ocr.ParseMode(modeLabel); err != nil {
			return err
		}
		labels := cfg.Export.Formats
		if cmd.Flags().Changed("exports") {
			labels = convertExports
		}
		if opts.Formats, err = export.ParseFormats(labels); err != nil {
			return err
		}

		doc, err := document.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()
		opts.FileName = doc.Name()

		run, err := svcs.Pipeline.NewRun(doc, opts)
		if err != nil {
			return err
		}

		bar := newProgressBar(run.Progress().Total, doc.Name())
		res, err := svcs.Pipeline.Execute(ctx, run, func(p pipeline.Progress) {
			bar.ChangeMax(p.Total)
			bar.Describe(fmt.Sprintf("%s [%s]", doc.Name(), run.State()))
			_ = bar.Set(p.Done)
		})
		_ = bar.Finish()
		if err != nil {
			return fmt.Errorf("conversion failed (%s): %w", pipeline.KindOf(err), err)
		}
		if res.HistoryErr != nil {
			logger.Warn("conversion finished but was not added to history", "error", res.HistoryErr)
		}

		if !convertShowText {
			res.Texts = nil
		}
		return api.Output(res)
	},
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func init() {
	convertCmd.Flags().StringVar(&convertPages, "pages", "", "1-based pages, e.g. 1,3-5 (default: all)")
	convertCmd.Flags().StringVar(&convertMode, "mode", "", "OCR language: auto, english, polish, eng+pol (default: ocr.default_mode)")
	convertCmd.Flags().BoolVar(&convertTranslate, "translate", true, "translate to Polish when the detected language is English or unknown, or English OCR is forced (default: translate.enabled)")
	convertCmd.Flags().StringSliceVar(&convertExports, "exports", nil, "formats to export: "+strings.Join(formatLabels(), ", ")+" (default: export.formats)")
	convertCmd.Flags().BoolVar(&convertShowText, "show-text", false, "include the page texts in the output")

	rootCmd.AddCommand(convertCmd)
}

func formatLabels() []string {
	labels := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		labels = append(labels, string(f))
	}
	return labels
}
