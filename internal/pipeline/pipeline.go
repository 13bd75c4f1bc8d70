// Package pipeline runs the page conversion: rasterize and OCR the selected
// pages, detect the language, translate when the gate allows, export each
// requested format and append a history record.
//
// A Run is an explicit state machine. Each call to Run.Step performs one
// unit of work (one OCR page, one translated page, one export or the
// history append), so progress and cancellation are observable between
// steps. Pipeline.Execute drives a run to completion.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/history"
	"github.com/jackzampolin/ocrstudio/internal/langdetect"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/ocr"
	"github.com/jackzampolin/ocrstudio/internal/storage"
	"github.com/jackzampolin/ocrstudio/internal/translate"
)

// DefaultDPI is the rasterization resolution for OCR input.
const DefaultDPI = 300

// PageSource is an opened document.
type PageSource interface {
	PageCount() int
	Rasterize(index, dpi int) (*image.RGBA, error)
}

// Translator translates one page of text without ever failing.
type Translator interface {
	Attempt(ctx context.Context, text string) translate.Outcome
}

// Exporters resolves the exporter for a format.
type Exporters interface {
	Get(f export.Format) (export.Exporter, error)
}

// HistoryLog receives one record per completed run.
type HistoryLog interface {
	Append(ctx context.Context, rec history.Record) error
}

// Config wires the pipeline's collaborators.
type Config struct {
	Engine      ocr.Engine          // required
	Exporters   Exporters           // required
	Detector    langdetect.Detector // nil: whatlanggo
	SamplePages int                 // pages sampled for detection; 0: 3
	Translator  Translator          // nil: never translates
	History     HistoryLog          // nil: runs are not recorded
	Mirror      storage.Mirror      // nil: exports stay local
	Metrics     *metrics.Recorder   // nil: a private recorder
	DPI         int                 // 0: DefaultDPI
	Logger      *slog.Logger
	Now         func() time.Time
}

// Pipeline creates and executes runs.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New validates cfg and fills defaults.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Engine == nil {
		return nil, errors.New("ocr engine is required")
	}
	if cfg.Exporters == nil {
		return nil, errors.New("exporters are required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Detector == nil {
		cfg.Detector = langdetect.Whatlang{}
	}
	if cfg.SamplePages <= 0 {
		cfg.SamplePages = langdetect.DefaultSamplePages
	}
	if cfg.Translator == nil {
		cfg.Translator = translate.NewBestEffort(nil, translate.Options{Logger: cfg.Logger})
	}
	if cfg.Mirror == nil {
		cfg.Mirror = storage.Nop{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRecorder(0)
	}
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{cfg: cfg, logger: cfg.Logger}, nil
}

// Metrics returns the recorder collecting step timings.
func (p *Pipeline) Metrics() *metrics.Recorder {
	return p.cfg.Metrics
}

// Engine returns the OCR engine name.
func (p *Pipeline) Engine() string {
	return p.cfg.Engine.Name()
}

// Options are the user's choices for one run.
type Options struct {
	FileName  string          // uploaded filename, recorded in history
	Pages     []int           // zero-based; empty selects every page
	Mode      ocr.Mode        // empty: auto
	Translate bool            // translation toggle
	Formats   []export.Format // exported in this order
	RunDir    bool            // export into a subdirectory named after the run ID
}

// NewRun resolves the page selection and validates the export formats.
// Nothing is processed until the run is stepped.
func (p *Pipeline) NewRun(src PageSource, opts Options) (*Run, error) {
	if src == nil {
		return nil, errors.New("page source is required")
	}
	mode, err := ocr.ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	opts.Mode = mode

	selection, err := EffectiveSelection(src.PageCount(), opts.Pages)
	if err != nil {
		return nil, err
	}

	formats := make([]export.Format, 0, len(opts.Formats))
	seen := make(map[export.Format]bool, len(opts.Formats))
	for _, f := range opts.Formats {
		if seen[f] {
			continue
		}
		if _, err := p.cfg.Exporters.Get(f); err != nil {
			return nil, err
		}
		seen[f] = true
		formats = append(formats, f)
	}
	opts.Formats = formats

	id := uuid.NewString()
	r := &Run{
		id:        id,
		p:         p,
		src:       src,
		opts:      opts,
		selection: selection,
		lang:      opts.Mode.Language(),
		baseName:  outputBase(id, opts),
		texts:     make([]string, len(selection)),
		state:     StateIdle,
		detected:  langdetect.Unknown,
		created:   p.cfg.Now(),
		logger:    p.logger.With("run_id", id),
	}
	r.progress.Total = r.plannedTotal()
	return r, nil
}

// Execute steps r until it reaches a terminal state, calling onProgress
// after every step. The returned error is the reason a run failed or was
// cancelled; a history append failure does not fail the run and is
// reported on Result.HistoryErr instead.
func (p *Pipeline) Execute(ctx context.Context, r *Run, onProgress func(Progress)) (*Result, error) {
	if r.p != p {
		return nil, fmt.Errorf("run %s belongs to another pipeline", r.id)
	}
	for !r.State().Terminal() {
		err := r.Step(ctx)
		if onProgress != nil {
			onProgress(r.Progress())
		}
		if err != nil {
			res := r.Result()
			return &res, err
		}
	}
	res := r.Result()
	return &res, nil
}

// Process creates a run and executes it.
func (p *Pipeline) Process(ctx context.Context, src PageSource, opts Options, onProgress func(Progress)) (*Result, error) {
	r, err := p.NewRun(src, opts)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, r, onProgress)
}

// outputBase keeps the {base}_OCR name and, for RunDir, nests it under
// the run ID so same-named uploads never overwrite each other.
func outputBase(id string, opts Options) string {
	base := export.OutputBase(opts.FileName)
	if opts.RunDir {
		return filepath.Join(id, base)
	}
	return base
}
