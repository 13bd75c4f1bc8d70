package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/history"
	"github.com/jackzampolin/ocrstudio/internal/langdetect"
	"github.com/jackzampolin/ocrstudio/internal/metrics"
	"github.com/jackzampolin/ocrstudio/internal/translate"
)

// ExportFile is one file produced by a run.
type ExportFile struct {
	Format   export.Format `json:"format" yaml:"format"`
	Path     string        `json:"path" yaml:"path"`
	Location string        `json:"location,omitempty" yaml:"location,omitempty"` // mirror URI
}

// Result is a snapshot of a run.
type Result struct {
	RunID           string          `json:"run_id" yaml:"run_id"`
	File            string          `json:"file" yaml:"file"`
	State           State           `json:"state" yaml:"state"`
	Pages           []int           `json:"pages" yaml:"pages"` // 1-based
	Language        string          `json:"tesseract_lang" yaml:"tesseract_lang"`
	Detected        string          `json:"detected_lang" yaml:"detected_lang"`
	Translated      bool            `json:"translated_to_pl" yaml:"translated_to_pl"`
	TranslatedPages int             `json:"translated_pages" yaml:"translated_pages"`
	Texts           []string        `json:"texts,omitempty" yaml:"texts,omitempty"`
	Exports         []ExportFile    `json:"exports" yaml:"exports"`
	Progress        Progress        `json:"progress" yaml:"progress"`
	Fraction        float64         `json:"fraction" yaml:"fraction"`
	Record          *history.Record `json:"record,omitempty" yaml:"record,omitempty"`
	Error           string          `json:"error,omitempty" yaml:"error,omitempty"`
	HistoryError    string          `json:"history_error,omitempty" yaml:"history_error,omitempty"`
	CreatedAt       time.Time       `json:"created_at" yaml:"created_at"`
	FinishedAt      *time.Time      `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`

	// Err and HistoryErr carry the typed errors behind Error and HistoryError.
	Err        error `json:"-" yaml:"-"`
	HistoryErr error `json:"-" yaml:"-"`
}

// Export returns the file produced for f.
func (r *Result) Export(f export.Format) (ExportFile, bool) {
	for _, e := range r.Exports {
		if e.Format == f {
			return e, true
		}
	}
	return ExportFile{}, false
}

// Run is one conversion. Step is not safe for concurrent use; every other
// method may be called from any goroutine.
type Run struct {
	id        string
	p         *Pipeline
	src       PageSource
	opts      Options
	selection []int
	lang      string
	baseName  string
	logger    *slog.Logger
	created   time.Time

	step sync.Mutex // serializes Step

	mu              sync.RWMutex
	state           State
	texts           []string
	ocrNext         int
	translateNext   int
	exportNext      int
	historyDone     bool
	detected        string
	translate       bool
	translatedPages int
	exports         []ExportFile
	record          *history.Record
	progress        Progress
	err             error
	historyErr      error
	finished        time.Time
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.id
}

// State returns the current state.
func (r *Run) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Progress returns the current progress.
func (r *Run) Progress() Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.progress
}

// Selection returns the effective zero-based page selection.
func (r *Run) Selection() []int {
	return append([]int(nil), r.selection...)
}

// Result returns a snapshot of the run.
func (r *Run) Result() Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := Result{
		RunID:           r.id,
		File:            r.opts.FileName,
		State:           r.state,
		Pages:           PageNumbers(r.selection),
		Language:        r.lang,
		Detected:        r.detected,
		Translated:      r.translate,
		TranslatedPages: r.translatedPages,
		Texts:           append([]string(nil), r.texts...),
		Exports:         append([]ExportFile{}, r.exports...),
		Progress:        r.progress,
		Fraction:        r.progress.Fraction(),
		CreatedAt:       r.created,
		Err:             r.err,
		HistoryErr:      r.historyErr,
	}
	if r.record != nil {
		rec := *r.record
		res.Record = &rec
	}
	if r.err != nil {
		res.Error = r.err.Error()
	}
	if r.historyErr != nil {
		res.HistoryError = r.historyErr.Error()
	}
	if !r.finished.IsZero() {
		t := r.finished
		res.FinishedAt = &t
	}
	return res
}

// Step performs the next unit of work. It returns ErrRunFinished once the
// run is terminal, the context error when cancelled, or a *StepError when
// a step fails. Both failure and cancellation are terminal.
func (r *Run) Step(ctx context.Context) error {
	r.step.Lock()
	defer r.step.Unlock()

	state := r.State()
	if state.Terminal() {
		return ErrRunFinished
	}
	if err := ctx.Err(); err != nil {
		r.finish(StateCancelled, err)
		return err
	}

	if state == StateIdle {
		r.logger.Info("starting run", "file", r.opts.FileName, "pages", len(r.selection),
			"lang", r.lang, "formats", r.opts.Formats)
		r.advance()
		state = r.State()
	}

	var err error
	switch state {
	case StateOCR:
		err = r.ocrPage(ctx)
	case StateTranslate:
		r.translatePage(ctx)
	case StateExport:
		err = r.exportFormat(ctx)
	case StateHistory:
		r.appendHistory(ctx)
	}
	if err != nil {
		if ctx.Err() != nil {
			r.finish(StateCancelled, ctx.Err())
			return ctx.Err()
		}
		r.logger.Error("run failed", "error", err)
		r.finish(StateFailed, err)
		return err
	}

	r.advance()
	return nil
}

// plannedTotal counts units of work assuming translation happens whenever
// the toggle is on. The gate may remove the translation steps later.
func (r *Run) plannedTotal() int {
	n := len(r.selection) + len(r.opts.Formats)
	if r.opts.Translate {
		n += len(r.selection)
	}
	return n
}

// advance moves past every phase that has no remaining work.
func (r *Run) advance() {
	for {
		r.mu.Lock()
		state := r.state
		r.mu.Unlock()

		switch state {
		case StateIdle:
			r.setState(StateOCR)
		case StateOCR:
			if r.ocrNext < len(r.selection) {
				return
			}
			if r.gate() {
				r.setState(StateTranslate)
			} else {
				r.setState(StateExport)
			}
		case StateTranslate:
			if r.translateNext < len(r.selection) {
				return
			}
			r.setState(StateExport)
		case StateExport:
			if r.exportNext < len(r.opts.Formats) {
				return
			}
			r.setState(StateHistory)
			return
		case StateHistory:
			if !r.historyDone {
				return
			}
			r.finish(StateDone, nil)
			return
		default:
			return
		}
	}
}

// gate detects the language once and applies the translation policy.
func (r *Run) gate() bool {
	detected := langdetect.DetectPages(r.p.cfg.Detector, r.texts, r.p.cfg.SamplePages, r.logger)
	doTranslate := translate.ShouldTranslate(r.opts.Translate, detected, r.opts.Mode.ForcesEnglish())

	r.mu.Lock()
	r.detected = detected
	r.translate = doTranslate
	if r.opts.Translate && !doTranslate {
		r.progress.Total -= len(r.selection)
	}
	r.mu.Unlock()

	r.logger.Info("language detected", "detected", detected, "translate", doTranslate)
	return doTranslate
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Run) finish(s State, err error) {
	r.mu.Lock()
	r.state = s
	r.err = err
	r.finished = r.p.cfg.Now()
	if s == StateDone {
		r.progress.complete = true
	}
	r.mu.Unlock()

	r.logger.Info("run finished", "state", s)
}

func (r *Run) completeUnit() {
	r.mu.Lock()
	if r.progress.Done < r.progress.Total {
		r.progress.Done++
	}
	r.mu.Unlock()
}

func (r *Run) ocrPage(ctx context.Context) error {
	i := r.ocrNext
	index := r.selection[i]
	item := fmt.Sprintf("page_%04d", index+1)
	step := fmt.Sprintf("page %d", index+1)
	start := time.Now()

	img, err := r.src.Rasterize(index, r.p.cfg.DPI)
	if err != nil {
		r.observe(metrics.Metric{Stage: string(StateOCR), ItemKey: item, ErrorType: string(KindRasterize)}, start)
		return &StepError{Kind: KindRasterize, Step: step, Err: err}
	}

	text, err := r.p.cfg.Engine.Recognize(ctx, img, r.lang)
	if err != nil {
		r.observe(metrics.Metric{Stage: string(StateOCR), ItemKey: item, ErrorType: string(KindOCR)}, start)
		return &StepError{Kind: KindOCR, Step: step, Err: err}
	}
	r.observe(metrics.Metric{Stage: string(StateOCR), ItemKey: item, Success: true}, start)

	r.mu.Lock()
	r.texts[i] = text
	r.mu.Unlock()
	r.ocrNext++
	r.completeUnit()

	r.logger.Debug("page recognized", "page", index+1, "chars", len(text))
	return nil
}

func (r *Run) translatePage(ctx context.Context) {
	i := r.translateNext
	start := time.Now()

	r.mu.RLock()
	text := r.texts[i]
	r.mu.RUnlock()

	out := r.p.cfg.Translator.Attempt(ctx, text)
	r.observe(metrics.Metric{
		Stage:     string(StateTranslate),
		ItemKey:   fmt.Sprintf("page_%04d", r.selection[i]+1),
		Success:   out.Translated,
		ErrorType: out.Reason,
	}, start)

	r.mu.Lock()
	r.texts[i] = out.Text
	if out.Translated {
		r.translatedPages++
	}
	r.mu.Unlock()
	r.translateNext++
	r.completeUnit()
}

func (r *Run) exportFormat(ctx context.Context) error {
	f := r.opts.Formats[r.exportNext]
	start := time.Now()

	exp, err := r.p.cfg.Exporters.Get(f)
	if err != nil {
		return &StepError{Kind: KindExport, Step: string(f), Err: err}
	}

	r.mu.RLock()
	pages := append([]string(nil), r.texts...)
	r.mu.RUnlock()

	path, err := exp.Export(ctx, pages, r.baseName)
	if err != nil {
		kind := KindExport
		var ioErr *export.IOError
		if errors.As(err, &ioErr) {
			kind = KindExportIO
		}
		r.observe(metrics.Metric{Stage: string(StateExport), ItemKey: string(f), ErrorType: string(kind)}, start)
		return &StepError{Kind: kind, Step: string(f), Err: err}
	}
	r.observe(metrics.Metric{Stage: string(StateExport), ItemKey: string(f), Success: true}, start)

	file := ExportFile{Format: f, Path: path}
	loc, err := r.p.cfg.Mirror.Mirror(ctx, r.id, path)
	if err != nil {
		r.logger.Warn("failed to mirror export", "format", f, "path", path, "error", err)
	} else {
		file.Location = loc
	}

	r.mu.Lock()
	r.exports = append(r.exports, file)
	r.mu.Unlock()
	r.exportNext++
	r.completeUnit()

	r.logger.Info("exported", "format", f, "path", path)
	return nil
}

// appendHistory records the run. A failure is kept on the run and does
// not fail it.
func (r *Run) appendHistory(ctx context.Context) {
	r.mu.RLock()
	labels := make([]string, 0, len(r.exports))
	for _, e := range r.exports {
		labels = append(labels, string(e.Format))
	}
	rec := history.Record{
		ID:            uuid.NewString(),
		File:          r.opts.FileName,
		Pages:         PageNumbers(r.selection),
		TesseractLang: r.lang,
		DetectedLang:  r.detected,
		Translated:    r.translate,
		Exports:       labels,
		Timestamp:     r.p.cfg.Now().Format(history.TimestampLayout),
	}
	r.mu.RUnlock()

	var herr error
	if r.p.cfg.History != nil {
		start := time.Now()
		if err := r.p.cfg.History.Append(ctx, rec); err != nil {
			herr = &StepError{Kind: KindHistoryIO, Step: "history", Err: err}
			r.logger.Warn("failed to append history record", "error", err)
			r.observe(metrics.Metric{Stage: string(StateHistory), ErrorType: string(KindHistoryIO)}, start)
		} else {
			r.observe(metrics.Metric{Stage: string(StateHistory), Success: true}, start)
		}
	}

	r.mu.Lock()
	r.record = &rec
	r.historyErr = herr
	r.historyDone = true
	r.mu.Unlock()
}

func (r *Run) observe(m metrics.Metric, start time.Time) {
	m.RunID = r.id
	m.Seconds = time.Since(start).Seconds()
	if m.Stage == string(StateOCR) {
		m.Provider = r.p.cfg.Engine.Name()
	}
	r.p.cfg.Metrics.Record(m)
}
