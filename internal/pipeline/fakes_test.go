package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackzampolin/ocrstudio/internal/export"
	"github.com/jackzampolin/ocrstudio/internal/history"
	"github.com/jackzampolin/ocrstudio/internal/testutil"
	"github.com/jackzampolin/ocrstudio/internal/translate"
)

// fakeSource encodes the page index in the bitmap width so fakeEngine
// can tell pages apart.
type fakeSource struct {
	pages   int
	failAt  int // -1: never
	lastDPI int
}

func newFakeSource(pages int) *fakeSource {
	return &fakeSource{pages: pages, failAt: -1}
}

func (s *fakeSource) PageCount() int { return s.pages }

func (s *fakeSource) Rasterize(index, dpi int) (*image.RGBA, error) {
	s.lastDPI = dpi
	if index == s.failAt {
		return nil, errors.New("broken page")
	}
	return image.NewRGBA(image.Rect(0, 0, index+1, 1)), nil
}

// fakeEngine returns "hello page N" for 1-based page N, or the text in
// texts when one is set for that page.
type fakeEngine struct {
	texts map[int]string
	err   error
	langs []string
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(_ context.Context, img image.Image, lang string) (string, error) {
	e.langs = append(e.langs, lang)
	if e.err != nil {
		return "", e.err
	}
	page := img.Bounds().Dx()
	if t, ok := e.texts[page]; ok {
		return t, nil
	}
	return fmt.Sprintf("hello page %d", page), nil
}

type fakeDetector struct {
	code  string
	err   error
	calls int
}

func (d *fakeDetector) Detect(string) (string, error) {
	d.calls++
	return d.code, d.err
}

// prefixBackend "translates" by prefixing the target language.
type prefixBackend struct {
	err error
}

func (b prefixBackend) Name() string { return "prefix" }

func (b prefixBackend) Translate(_ context.Context, text, _, target string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return target + ":" + text, nil
}

type failingExporter struct {
	format export.Format
	err    error
}

func (e failingExporter) Format() export.Format { return e.format }

func (e failingExporter) Export(context.Context, []string, string) (string, error) {
	return "", e.err
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, history.Record) error {
	return errors.New("disk full")
}

type memMirror struct {
	mu    sync.Mutex
	paths []string
}

func (m *memMirror) Mirror(_ context.Context, runID, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths = append(m.paths, path)
	return "mem://" + runID + "/" + filepath.Base(path), nil
}

type fixture struct {
	dir       string
	engine    *fakeEngine
	detector  *fakeDetector
	exporters *export.Set
	history   *history.Store
	mirror    *memMirror
}

func newFixture(t *testing.T, detected string) *fixture {
	t.Helper()
	dir := t.TempDir()
	logger := testutil.DiscardLogger()
	return &fixture{
		dir:       dir,
		engine:    &fakeEngine{},
		detector:  &fakeDetector{code: detected},
		exporters: export.NewSet(export.Config{OutputDir: filepath.Join(dir, "output"), Logger: logger}),
		history:   history.New(filepath.Join(dir, "history", "conversions.json"), logger),
		mirror:    &memMirror{},
	}
}

func (f *fixture) pipeline(t *testing.T, backend translate.Backend) *Pipeline {
	t.Helper()
	logger := testutil.DiscardLogger()
	p, err := New(Config{
		Engine:     f.engine,
		Exporters:  f.exporters,
		Detector:   f.detector,
		Translator: translate.NewBestEffort(backend, translate.Options{Target: "pl", Logger: logger}),
		History:    f.history,
		Mirror:     f.mirror,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	return p
}
