package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline package.
var (
	// ErrRunNotFound is returned when looking up an unknown run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunAlreadyRegistered is returned when registering a duplicate run ID.
	ErrRunAlreadyRegistered = errors.New("run already registered")

	// ErrRunFinished is returned by Step on a run in a terminal state.
	ErrRunFinished = errors.New("run already finished")

	// ErrPageOutOfRange is returned for a selection outside the document.
	ErrPageOutOfRange = errors.New("selected page out of range")
)

// Kind classifies a failed step.
type Kind string

const (
	KindRasterize Kind = "rasterize"
	KindOCR       Kind = "ocr"
	KindExport    Kind = "export"
	KindExportIO  Kind = "export_io"
	KindHistoryIO Kind = "history_io"
)

// StepError reports which step of a run failed.
type StepError struct {
	Kind Kind
	Step string // e.g. "page 3", "TXT"
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed at %s: %v", e.Kind, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" when err is not a StepError.
func KindOf(err error) Kind {
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
