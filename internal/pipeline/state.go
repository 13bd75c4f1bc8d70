package pipeline

// State is the position of a run in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateOCR       State = "ocr"
	StateTranslate State = "translate"
	StateExport    State = "export"
	StateHistory   State = "history"
	StateDone      State = "done"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further steps can run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCancelled
}

// Progress counts completed units of work: OCR pages, translated pages and
// exports. The history append is not counted.
type Progress struct {
	Done  int `json:"done" yaml:"done"`
	Total int `json:"total" yaml:"total"`

	complete bool
}

// Fraction returns Done/Total clamped to [0,1]. A run with no units of
// work reports 1 only once it has finished.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		if p.complete {
			return 1
		}
		return 0
	}
	f := float64(p.Done) / float64(p.Total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
