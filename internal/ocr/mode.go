package ocr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a language mode label is not recognized.
var ErrUnknownMode = errors.New("unknown ocr language mode")

// Mode is a user-facing OCR language choice.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeEnglish Mode = "english"
	ModePolish  Mode = "polish"
	ModeEngPol  Mode = "eng+pol"
)

// Tesseract language specifiers. Only these are ever passed to an engine.
const (
	LangEnglish = "eng"
	LangPolish  = "pol"
	LangEngPol  = "eng+pol"
)

// Modes lists the selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeAuto, ModeEnglish, ModePolish, ModeEngPol}
}

// ParseMode accepts a mode label or a raw tesseract specifier.
// An empty label selects auto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "english", "eng", "en":
		return ModeEnglish, nil
	case "polish", "pol", "pl":
		return ModePolish, nil
	case "eng+pol", "engpol", "eng_pol":
		return ModeEngPol, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Language resolves the mode to the tesseract specifier. Auto tries both
// English and Polish.
func (m Mode) Language() string {
	switch m {
	case ModeEnglish:
		return LangEnglish
	case ModePolish:
		return LangPolish
	default:
		return LangEngPol
	}
}

// ForcesEnglish reports whether the user explicitly chose English OCR.
func (m Mode) ForcesEnglish() bool {
	return m == ModeEnglish
}

// Label returns a human readable name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeEnglish:
		return "English (eng)"
	case ModePolish:
		return "Polish (pol)"
	case ModeEngPol:
		return "Eng+Pol (eng+pol)"
	default:
		return "Auto (eng+pol)"
	}
}

// ValidLanguage reports whether lang is one of the supported specifiers.
func ValidLanguage(lang string) bool {
	switch lang {
	case LangEnglish, LangPolish, LangEngPol:
		return true
	}
	return false
}
