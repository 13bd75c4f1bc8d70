package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the ocrstudio home directory.
	DefaultDirName = ".ocrstudio"

	// OutputDirName is the subdirectory exported files are written to.
	OutputDirName = "output"

	// HistoryDirName is the subdirectory holding the conversion history.
	HistoryDirName = "history"

	// HistoryFileName is the name of the conversion history file.
	HistoryFileName = "conversions.json"

	// AssetsDirName holds branding assets such as the DOCX logo.
	AssetsDirName = "assets"

	// LogoFileName is the default logo embedded in DOCX exports.
	LogoFileName = "logo.png"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// Dir represents the ocrstudio home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.ocrstudio).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// OutputPath returns the default export directory.
func (d *Dir) OutputPath() string {
	return filepath.Join(d.path, OutputDirName)
}

// HistoryPath returns the default history file path.
func (d *Dir) HistoryPath() string {
	return filepath.Join(d.path, HistoryDirName, HistoryFileName)
}

// LogoPath returns the default DOCX logo path. The file is optional.
func (d *Dir) LogoPath() string {
	return filepath.Join(d.path, AssetsDirName, LogoFileName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{
		d.OutputPath(),
		filepath.Dir(d.HistoryPath()),
		filepath.Join(d.path, AssetsDirName),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
