package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is a single documented configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns the default configuration entries.
// These are registered as viper defaults, so every key is overridable
// from the config file or an OCRSTUDIO_ environment variable.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// OCR
		// ===================
		{Key: "ocr.engine", Value: d.OCR.Engine, Description: "OCR engine: library (linked tesseract) or binary (tesseract executable)"},
		{Key: "ocr.binary_path", Value: d.OCR.BinaryPath, Description: "Path to the tesseract executable used by the binary engine"},
		{Key: "ocr.dpi", Value: d.OCR.DPI, Description: "Rasterization resolution for OCR input"},
		{Key: "ocr.default_mode", Value: d.OCR.DefaultMode, Description: "Default OCR language mode: auto, english, polish, eng+pol"},

		// ===================
		// Preview
		// ===================
		{Key: "preview.dpi", Value: d.Preview.DPI, Description: "Rasterization resolution for thumbnails"},
		{Key: "preview.max_width", Value: d.Preview.MaxWidth, Description: "Downscale thumbnails wider than this (0 = never)"},

		// ===================
		// Language detection
		// ===================
		{Key: "detect.sample_pages", Value: d.Detect.SamplePages, Description: "Number of leading pages whose text forms the detection sample"},
		{Key: "detect.min_confidence", Value: d.Detect.MinConfidence, Description: "Detections below this confidence are reported as unknown"},

		// ===================
		// Translation
		// ===================
		{Key: "translate.enabled", Value: d.Translate.Enabled, Description: "Default value of the translate toggle"},
		{Key: "translate.backend", Value: d.Translate.Backend, Description: "Translation backend: google, openai, none"},
		{Key: "translate.source", Value: d.Translate.Source, Description: "Source language hint"},
		{Key: "translate.target", Value: d.Translate.Target, Description: "Target language"},
		{Key: "translate.endpoint", Value: d.Translate.Endpoint, Description: "Override the backend base URL"},
		{Key: "translate.model", Value: d.Translate.Model, Description: "Chat model for the openai backend"},
		{Key: "translate.api_key", Value: d.Translate.APIKey, Description: "API key for the openai backend (uses environment variable)"},
		{Key: "translate.max_retries", Value: d.Translate.MaxRetries, Description: "Retry attempts per translation request"},
		{Key: "translate.timeout_seconds", Value: d.Translate.TimeoutSeconds, Description: "HTTP timeout in seconds for translation requests"},
		{Key: "translate.chunk_chars", Value: d.Translate.ChunkChars, Description: "Maximum characters sent per translation request"},
		{Key: "translate.requests_per_minute", Value: d.Translate.RequestsPerMin, Description: "Translation request rate limit (0 = unlimited)"},

		// ===================
		// Export
		// ===================
		{Key: "export.formats", Value: d.Export.Formats, Description: "Default export formats (TXT, DOCX, PDF)"},
		{Key: "export.output_dir", Value: d.Export.OutputDir, Description: "Export directory (empty = {home}/output)"},
		{Key: "export.logo_path", Value: d.Export.LogoPath, Description: "DOCX logo (empty = {home}/assets/logo.png)"},
		{Key: "export.pdf_font_path", Value: d.Export.PDFFontPath, Description: "Optional UTF-8 TrueType font for PDF export (embedded Go Regular otherwise)"},

		// ===================
		// History
		// ===================
		{Key: "history.path", Value: d.History.Path, Description: "History file (empty = {home}/history/conversions.json)"},
		{Key: "history.display_limit", Value: d.History.DisplayLimit, Description: "Number of records shown by history list"},

		// ===================
		// Storage mirror
		// ===================
		{Key: "storage.enabled", Value: d.Storage.Enabled, Description: "Mirror exports to an S3-compatible bucket"},
		{Key: "storage.endpoint", Value: d.Storage.Endpoint, Description: "S3 endpoint host:port"},
		{Key: "storage.bucket", Value: d.Storage.Bucket, Description: "Bucket name"},
		{Key: "storage.access_key", Value: d.Storage.AccessKey, Description: "Access key (supports ${ENV_VAR})"},
		{Key: "storage.secret_key", Value: d.Storage.SecretKey, Description: "Secret key (supports ${ENV_VAR})"},
		{Key: "storage.region", Value: d.Storage.Region, Description: "Bucket region (empty = server default)"},
		{Key: "storage.use_ssl", Value: d.Storage.UseSSL, Description: "Use HTTPS for the S3 endpoint"},
		{Key: "storage.prefix", Value: d.Storage.Prefix, Description: "Object key prefix"},

		// ===================
		// Server
		// ===================
		{Key: "server.host", Value: d.Server.Host, Description: "HTTP server bind host"},
		{Key: "server.port", Value: d.Server.Port, Description: "HTTP server port"},
	}
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// LookupDefault is GetDefault with key validation and a typed error.
func LookupDefault(key string) (*Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	def := GetDefault(key)
	if def == nil {
		return nil, fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return def, nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
