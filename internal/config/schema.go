package config

// Config holds ocrstudio configuration.
// Stored at: {home}/config.yaml
type Config struct {
	OCR       OCRCfg       `mapstructure:"ocr" yaml:"ocr"`
	Preview   PreviewCfg   `mapstructure:"preview" yaml:"preview"`
	Detect    DetectCfg    `mapstructure:"detect" yaml:"detect"`
	Translate TranslateCfg `mapstructure:"translate" yaml:"translate"`
	Export    ExportCfg    `mapstructure:"export" yaml:"export"`
	History   HistoryCfg   `mapstructure:"history" yaml:"history"`
	Storage   StorageCfg   `mapstructure:"storage" yaml:"storage"`
	Server    ServerCfg    `mapstructure:"server" yaml:"server"`
}

// OCRCfg configures page recognition.
type OCRCfg struct {
	Engine      string `mapstructure:"engine" yaml:"engine"`           // "library" (linked tesseract) or "binary"
	BinaryPath  string `mapstructure:"binary_path" yaml:"binary_path"` // tesseract executable for the binary engine
	DPI         int    `mapstructure:"dpi" yaml:"dpi"`
	DefaultMode string `mapstructure:"default_mode" yaml:"default_mode"`
}

// PreviewCfg configures thumbnail rendering.
type PreviewCfg struct {
	DPI      int `mapstructure:"dpi" yaml:"dpi"`
	MaxWidth int `mapstructure:"max_width" yaml:"max_width"` // 0 keeps the rendered width
}

// DetectCfg configures language detection.
type DetectCfg struct {
	SamplePages   int     `mapstructure:"sample_pages" yaml:"sample_pages"`
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
}

// TranslateCfg configures the translation backend.
type TranslateCfg struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	Backend        string `mapstructure:"backend" yaml:"backend"` // "google", "openai", "none"
	Source         string `mapstructure:"source" yaml:"source"`
	Target         string `mapstructure:"target" yaml:"target"`
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	ChunkChars     int    `mapstructure:"chunk_chars" yaml:"chunk_chars"`
	RequestsPerMin int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"` // 0 = unlimited
}

// ExportCfg configures exporters.
type ExportCfg struct {
	Formats     []string `mapstructure:"formats" yaml:"formats"`
	OutputDir   string   `mapstructure:"output_dir" yaml:"output_dir"`
	LogoPath    string   `mapstructure:"logo_path" yaml:"logo_path"`
	PDFFontPath string   `mapstructure:"pdf_font_path" yaml:"pdf_font_path"`
}

// HistoryCfg configures the conversion history log.
type HistoryCfg struct {
	Path         string `mapstructure:"path" yaml:"path"`
	DisplayLimit int    `mapstructure:"display_limit" yaml:"display_limit"`
}

// StorageCfg configures the optional S3-compatible export mirror.
type StorageCfg struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Region    string `mapstructure:"region" yaml:"region"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRCfg{
			Engine:      "library",
			BinaryPath:  "tesseract",
			DPI:         300,
			DefaultMode: "auto",
		},
		Preview: PreviewCfg{
			DPI: 110,
		},
		Detect: DetectCfg{
			SamplePages: 3,
		},
		Translate: TranslateCfg{
			Enabled:        true,
			Backend:        "google",
			Source:         "auto",
			Target:         "pl",
			Model:          "gpt-4o-mini",
			APIKey:         "${OPENAI_API_KEY}",
			MaxRetries:     2,
			TimeoutSeconds: 30,
			ChunkChars:     4500,
			RequestsPerMin: 60,
		},
		Export: ExportCfg{
			Formats: []string{"DOCX"},
		},
		History: HistoryCfg{
			DisplayLimit: 10,
		},
		Storage: StorageCfg{
			Bucket: "ocrstudio",
			UseSSL: true,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// TranslateAPIKey returns the translation API key with ${ENV_VAR} references resolved.
func (c *Config) TranslateAPIKey() string {
	return ResolveEnvVars(c.Translate.APIKey)
}

// StorageCredentials returns the mirror credentials with ${ENV_VAR} references resolved.
func (c *Config) StorageCredentials() (accessKey, secretKey string) {
	return ResolveEnvVars(c.Storage.AccessKey), ResolveEnvVars(c.Storage.SecretKey)
}

// OutputDir returns the configured export directory or the fallback.
func (c *Config) OutputDir(fallback string) string {
	if c.Export.OutputDir != "" {
		return c.Export.OutputDir
	}
	return fallback
}

// LogoPath returns the configured DOCX logo path or the fallback.
func (c *Config) LogoPath(fallback string) string {
	if c.Export.LogoPath != "" {
		return c.Export.LogoPath
	}
	return fallback
}

// HistoryPath returns the configured history file path or the fallback.
func (c *Config) HistoryPath(fallback string) string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return fallback
}
