// Package config loads the YAML configuration file used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-dfimage/internal/fileutil"
	"github.com/alnah/go-dfimage/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxNameLength    = 255 // document name, file-system limit
	MaxCommandArgs   = 32
	MaxFormatEntries = 4
)

// configDirName is the directory under the user config dir searched for
// config names.
const configDirName = "go-dfimage"

// Config holds all configuration for notebook conversion.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	PDF      PDFConfig      `yaml:"pdf"`
	Table    TableConfig    `yaml:"table"`
	Notebook NotebookConfig `yaml:"notebook"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// OutputConfig defines what is written and where.
type OutputConfig struct {
	Dir          string   `yaml:"dir"`          // empty = next to the notebook
	Formats      []string `yaml:"formats"`      // pdf, md, markdown
	DocumentName string   `yaml:"documentName"` // empty = notebook name
}

// PDFConfig defines how PDFs are produced.
type PDFConfig struct {
	Engine       string   `yaml:"engine"`       // latex or browser
	LaTeXCommand []string `yaml:"latexCommand"` // e.g. [xelatex, "{filename}"]
	Style        string   `yaml:"style"`        // browser engine CSS: name, path or inline
}

// TableConfig defines how DataFrame tables become images.
type TableConfig struct {
	Backend    string `yaml:"backend"` // chrome or matplotlib
	Center     *bool  `yaml:"center"`  // nil = default (centered)
	MaxRows    int    `yaml:"maxRows"`
	MaxCols    int    `yaml:"maxCols"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	ChromePath string `yaml:"chromePath"`
}

// NotebookConfig defines how the notebook itself is handled.
type NotebookConfig struct {
	Limit          int    `yaml:"limit"`          // 0 = all cells
	Execute        bool   `yaml:"execute"`
	ExecuteTimeout string `yaml:"executeTimeout"` // Go duration, e.g. "10m"
	Jupyter        string `yaml:"jupyter"`        // jupyter executable
	Save           bool   `yaml:"save"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// DefaultConfig returns an empty configuration. Zero values defer to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// ExecuteTimeoutDuration parses Notebook.ExecuteTimeout. Empty yields 0.
func (c *Config) ExecuteTimeoutDuration() (time.Duration, error) {
	if c.Notebook.ExecuteTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Notebook.ExecuteTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: notebook.executeTimeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: notebook.executeTimeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks enumerations, ranges and field lengths. Called by
// LoadConfig, available to callers building Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.documentName", c.Output.DocumentName, MaxNameLength); err != nil {
		return err
	}
	if len(c.Output.Formats) > MaxFormatEntries {
		return fmt.Errorf("%w: output.formats (%d entries, max %d)", ErrFieldTooLong, len(c.Output.Formats), MaxFormatEntries)
	}
	for i, f := range c.Output.Formats {
		switch strings.ToLower(f) {
		case "pdf", "md", "markdown":
		default:
			return fmt.Errorf("%w: output.formats[%d]: %q (must be pdf, md or markdown)", ErrInvalidValue, i, f)
		}
	}

	switch c.PDF.Engine {
	case "", "latex", "browser":
	default:
		return fmt.Errorf("%w: pdf.engine: %q (must be latex or browser)", ErrInvalidValue, c.PDF.Engine)
	}
	if len(c.PDF.LaTeXCommand) > MaxCommandArgs {
		return fmt.Errorf("%w: pdf.latexCommand (%d args, max %d)", ErrFieldTooLong, len(c.PDF.LaTeXCommand), MaxCommandArgs)
	}
	if err := validateFieldLength("pdf.style", c.PDF.Style, MaxPathLength); err != nil {
		return err
	}

	switch c.Table.Backend {
	case "", "chrome", "matplotlib":
	default:
		return fmt.Errorf("%w: table.backend: %q (must be chrome or matplotlib)", ErrInvalidValue, c.Table.Backend)
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"table.maxRows", c.Table.MaxRows},
		{"table.maxCols", c.Table.MaxCols},
		{"table.width", c.Table.Width},
		{"table.height", c.Table.Height},
		{"notebook.limit", c.Notebook.Limit},
	} {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidValue, f.name, f.value)
		}
	}
	if err := validateFieldLength("table.chromePath", c.Table.ChromePath, MaxPathLength); err != nil {
		return err
	}

	if _, err := c.ExecuteTimeoutDuration(); err != nil {
		return err
	}
	if err := validateFieldLength("notebook.jupyter", c.Notebook.Jupyter, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; anything else is a
// name searched in standard locations. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s\n%s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return &cfg, nil
}

// SearchPaths returns the files tried, in order, for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches the current directory, then the user config
// directory, for {name}.yaml or {name}.yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
