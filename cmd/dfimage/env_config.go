package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-dfimage/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // DFIMAGE_CONFIG
	Timeout    time.Duration // DFIMAGE_TIMEOUT
	Workers    int           // DFIMAGE_WORKERS

	Formats         []string // DFIMAGE_TO, comma-separated
	OutputDir       string   // DFIMAGE_OUTPUT_DIR
	Engine          string   // DFIMAGE_USE
	Style           string   // DFIMAGE_STYLE
	AssetPath       string   // DFIMAGE_ASSET_PATH
	TableConversion string   // DFIMAGE_TABLE_CONVERSION
	ChromePath      string   // DFIMAGE_CHROME_PATH
	Jupyter         string   // DFIMAGE_JUPYTER
	ExecuteTimeout  string   // DFIMAGE_EXECUTE_TIMEOUT
}

// knownEnvVars lists valid DFIMAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DFIMAGE_CONFIG":           true,
	"DFIMAGE_TIMEOUT":          true,
	"DFIMAGE_WORKERS":          true,
	"DFIMAGE_TO":               true,
	"DFIMAGE_OUTPUT_DIR":       true,
	"DFIMAGE_USE":              true,
	"DFIMAGE_STYLE":            true,
	"DFIMAGE_ASSET_PATH":       true,
	"DFIMAGE_TABLE_CONVERSION": true,
	"DFIMAGE_CHROME_PATH":      true,
	"DFIMAGE_JUPYTER":          true,
	"DFIMAGE_EXECUTE_TIMEOUT":  true,
	"DFIMAGE_CONTAINER":        true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable timeout and worker values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("DFIMAGE_CONFIG"),
		OutputDir:       os.Getenv("DFIMAGE_OUTPUT_DIR"),
		Engine:          os.Getenv("DFIMAGE_USE"),
		Style:           os.Getenv("DFIMAGE_STYLE"),
		AssetPath:       os.Getenv("DFIMAGE_ASSET_PATH"),
		TableConversion: os.Getenv("DFIMAGE_TABLE_CONVERSION"),
		ChromePath:      os.Getenv("DFIMAGE_CHROME_PATH"),
		Jupyter:         os.Getenv("DFIMAGE_JUPYTER"),
		ExecuteTimeout:  os.Getenv("DFIMAGE_EXECUTE_TIMEOUT"),
	}

	if to := os.Getenv("DFIMAGE_TO"); to != "" {
		for _, f := range strings.Split(to, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Formats = append(cfg.Formats, f)
			}
		}
	}

	if timeout := os.Getenv("DFIMAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("DFIMAGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized DFIMAGE_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DFIMAGE_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on the config file values.
// CLI flags are applied afterwards by buildOptions.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if len(env.Formats) > 0 {
		cfg.Output.Formats = env.Formats
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Engine != "" {
		cfg.PDF.Engine = env.Engine
	}
	if env.Style != "" {
		cfg.PDF.Style = env.Style
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.TableConversion != "" {
		cfg.Table.Backend = env.TableConversion
	}
	if env.ChromePath != "" {
		cfg.Table.ChromePath = env.ChromePath
	}
	if env.Jupyter != "" {
		cfg.Notebook.Jupyter = env.Jupyter
	}
	if env.ExecuteTimeout != "" {
		cfg.Notebook.ExecuteTimeout = env.ExecuteTimeout
	}
}
