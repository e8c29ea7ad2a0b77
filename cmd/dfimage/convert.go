package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	dfimage "github.com/alnah/go-dfimage"
	"github.com/alnah/go-dfimage/internal/config"
	"github.com/alnah/go-dfimage/internal/fileutil"
	"github.com/alnah/go-dfimage/internal/hints"
)

// batchError reports failed conversions. Per-file errors and their hints are
// already printed; Unwrap exposes the first one for the exit code.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error { return e.first }

// runConvert orchestrates the conversion process.
// Precedence: flags > DFIMAGE_* environment > config file > defaults.
func runConvert(ctx context.Context, args []string, flags *convertFlags, env *Environment, logger *zap.Logger) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := resolveWorkers(flags, envCfg)
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)

	opts, err := buildOptions(flags, cfg)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.pdf.timeout, envCfg)
	if err != nil {
		return err
	}

	files, err := discoverNotebooks(args)
	if err != nil {
		return err
	}
	if opts.DocumentName != "" && len(files) > 1 {
		return fmt.Errorf("%w: got %d notebooks", ErrDocumentNameMulti, len(files))
	}

	converterOpts := []dfimage.Option{dfimage.WithLogger(logger)}
	if timeout > 0 {
		converterOpts = append(converterOpts, dfimage.WithTimeout(timeout))
	}
	assetPath := cfg.Assets.BasePath
	if flags.isSet("asset-path") {
		assetPath = flags.pdf.assetPath
	}
	if assetPath != "" {
		converterOpts = append(converterOpts, dfimage.WithAssetPath(assetPath))
	}

	poolSize := min(dfimage.ResolvePoolSize(workers), len(files))
	logger.Debug("starting conversion",
		zap.Int("notebooks", len(files)),
		zap.Int("workers", poolSize),
		zap.Strings("to", opts.To),
		zap.String("use", opts.Use),
		zap.String("tables", opts.TableConversion))

	pool := env.NewPool(poolSize, converterOpts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", zap.Error(err))
		}
	}()

	results := convertBatch(ctx, pool, files, opts, env.Now)

	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return &batchError{failed: failed, first: firstError(results)}
	}
	return nil
}

// loadConfig loads the config named by --config or DFIMAGE_CONFIG, or
// returns an empty config.
func loadConfig(flagValue string, envCfg *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
