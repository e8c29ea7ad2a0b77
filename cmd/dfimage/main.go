package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-dfimage/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches the command in args (os.Args style) and returns the
// exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	// "dfimage report.ipynb" is shorthand for "dfimage convert report.ipynb".
	if looksLikeNotebook(cmd) {
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "convert":
		return runConvertCmd(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "dfimage %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}
}

// runConvertCmd parses flags, sets up logging and GOMAXPROCS, and converts.
func runConvertCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	logger := logging.New(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	// maxprocs.Set only fails for an invalid GOMAXPROCS value, in which case
	// the runtime default stays.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Sugar().Debugf(format, args...)
	}))

	if err := runConvert(ctx, positional, flags, env, logger); err != nil {
		var batch *batchError
		if errors.As(err, &batch) {
			fmt.Fprintln(env.Stderr, err)
		} else {
			fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// looksLikeNotebook reports whether arg names a notebook or a directory
// rather than a command.
func looksLikeNotebook(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if strings.EqualFold(filepath.Ext(arg), notebookExt) {
		return true
	}
	return strings.ContainsAny(arg, `/\`)
}
