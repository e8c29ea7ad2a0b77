package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dfimage <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert notebooks to PDF or Markdown with DataFrame images")
	fmt.Fprintln(w, "  doctor     Check Chrome, TeX, pandoc and Jupyter")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'dfimage help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dfimage convert <notebook.ipynb|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Jupyter notebooks, replacing DataFrame HTML with PNG images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --to <list>             Formats: pdf, md (default pdf)")
	fmt.Fprintln(w, "  -o, --output-dir <dir>      Existing output directory (default: notebook dir)")
	fmt.Fprintln(w, "      --document-name <s>     Base name of the output files")
	fmt.Fprintln(w, "      --save-notebook         Also write {name}_dataframe_image.ipynb")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --use <s>               Engine: latex, browser (default latex)")
	fmt.Fprintln(w, "      --latex-command <arg>   TeX command argument, repeatable")
	fmt.Fprintln(w, "                              e.g. --latex-command xelatex --latex-command {filename}")
	fmt.Fprintln(w, "      --style <s>             Browser engine CSS name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom styles and templates")
	fmt.Fprintln(w, "  -t, --timeout <d>           Browser page timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tables:")
	fmt.Fprintln(w, "      --table-conversion <s>  Backend: chrome, matplotlib (default chrome)")
	fmt.Fprintln(w, "      --center-df             Center tables (default true)")
	fmt.Fprintln(w, "      --max-rows <n>          Rows kept in images (default 30)")
	fmt.Fprintln(w, "      --max-cols <n>          Columns kept in images (default 10)")
	fmt.Fprintln(w, "      --ss-width <n>          Chrome viewport width (default 1400)")
	fmt.Fprintln(w, "      --ss-height <n>         Chrome viewport height (default 900)")
	fmt.Fprintln(w, "      --chrome-path <path>    Chrome binary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notebook:")
	fmt.Fprintln(w, "      --limit <n>             Convert only the first n cells")
	fmt.Fprintln(w, "      --execute               Run the notebook first (jupyter nbconvert)")
	fmt.Fprintln(w, "      --execute-timeout <d>   Per-cell timeout (default 10m)")
	fmt.Fprintln(w, "      --jupyter <path>        jupyter executable")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: DFIMAGE_CONFIG, DFIMAGE_TO, DFIMAGE_USE, DFIMAGE_OUTPUT_DIR,")
	fmt.Fprintln(w, "DFIMAGE_TABLE_CONVERSION, DFIMAGE_CHROME_PATH, DFIMAGE_JUPYTER, DFIMAGE_STYLE,")
	fmt.Fprintln(w, "DFIMAGE_ASSET_PATH, DFIMAGE_TIMEOUT, DFIMAGE_EXECUTE_TIMEOUT, DFIMAGE_WORKERS.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dfimage doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the tools conversions depend on.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: dfimage version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: dfimage help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
