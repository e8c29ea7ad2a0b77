package dfimage

import (
	"fmt"
	"slices"
)

// Output formats.
const (
	FormatPDF      = "pdf"
	FormatMarkdown = "md"
)

// formatOrder is the order targets are exported in. Markdown goes first so
// its preprocessing pass also serves the PDF.
var formatOrder = []string{FormatMarkdown, FormatPDF}

// ParseTargets normalizes the requested output formats. Values must be
// exactly "pdf", "md" or "markdown"; case and surrounding space are not
// forgiven. "markdown" is an alias of "md" and duplicates collapse. The
// result is ordered md, pdf.
func ParseTargets(to []string) ([]string, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no output format given", ErrInvalidTarget)
	}

	seen := map[string]bool{}
	for _, t := range to {
		switch t {
		case FormatPDF, FormatMarkdown:
			seen[t] = true
		case "markdown":
			seen[FormatMarkdown] = true
		default:
			return nil, fmt.Errorf("%w: %q (must be pdf, md or markdown)", ErrInvalidTarget, t)
		}
	}

	targets := make([]string, 0, len(seen))
	for _, f := range formatOrder {
		if seen[f] {
			targets = append(targets, f)
		}
	}
	return targets, nil
}

func containsTarget(targets []string, format string) bool {
	return slices.Contains(targets, format)
}
