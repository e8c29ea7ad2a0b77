// Package dfimage converts Jupyter notebooks to PDF and Markdown, replacing
// pandas DataFrame outputs with PNG images of the tables.
//
// # Quick Start
//
//	res, err := dfimage.Convert(ctx, "analysis.ipynb", &dfimage.Options{
//	    To:              []string{"pdf", "md"},
//	    Use:             dfimage.EngineBrowser,
//	    TableConversion: dfimage.TableMatplotlib,
//	    CenterDF:        true,
//	    MaxRows:         30,
//	    MaxCols:         10,
//	    ScreenshotWidth: 1400, ScreenshotHeight: 900,
//	})
//
// Start from DefaultOptions to change single settings. res.Files lists the
// written paths: analysis.md with its analysis_files/ image directory and
// analysis.pdf, next to the notebook unless Options.OutputDir is set.
//
// # Conversion Pipeline
//
//  1. Options are validated and the output directory checked.
//  2. The notebook is loaded, keeping the first Options.Limit cells.
//  3. For each format (Markdown first), preprocessing collects markdown
//     images, optionally executes the notebook with Jupyter, renders
//     DataFrame HTML to PNG and turns execute results into display data.
//  4. The Markdown exporter renders cells by MIME priority. PDFs are built
//     from that Markdown with pandoc and a TeX engine (EngineLaTeX) or
//     printed by headless Chrome (EngineBrowser).
//
// # Table Backends
//
// TableChrome screenshots each table in headless Chrome (go-rod) using the
// embedded dataframe template. TableMatplotlib paints the table with the Go
// fonts and needs no browser.
//
// # Embedding
//
// Converter.Render returns the documents in memory without writing
// anything; Converter.Convert writes them too. Use ConverterPool for
// parallel conversions, one browser per converter.
//
// # External Tools
//
// EngineLaTeX needs pandoc and xelatex, pdflatex or texi2pdf. Execution
// needs jupyter nbconvert. Chrome is downloaded by rod on first use unless
// Options.ChromePath or ROD_BROWSER_BIN names a binary; set ROD_NO_SANDBOX=1
// in containers.
package dfimage
