//go:build integration

package dfimage

// Notes:
// - Runs against a real headless Chrome (downloaded by rod when no binary is
//   configured). Set ROD_NO_SANDBOX=1 in containers.
// - testPool is shared by all integration tests and closed in TestMain.
// - LaTeX paths are skipped when pandoc or a TeX engine is not installed.

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

const testTimeout = 90 * time.Second

var testPool *ConverterPool

func TestMain(m *testing.M) {
	testPool = NewConverterPool(min(ResolvePoolSize(0), 4))

	code := m.Run()

	_ = testPool.Close()
	os.Exit(code)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func acquireConverter(t *testing.T) *Converter {
	t.Helper()
	c, err := testPool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	t.Cleanup(func() { testPool.Release(c) })
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

func assertPNG(t *testing.T, name string, data []byte) {
	t.Helper()
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("%s is not a PNG: %v", name, err)
	}
}

// ---------------------------------------------------------------------------
// Table Backends
// ---------------------------------------------------------------------------

func TestIntegration_ChromeScreenshot(t *testing.T) {
	t.Parallel()

	c := acquireConverter(t)
	opts := DefaultOptions()
	opts.To = []string{FormatMarkdown}
	opts.TableConversion = TableChrome

	res, err := c.Render(testContext(t), writeFixture(t), opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	data, ok := res.MarkdownImages["output_1_0.png"]
	if !ok {
		t.Fatalf("table image missing, got %v", res.ImageNames())
	}
	assertPNG(t, "output_1_0.png", data)
}

func TestIntegration_BrowserPDF(t *testing.T) {
	t.Parallel()

	c := acquireConverter(t)
	path := writeFixture(t)
	opts := DefaultOptions()
	opts.To = []string{FormatPDF, FormatMarkdown}
	opts.Use = EngineBrowser
	opts.TableConversion = TableMatplotlib

	res, err := c.Convert(testContext(t), path, opts)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Errorf("PDF missing header, got %q", res.PDF[:min(len(res.PDF), 16)])
	}
	if !fileExists(filepath.Join(filepath.Dir(path), "sales.pdf")) {
		t.Error("sales.pdf not written")
	}
}

func TestIntegration_Cancelled(t *testing.T) {
	t.Parallel()

	c := acquireConverter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.To = []string{FormatPDF}
	opts.Use = EngineBrowser
	if _, err := c.Render(ctx, writeFixture(t), opts); err == nil {
		t.Error("Render() with cancelled context should fail")
	}
}

// ---------------------------------------------------------------------------
// LaTeX
// ---------------------------------------------------------------------------

func TestIntegration_LaTeXPDF(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("pandoc"); err != nil {
		t.Skip("pandoc not installed")
	}
	if _, err := exec.LookPath("xelatex"); err != nil {
		t.Skip("xelatex not installed")
	}

	c := acquireConverter(t)
	opts := DefaultOptions()
	opts.To = []string{FormatPDF}
	opts.TableConversion = TableMatplotlib

	res, err := c.Render(testContext(t), writeFixture(t), opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Error("PDF missing header")
	}
}
