package dfimage

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-dfimage/internal/fileutil"
	"github.com/alnah/go-dfimage/internal/preprocess"
	"github.com/alnah/go-dfimage/internal/table"
)

// screenshotPadding is added around the table bounds when the viewport has
// to grow to fit it.
const screenshotPadding = 16

// tableBoundsJS returns the bottom-right corner of the first table.
const tableBoundsJS = `() => {
	const r = document.querySelector('table').getBoundingClientRect();
	return {w: Math.ceil(r.right), h: Math.ceil(r.bottom)};
}`

// tablePage is the data of the dataframe template.
type tablePage struct {
	Style  template.CSS
	Align  string
	Margin string
	Table  template.HTML
}

// screenshotRenderer renders DataFrame HTML to PNG by screenshotting it in
// headless Chrome.
type screenshotRenderer struct {
	browser    *browser
	chromePath string
	tmpl       *template.Template
	style      string
	center     bool
	maxRows    int
	maxCols    int
	width      int
	height     int
	dir        string // where the page is written
}

// RenderTable implements preprocess.TableRenderer.
func (s *screenshotRenderer) RenderTable(ctx context.Context, htmlText string) ([]byte, error) {
	truncated, err := table.Truncate(htmlText, s.maxRows, s.maxCols)
	if err != nil {
		return nil, err
	}

	data := tablePage{
		Style:  template.CSS(s.style),    // #nosec G203 -- embedded or user-selected stylesheet
		Table:  template.HTML(truncated), // #nosec G203 -- notebook output rendered as is
		Align:  "left",
		Margin: "0",
	}
	if s.center {
		data.Align, data.Margin = "center", "auto"
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: rendering page: %v", ErrScreenshot, err)
	}

	path, cleanup, err := fileutil.WriteTempFile(s.dir, buf.String(), "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	viewport := &proto.EmulationSetDeviceMetricsOverride{
		Width:             s.width,
		Height:            s.height,
		DeviceScaleFactor: 1,
	}
	page, closePage, err := s.browser.open(ctx, s.chromePath, path, viewport)
	if err != nil {
		return nil, err
	}
	defer closePage()

	bounds, err := page.Eval(tableBoundsJS)
	if err != nil {
		return nil, fmt.Errorf("%w: measuring table: %v", ErrScreenshot, err)
	}
	w, h := bounds.Value.Get("w").Int(), bounds.Value.Get("h").Int()
	if w > viewport.Width || h > viewport.Height {
		viewport.Width = max(viewport.Width, w+screenshotPadding)
		viewport.Height = max(viewport.Height, h+screenshotPadding)
		if err := page.SetViewport(viewport); err != nil {
			return nil, fmt.Errorf("%w: enlarging viewport: %v", ErrScreenshot, err)
		}
	}

	el, err := page.Element("table")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	img, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return img, nil
}

var _ preprocess.TableRenderer = (*screenshotRenderer)(nil)
