package preprocess

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/alnah/go-dfimage/internal/notebook"
	"github.com/alnah/go-dfimage/internal/table"
	"go.uber.org/zap"
)

// TableRenderer turns DataFrame HTML into PNG bytes.
type TableRenderer interface {
	RenderTable(ctx context.Context, html string) ([]byte, error)
}

// DataFrameImages replaces DataFrame HTML outputs with PNG images. The
// text/plain representation is kept alongside the image.
type DataFrameImages struct {
	Renderer TableRenderer
	Logger   *zap.Logger
}

// Name implements Preprocessor.
func (DataFrameImages) Name() string { return "dataframe-images" }

// Preprocess implements Preprocessor.
func (d DataFrameImages) Preprocess(ctx context.Context, nb *notebook.Notebook, _ *Resources) error {
	logger := nopIfNil(d.Logger)
	for i, c := range nb.Cells {
		if c.CellType != notebook.CellCode {
			continue
		}
		for j, o := range c.Outputs {
			if !isRich(o) || !o.Data.Has(notebook.MimeHTML) {
				continue
			}
			html := o.Data.Text(notebook.MimeHTML)
			if !table.IsDataFrame(html) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			img, err := d.Renderer.RenderTable(ctx, html)
			if err != nil {
				return fmt.Errorf("cell %d output %d: %w", i, j, err)
			}
			data := notebook.MimeBundle{notebook.MimePNG: base64.StdEncoding.EncodeToString(img)}
			if o.Data.Has(notebook.MimePlain) {
				data[notebook.MimePlain] = o.Data[notebook.MimePlain]
			}
			o.Data = data
			logger.Debug("dataframe rendered", zap.Int("cell", i), zap.Int("output", j), zap.Int("bytes", len(img)))
		}
	}
	return nil
}

func isRich(o *notebook.Output) bool {
	return o.OutputType == notebook.OutputDisplayData || o.OutputType == notebook.OutputExecuteResult
}

// ChangeOutputType turns execute_result outputs into display_data outputs,
// dropping their execution counts.
type ChangeOutputType struct{}

// Name implements Preprocessor.
func (ChangeOutputType) Name() string { return "change-output-type" }

// Preprocess implements Preprocessor.
func (ChangeOutputType) Preprocess(_ context.Context, nb *notebook.Notebook, _ *Resources) error {
	for _, c := range nb.Cells {
		for _, o := range c.Outputs {
			if o.OutputType == notebook.OutputExecuteResult {
				o.OutputType = notebook.OutputDisplayData
				o.ExecutionCount = nil
			}
		}
	}
	return nil
}

var (
	_ Preprocessor = DataFrameImages{}
	_ Preprocessor = ChangeOutputType{}
)
