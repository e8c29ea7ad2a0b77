package dfimage

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-dfimage/internal/fileutil"
)

// pdfConverter abstracts HTML to PDF conversion to allow testing without a
// browser.
type pdfConverter interface {
	// ToPDF prints htmlContent. The page is written to dir first so file://
	// references next to it resolve.
	ToPDF(ctx context.Context, chromePath, htmlContent, dir string) ([]byte, error)
}

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// rodPDF prints HTML with headless Chrome.
type rodPDF struct {
	browser *browser
}

// ToPDF implements pdfConverter.
func (r *rodPDF) ToPDF(ctx context.Context, chromePath, htmlContent, dir string) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(dir, htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, closePage, err := r.browser.open(ctx, chromePath, path, nil)
	if err != nil {
		return nil, err
	}
	defer closePage()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

var _ pdfConverter = (*rodPDF)(nil)
