package table

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrPaint wraps failures while painting a table image.
var ErrPaint = errors.New("failed to paint table")

const (
	fontSize    = 11.0
	fontDPI     = 144.0 // 2x for crisp text in PDFs
	cellPadX    = 10
	cellPadY    = 6
	borderWidth = 1
)

var (
	backgroundColor = color.White
	stripeColor     = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	ruleColor       = color.Black
	textColor       = color.Black
)

// Parsed once; the TTF data is embedded in x/image.
var (
	fontsOnce    sync.Once
	regularFont  *truetype.Font
	boldFont     *truetype.Font
	errFontParse error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, errFontParse = truetype.Parse(goregular.TTF)
		if errFontParse != nil {
			return
		}
		boldFont, errFontParse = truetype.Parse(gobold.TTF)
	})
	return errFontParse
}

// Painter renders DataFrame HTML into a PNG image with the Go fonts. It is
// the browser-free table backend.
type Painter struct {
	Center   bool // center column labels instead of left-aligning them
	MaxRows  int  // body rows kept, 0 = all
	MaxCols  int  // data columns kept, 0 = all
	MaxWidth int  // images wider than this are scaled down, 0 = no limit
}

// RenderTable truncates, lays out and paints the first table in htmlText.
func (p *Painter) RenderTable(ctx context.Context, htmlText string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("%w: loading fonts: %v", ErrPaint, err)
	}

	truncated, err := Truncate(htmlText, p.MaxRows, p.MaxCols)
	if err != nil {
		return nil, err
	}
	grid, err := Extract(truncated)
	if err != nil {
		return nil, err
	}

	img := p.paint(grid)
	if p.MaxWidth > 0 && img.Bounds().Dx() > p.MaxWidth {
		img = scaleToWidth(img, p.MaxWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrPaint, err)
	}
	return buf.Bytes(), nil
}

func newFace(f *truetype.Font) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    fontSize,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
}

// layout holds the pixel geometry of a grid.
type layout struct {
	colWidths  []int
	rowHeight  int
	ascent     int
	width      int
	height     int
	headerRows int
}

func (p *Painter) measure(g *Grid, regular, bold font.Face) layout {
	cols := g.Columns()
	l := layout{colWidths: make([]int, cols), headerRows: len(g.Header)}

	measureRow := func(row []Cell) {
		for i, c := range row {
			face := regular
			if c.Header {
				face = bold
			}
			w := font.MeasureString(face, c.Text).Ceil() + 2*cellPadX
			l.colWidths[i] = max(l.colWidths[i], w)
		}
	}
	for _, r := range g.Header {
		measureRow(r)
	}
	for _, r := range g.Body {
		measureRow(r)
	}

	m := regular.Metrics()
	l.ascent = m.Ascent.Ceil()
	l.rowHeight = m.Height.Ceil() + 2*cellPadY
	for _, w := range l.colWidths {
		l.width += w
	}
	l.width = max(l.width, 1)
	l.height = max((len(g.Header)+len(g.Body))*l.rowHeight+borderWidth, 1)
	return l
}

func (p *Painter) paint(g *Grid) *image.RGBA {
	regular, bold := newFace(regularFont), newFace(boldFont)
	defer regular.Close()
	defer bold.Close()

	l := p.measure(g, regular, bold)
	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(fontDPI)
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(textColor))
	ctx.SetHinting(font.HintingFull)

	y := 0
	for _, row := range g.Header {
		p.drawRow(ctx, row, l, y, regular, bold, true)
		y += l.rowHeight
	}
	if l.headerRows > 0 {
		rule := image.Rect(0, y-borderWidth, l.width, y)
		draw.Draw(img, rule, image.NewUniform(ruleColor), image.Point{}, draw.Src)
	}
	for i, row := range g.Body {
		if i%2 == 0 {
			band := image.Rect(0, y, l.width, y+l.rowHeight)
			draw.Draw(img, band, image.NewUniform(stripeColor), image.Point{}, draw.Src)
		}
		p.drawRow(ctx, row, l, y, regular, bold, false)
		y += l.rowHeight
	}
	return img
}

func (p *Painter) drawRow(ctx *freetype.Context, row []Cell, l layout, top int, regular, bold font.Face, header bool) {
	x := 0
	baseline := top + cellPadY + l.ascent
	for i, c := range row {
		width := l.colWidths[i]
		if c.Text != "" {
			face, f := regular, regularFont
			if c.Header {
				face, f = bold, boldFont
			}
			textWidth := font.MeasureString(face, c.Text).Ceil()

			var tx int
			switch {
			case header && p.Center:
				tx = x + (width-textWidth)/2
			case header:
				tx = x + cellPadX
			default:
				tx = x + width - cellPadX - textWidth
			}

			ctx.SetFont(f)
			// Errors only arise from a missing font, which loadFonts rules out.
			_, _ = ctx.DrawString(c.Text, freetype.Pt(tx, baseline))
		}
		x += width
	}
}

// scaleToWidth resamples img to the given width, keeping its aspect ratio.
func scaleToWidth(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	height := max(b.Dy()*width/b.Dx(), 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
