package table

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxColSpan caps colspan the way browsers do.
const maxColSpan = 1000

// Cell is one table cell as plain text.
type Cell struct {
	Text   string
	Header bool // <th>: column labels and index labels
}

// Grid is a table flattened to rows of text cells. All rows have the same
// number of cells.
type Grid struct {
	Header [][]Cell
	Body   [][]Cell
}

// Columns returns the number of cells per row.
func (g *Grid) Columns() int {
	if len(g.Header) > 0 {
		return len(g.Header[0])
	}
	if len(g.Body) > 0 {
		return len(g.Body[0])
	}
	return 0
}

// Extract parses the first table of htmlText into a Grid. Cells spanning
// several columns are repeated once per extra column as empty cells.
func Extract(htmlText string) (*Grid, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil, fmt.Errorf("parsing table HTML: %w", err)
	}
	tbl := findTable(doc)
	if tbl.Length() == 0 {
		return nil, ErrNoTable
	}

	g := &Grid{}
	tbl.Find("thead > tr").Each(func(_ int, tr *goquery.Selection) {
		g.Header = append(g.Header, rowCells(tr))
	})
	bodyRows(tbl).Each(func(_ int, tr *goquery.Selection) {
		if tr.ParentsFiltered("thead").Length() > 0 {
			return
		}
		g.Body = append(g.Body, rowCells(tr))
	})
	g.pad()
	return g, nil
}

func rowCells(tr *goquery.Selection) []Cell {
	var row []Cell
	tr.Children().Filter("th, td").Each(func(_ int, c *goquery.Selection) {
		row = append(row, Cell{
			Text:   strings.Join(strings.Fields(c.Text()), " "),
			Header: goquery.NodeName(c) == "th",
		})
		span := 1
		if v, ok := c.Attr("colspan"); ok {
			_, _ = fmt.Sscanf(v, "%d", &span)
		}
		span = min(span, maxColSpan)
		for i := 1; i < span; i++ {
			row = append(row, Cell{Header: goquery.NodeName(c) == "th"})
		}
	})
	return row
}

// pad extends short rows with empty cells.
func (g *Grid) pad() {
	width := 0
	for _, rows := range [][][]Cell{g.Header, g.Body} {
		for _, r := range rows {
			width = max(width, len(r))
		}
	}
	for _, rows := range [][][]Cell{g.Header, g.Body} {
		for i, r := range rows {
			for len(r) < width {
				r = append(r, Cell{})
			}
			rows[i] = r
		}
	}
}
