// Package table recognizes pandas DataFrame HTML, trims it to a displayable
// size and paints it as a PNG without a browser.
package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoTable is returned when the HTML holds no table.
var ErrNoTable = errors.New("no table found in HTML")

// dataFrameSelector matches DataFrame.to_html output and pandas Styler tables.
const dataFrameSelector = "table.dataframe, table[id^='T_']"

// ellipsis fills the row and column inserted where content was cut.
const ellipsis = "..."

// IsDataFrame reports whether htmlText contains a pandas DataFrame table.
func IsDataFrame(htmlText string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return false
	}
	return doc.Find(dataFrameSelector).Length() > 0
}

// Truncate keeps at most maxRows body rows and maxCols data columns of the
// first table in htmlText. The first half and last half are kept with an
// ellipsis row or column between them. Non-positive limits disable the cut.
// Styler <style> blocks are returned in front of the table.
func Truncate(htmlText string, maxRows, maxCols int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return "", fmt.Errorf("parsing table HTML: %w", err)
	}

	tbl := findTable(doc)
	if tbl.Length() == 0 {
		return "", ErrNoTable
	}

	if maxRows > 0 {
		truncateRows(tbl, maxRows)
	}
	if maxCols > 0 {
		truncateCols(tbl, maxCols)
	}

	var sb strings.Builder
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if out, err := goquery.OuterHtml(s); err == nil {
			sb.WriteString(out)
			sb.WriteByte('\n')
		}
	})
	out, err := goquery.OuterHtml(tbl)
	if err != nil {
		return "", fmt.Errorf("rendering table HTML: %w", err)
	}
	sb.WriteString(out)
	return sb.String(), nil
}

// findTable returns the first DataFrame table, or the first table of any kind.
func findTable(doc *goquery.Document) *goquery.Selection {
	if tbl := doc.Find(dataFrameSelector).First(); tbl.Length() > 0 {
		return tbl
	}
	return doc.Find("table").First()
}

// bodyRows returns the data rows: tbody rows, or every row when the table
// has no thead.
func bodyRows(tbl *goquery.Selection) *goquery.Selection {
	if rows := tbl.Find("tbody > tr"); rows.Length() > 0 {
		return rows
	}
	return tbl.Find("tr")
}

func truncateRows(tbl *goquery.Selection, maxRows int) {
	rows := bodyRows(tbl)
	n := rows.Length()
	if n <= maxRows {
		return
	}
	head, tail := splitKeep(maxRows)
	cut := rows.Slice(head, n-tail)

	// The ellipsis row mirrors the cell kinds of the last kept row.
	row := newElement("tr", atom.Tr)
	rows.Eq(head-1).Children().Each(func(_ int, c *goquery.Selection) {
		row.AppendChild(ellipsisCell(goquery.NodeName(c)))
	})
	cut.First().BeforeNodes(row)
	cut.Remove()
}

func truncateCols(tbl *goquery.Selection, maxCols int) {
	index := indexWidth(tbl)
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Children().Filter("th, td")
		n := cells.Length()
		if n-index <= maxCols {
			return
		}
		head, tail := splitKeep(maxCols)
		cut := cells.Slice(index+head, n-tail)
		cut.First().BeforeNodes(ellipsisCell(goquery.NodeName(cut.First())))
		cut.Remove()
	})
}

// indexWidth counts the leading <th> cells of the first body row, i.e. the
// number of index levels.
func indexWidth(tbl *goquery.Selection) int {
	count := 0
	bodyRows(tbl).First().Children().EachWithBreak(func(_ int, c *goquery.Selection) bool {
		if goquery.NodeName(c) != "th" {
			return false
		}
		count++
		return true
	})
	return count
}

// splitKeep returns how many leading and trailing items to keep out of n.
func splitKeep(n int) (head, tail int) {
	return (n + 1) / 2, n / 2
}

func ellipsisCell(tag string) *html.Node {
	a := atom.Td
	if tag == "th" {
		a = atom.Th
	} else {
		tag = "td"
	}
	cell := newElement(tag, a)
	cell.AppendChild(&html.Node{Type: html.TextNode, Data: ellipsis})
	return cell
}

func newElement(tag string, a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
}
