package extract

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoTable indicates the document contains no table with more than one row.
// Single-row tables are treated as layout or navigation furniture and skipped.
var ErrNoTable = errors.New("no table found")

// Grid is the strict row/column representation of an extracted report table:
// a header row plus ordered data rows of verbatim, whitespace-trimmed cell
// strings. Rows may be ragged; consumers pad using MaxColumns.
type Grid struct {
	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows, excluding the header.
func (g Grid) RowCount() int { return len(g.Rows) }

// Ragged reports whether any data row differs in width from the header.
func (g Grid) Ragged() bool {
	for _, row := range g.Rows {
		if len(row) != len(g.Header) {
			return true
		}
	}
	return false
}

// MaxColumns returns the widest column count observed across the header and
// all data rows.
func (g Grid) MaxColumns() int {
	max := len(g.Header)
	for _, row := range g.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// FromHTML parses decoded HTML text and returns the first table, in document
// order, whose own grid has more than one row. The first row becomes the
// header; remaining rows with at least one cell become data rows. Cell text
// is kept verbatim apart from trimming and collapsing whitespace runs; no
// numeric coercion happens here or downstream.
func FromHTML(text string) (Grid, error) {
	node, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return Grid{}, fmt.Errorf("parse html: %w", err)
	}

	for _, table := range tables(node) {
		rows := gridRows(table)
		if len(rows) < 2 {
			continue
		}
		header := rows[0]
		data := make([][]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if len(row) > 0 {
				data = append(data, row)
			}
		}
		if len(data) == 0 {
			continue
		}
		if len(header) == 0 {
			header = synthesizeHeader(len(data[0]))
		}
		return Grid{Header: header, Rows: data}, nil
	}
	return Grid{}, ErrNoTable
}

// tables collects every <table> element in document order. Nested tables are
// included as candidates in their own right, after the table that contains
// them.
func tables(n *html.Node) []*html.Node {
	var out []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, "table") {
			out = append(out, cur)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return out
}

// gridRows returns the rows belonging to the table's own grid. Rows of nested
// tables are not counted toward the ancestor; they surface through the nested
// table's candidacy instead.
func gridRows(table *html.Node) [][]string {
	var rows [][]string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch strings.ToLower(c.Data) {
			case "table":
				continue
			case "tr":
				rows = append(rows, rowCells(c))
			default:
				// thead/tbody/tfoot and stray wrappers
				dfs(c)
			}
		}
	}
	dfs(table)
	return rows
}

// rowCells returns the trimmed text of each <td>/<th> belonging to the row.
// A cell spanning columns or rows still contributes exactly one entry, which
// is how grids end up ragged.
func rowCells(tr *html.Node) []string {
	var cells []string
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch strings.ToLower(c.Data) {
			case "table":
				continue
			case "td", "th":
				cells = append(cells, cellText(c))
			default:
				dfs(c)
			}
		}
	}
	dfs(tr)
	return cells
}

// cellText concatenates the text content beneath a cell, skipping script and
// style payloads, then trims and collapses whitespace runs to single spaces.
func cellText(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode {
			switch strings.ToLower(cur.Data) {
			case "script", "style":
				return
			case "br":
				b.WriteString(" ")
			}
		}
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return collapseSpaces(strings.TrimSpace(b.String()))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

// synthesizeHeader names columns Column_1..Column_n when a qualifying table
// has no header cells of its own.
func synthesizeHeader(n int) []string {
	header := make([]string, n)
	for i := range header {
		header[i] = fmt.Sprintf("Column_%d", i+1)
	}
	return header
}
