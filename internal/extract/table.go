package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/lifelines/internal/model"
	"golang.org/x/net/html"
)

// Structural failures are fatal: without the right table and column there is
// no dataset to build.
var (
	ErrTableNotFound  = errors.New("no matching table found")
	ErrColumnNotFound = errors.New("designated column not found")
)

// TableLoader locates the office-holder table in a page and yields the raw
// text of one designated column, one entry per data row.
type TableLoader struct {
	tableClass      string
	columnHeader    string
	skipLeadingRows int
}

// NewTableLoader creates a table loader. tableClass marks the table to read,
// columnHeader is the exact squashed text of the header cell naming the
// biographical column, and skipLeadingRows data rows are discarded before
// parsing (the usual source carries a non-holder first row).
func NewTableLoader(tableClass, columnHeader string, skipLeadingRows int) *TableLoader {
	return &TableLoader{
		tableClass:      tableClass,
		columnHeader:    columnHeader,
		skipLeadingRows: skipLeadingRows,
	}
}

// Load parses the page and returns the raw column text of every data row,
// after header filtering, leading-row trimming and duplicate removal.
func (l *TableLoader) Load(htmlContent string) ([]model.RawRow, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "table" && hasClass(n, l.tableClass)
	})
	if table == nil {
		return nil, fmt.Errorf("%w: no <table> with class %q", ErrTableNotFound, l.tableClass)
	}

	trs := findAll(table, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "tr"
	})

	// The header row is the first row containing a cell whose squashed text
	// equals the configured literal; its cell position is the column index.
	headerRow, colIdx := -1, -1
	for i, tr := range trs {
		for j, cell := range rowCells(tr) {
			if squash(cellText(cell)) == l.columnHeader {
				headerRow, colIdx = i, j
				break
			}
		}
		if colIdx >= 0 {
			break
		}
	}
	if colIdx < 0 {
		return nil, fmt.Errorf("%w: no header cell matches %q", ErrColumnNotFound, l.columnHeader)
	}

	var rows []model.RawRow
	for i := headerRow + 1; i < len(trs); i++ {
		cells := rowCells(trs[i])
		// Repeated header rows and rows too short to reach the designated
		// column (spanning artifacts like vacancy markers) are not data.
		if isHeaderRow(cells) || len(cells) <= colIdx {
			continue
		}
		rows = append(rows, model.RawRow{
			Text: squash(cellText(cells[colIdx])),
			Row:  i,
		})
	}

	rows = filterHeaderRows(rows, l.columnHeader)
	rows = dropLeadingRows(rows, l.skipLeadingRows)
	return dedupeRows(rows), nil
}

// filterHeaderRows drops rows whose cell text repeats the column header
// literal; the source re-inserts its header mid-table for long listings.
func filterHeaderRows(rows []model.RawRow, headerLiteral string) []model.RawRow {
	var kept []model.RawRow
	for _, row := range rows {
		if row.Text == headerLiteral {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// dropLeadingRows discards the first n data rows.
func dropLeadingRows(rows []model.RawRow, n int) []model.RawRow {
	if n <= 0 {
		return rows
	}
	if n >= len(rows) {
		return nil
	}
	return rows[n:]
}

// dedupeRows removes exact duplicate raw strings, keeping first-seen order.
func dedupeRows(rows []model.RawRow) []model.RawRow {
	seen := make(map[string]bool)
	var unique []model.RawRow
	for _, row := range rows {
		if seen[row.Text] {
			continue
		}
		seen[row.Text] = true
		unique = append(unique, row)
	}
	return unique
}

// rowCells returns the td/th children of a table row.
func rowCells(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

// isHeaderRow reports whether every cell in the row is a <th>.
func isHeaderRow(cells []*html.Node) bool {
	if len(cells) == 0 {
		return true
	}
	for _, c := range cells {
		if c.Data != "th" {
			return false
		}
	}
	return true
}

// cellText concatenates the text nodes under a cell without inserting
// separators, matching how the source runs name, years and constituency
// together across child elements.
func cellText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(cellText(c))
	}
	return buf.String()
}

// squash collapses all Unicode whitespace runs (including NBSP) to single
// spaces and trims.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hasClass checks if a node's class list contains a specific CSS class
func hasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, class := range strings.Fields(attr.Val) {
				if class == className {
					return true
				}
			}
		}
	}
	return false
}

// findAll finds all nodes matching a predicate
func findAll(n *html.Node, predicate func(*html.Node) bool) []*html.Node {
	var results []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if predicate(node) {
			results = append(results, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return results
}

// findFirst finds the first node matching a predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
