package extract

import (
	"errors"
	"testing"
)

const holderColumn = "Name(Birth-Death)Constituency"

func TestTableLoader_BasicExtraction(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	html := `
	<html>
	<body>
		<table class="wikitable">
			<tr><th>No.</th><th>Portrait</th><th>Name(Birth-Death)Constituency</th></tr>
			<tr><td>1</td><td></td><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
			<tr><td>2</td><td></td><td>Spencer Compton(1673–1743)Sussex</td></tr>
		</table>
	</body>
	</html>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Text != "Sir Robert Walpole(1676–1745)King's Lynn" {
		t.Errorf("Unexpected first row text: %q", rows[0].Text)
	}
	if rows[1].Text != "Spencer Compton(1673–1743)Sussex" {
		t.Errorf("Unexpected second row text: %q", rows[1].Text)
	}
	if rows[0].Row >= rows[1].Row {
		t.Errorf("Expected ascending source row indices, got %d then %d", rows[0].Row, rows[1].Row)
	}
}

func TestTableLoader_ConcatenatesNestedMarkup(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	// The source runs name, years and constituency together across child
	// elements with no whitespace between them.
	html := `
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td><a href="/wiki/Robert_Walpole">Sir Robert Walpole</a><span>(1676–1745)</span><i>King's Lynn</i></td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Text != "Sir Robert Walpole(1676–1745)King's Lynn" {
		t.Errorf("Expected concatenated cell text, got %q", rows[0].Text)
	}
}

func TestTableLoader_NoTable(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	_, err := loader.Load(`<html><body><p>No tables here.</p></body></html>`)
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Expected ErrTableNotFound, got %v", err)
	}
}

func TestTableLoader_WrongTableClass(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	html := `
	<table class="infobox">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
	</table>
	`

	_, err := loader.Load(html)
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("Expected ErrTableNotFound for non-matching class, got %v", err)
	}
}

func TestTableLoader_ColumnNotFound(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	html := `
	<table class="wikitable">
		<tr><th>No.</th><th>Term</th></tr>
		<tr><td>1</td><td>1721–1742</td></tr>
	</table>
	`

	_, err := loader.Load(html)
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestTableLoader_SkipsLeadingRows(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 1)

	// The observed source's first data row is a markup artifact, not an
	// office-holder.
	html := `
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Office established</td></tr>
		<tr><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row after dropping the leading artifact, got %d", len(rows))
	}
	if rows[0].Text != "Sir Robert Walpole(1676–1745)King's Lynn" {
		t.Errorf("Unexpected surviving row: %q", rows[0].Text)
	}
}

func TestTableLoader_DropsRepeatedHeaders(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	// Long listings re-insert the header mid-table, both as <th> rows and
	// as plain rows repeating the literal.
	html := `
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Name(Birth-Death)Constituency</td></tr>
		<tr><td>Spencer Compton(1673–1743)Sussex</td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 data rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Text == holderColumn {
			t.Errorf("Header literal leaked into data rows: %q", row.Text)
		}
	}
}

func TestTableLoader_DedupesExactRows(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	// A person serving multiple terms appears in several rows with
	// identical cell text.
	html := `
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Stanley Baldwin(1867–1947)Bewdley</td></tr>
		<tr><td>Ramsay MacDonald(1866–1937)Aberavon</td></tr>
		<tr><td>Stanley Baldwin(1867–1947)Bewdley</td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 unique rows, got %d", len(rows))
	}
	if rows[0].Text != "Stanley Baldwin(1867–1947)Bewdley" {
		t.Errorf("Expected first occurrence kept first, got %q", rows[0].Text)
	}
}

func TestTableLoader_SkipsShortRows(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	// Spanning rows (vacancy markers and the like) do not reach the
	// designated column.
	html := `
	<table class="wikitable">
		<tr><th>No.</th><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td colspan="2">Office vacant</td></tr>
		<tr><td>1</td><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
}

func TestTableLoader_PicksFirstMatchingTable(t *testing.T) {
	loader := NewTableLoader("wikitable", holderColumn, 0)

	html := `
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
	</table>
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Someone Else(1700–1750)Nowhere</td></tr>
	</table>
	`

	rows, err := loader.Load(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(rows) != 1 || rows[0].Text != "Sir Robert Walpole(1676–1745)King's Lynn" {
		t.Errorf("Expected rows from the first matching table only, got %v", rows)
	}
}

func TestSquash_CollapsesUnicodeWhitespace(t *testing.T) {
	in := "  Sir Robert   Walpole \n(1676–1745)\tKing's Lynn  "
	want := "Sir Robert Walpole (1676–1745) King's Lynn"

	if got := squash(in); got != want {
		t.Errorf("squash(%q) = %q, want %q", in, got, want)
	}
}

func TestDropLeadingRows_Bounds(t *testing.T) {
	rows, err := NewTableLoader("wikitable", holderColumn, 5).Load(`
	<table class="wikitable">
		<tr><th>Name(Birth-Death)Constituency</th></tr>
		<tr><td>Sir Robert Walpole(1676–1745)King's Lynn</td></tr>
	</table>
	`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected all rows dropped when skip exceeds row count, got %d", len(rows))
	}
}
