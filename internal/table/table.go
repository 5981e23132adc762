// Package table reads header-addressed CSV tables and converts cell text the
// way the MFRED tooling always has: permissive numeric coercion where bad
// cells become NaN instead of errors.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrNoHeader is returned when the input has no header row
var ErrNoHeader = errors.New("table: missing header row")

// Table is a fully loaded CSV table with a header row.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Read loads every row of r. Rows may be shorter or longer than the header;
// a header column past the end of a row reads as an empty cell.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{
		header: records[0],
		index:  make(map[string]int, len(records[0])),
		rows:   records[1:],
	}
	for i, name := range t.header {
		// first occurrence wins for duplicated column names
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
	return t, nil
}

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// Header returns the column names in file order.
func (t *Table) Header() []string { return t.header }

// Column returns the position of name, or -1 when the table has no such column.
func (t *Table) Column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Row returns a view of the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{cells: t.rows[i]}
}

// Row is one data row addressed by column position.
type Row struct {
	cells []string
}

// Text returns the raw text of column col and whether the column exists.
// Columns the row is too short to reach are empty.
func (r Row) Text(col int) (string, bool) {
	if col < 0 {
		return "", false
	}
	if col >= len(r.cells) {
		return "", true
	}
	return r.cells[col], true
}

// Number coerces column col with Number semantics; a missing column is NaN.
func (r Row) Number(col int) float64 {
	text, ok := r.Text(col)
	if !ok {
		return nan
	}
	return Number(text)
}
