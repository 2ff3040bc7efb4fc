// Package table defines the canonical in-memory grid that every file format
// converts to and from: an ordered list of rows, each an ordered list of cell
// texts. Rows may be ragged; any position inside the bounding box that a row
// does not reach reads as the empty string.
package table

import (
	"encoding/json"

	"gosheet/domain/core"
)

// Row is one ordered sequence of cell values
type Row []string

// Table is the canonical grid. It is treated as a value: helpers return new
// tables and never modify their input.
type Table []Row

// New builds a table from plain string slices
func New(rows ...[]string) Table {
	t := make(Table, len(rows))
	for i, r := range rows {
		t[i] = append(Row{}, r...)
	}
	return t
}

// Rows reports the number of rows
func (t Table) Rows() int {
	return len(t)
}

// Width returns the length of the longest row
func (t Table) Width() int {
	width := 0
	for _, r := range t {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}

// Cell returns the cell at (r, c), or "" when the position is outside the row
func (t Table) Cell(r, c int) string {
	if r < 0 || r >= len(t) || c < 0 || c >= len(t[r]) {
		return ""
	}
	return t[r][c]
}

// Column returns the cells at index c for every row, "" where a row is too short
func (t Table) Column(c int) []string {
	out := make([]string, len(t))
	for i := range t {
		out[i] = t.Cell(i, c)
	}
	return out
}

// Clone returns a deep copy
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = append(Row{}, r...)
	}
	return out
}

// Equal compares two tables cell by cell. Nil and empty rows compare equal.
func Equal(a, b Table) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Trim drops trailing rows and columns that hold only empty cells. Every
// remaining row is cut or padded to the width of the last used column.
func Trim(t Table) Table {
	maxRow, maxCol := -1, -1
	for r, row := range t {
		for c, cell := range row {
			if cell != "" {
				if r > maxRow {
					maxRow = r
				}
				if c > maxCol {
					maxCol = c
				}
			}
		}
	}

	out := make(Table, maxRow+1)
	for r := range out {
		row := make(Row, maxCol+1)
		for c := range row {
			row[c] = t.Cell(r, c)
		}
		out[r] = row
	}
	return out
}

// Pad returns a rectangular copy with at least minRows rows and minCols columns
func Pad(t Table, minRows, minCols int) Table {
	rows := max(len(t), minRows)
	cols := max(t.Width(), minCols)

	out := make(Table, rows)
	for r := range out {
		row := make(Row, cols)
		for c := range row {
			row[c] = t.Cell(r, c)
		}
		out[r] = row
	}
	return out
}

// Rectangular pads every row with "" up to the table width
func Rectangular(t Table) Table {
	return Pad(t, 0, 0)
}

// Fingerprint hashes the table contents; equal tables share a fingerprint
func Fingerprint(t Table) core.Hash {
	if t == nil {
		t = Table{}
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return core.NewHash(raw)
}
