// Package lookup extracts item labels, row names and item values from a table
// laid out with items as columns and names as rows.
//
// itemRow is the 1-based index of the header row holding the item labels.
// Names and values only come from the rows strictly after it.
package lookup

import (
	"gosheet/domain/table"
	"gosheet/internal/column"
	"gosheet/internal/errors"
)

// Items returns the header row at itemRow, or an empty slice when it is absent
func Items(t table.Table, itemRow int) []string {
	idx := itemRow - 1
	if idx < 0 || idx >= len(t) {
		return []string{}
	}
	return append([]string{}, t[idx]...)
}

// Names returns the name column for every row after itemRow. Rows too short to
// reach the column contribute "" so positions stay aligned with Values.
func Names(t table.Table, itemRow int, nameCol string) ([]string, error) {
	c, err := column.Index(nameCol)
	if err != nil {
		return nil, err
	}
	return dropHeader(t.Column(c), itemRow), nil
}

// Values returns, for every row after itemRow, the cell in the column where
// item appears in the header row. The name column is validated but values are
// always read from the item's own column.
func Values(t table.Table, itemRow int, nameCol, item string) ([]string, error) {
	if _, err := column.Index(nameCol); err != nil {
		return nil, err
	}

	c := indexOf(Items(t, itemRow), item)
	if c < 0 {
		return nil, errors.ItemNotFound(item)
	}
	return dropHeader(t.Column(c), itemRow), nil
}

func indexOf(items []string, item string) int {
	if item == "" {
		return -1
	}
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return -1
}

func dropHeader(cells []string, itemRow int) []string {
	skip := max(itemRow, 0)
	if skip >= len(cells) {
		return []string{}
	}
	return cells[skip:]
}
