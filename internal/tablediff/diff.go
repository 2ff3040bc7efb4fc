// Package tablediff compares two tables row by row.
package tablediff

import (
	"encoding/json"
	"strings"

	"gosheet/domain/table"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Line types
const (
	LineContext = "context"
	LineAdded   = "added"
	LineRemoved = "removed"
)

// Line is one row of the comparison. OldRow and NewRow are 1-based and zero
// when the row is absent from that side.
type Line struct {
	Type   string   `json:"type"`
	Cells  []string `json:"cells"`
	OldRow int      `json:"old_row,omitempty"`
	NewRow int      `json:"new_row,omitempty"`
}

// Stats counts rows by line type
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed reports whether any row was added or removed
func (s Stats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Rows diffs before against after. A modified row shows up as one removed
// and one added line.
func Rows(before, after table.Table) []Line {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(rowsText(before), rowsText(after))
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []Line
	oldRow := 1
	newRow := 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			cells := decodeRow(text)
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Type: LineContext, Cells: cells, OldRow: oldRow, NewRow: newRow})
				oldRow++
				newRow++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Type: LineRemoved, Cells: cells, OldRow: oldRow})
				oldRow++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Type: LineAdded, Cells: cells, NewRow: newRow})
				newRow++
			}
		}
	}
	return lines
}

// Summarize counts the lines of a diff
func Summarize(lines []Line) Stats {
	var s Stats
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			s.Added++
		case LineRemoved:
			s.Removed++
		default:
			s.Unchanged++
		}
	}
	return s
}

// Compare diffs the trimmed tables and returns only the counts
func Compare(before, after table.Table) Stats {
	return Summarize(Rows(table.Trim(before), table.Trim(after)))
}

// Format renders a diff in unified style, one row per line with cells
// separated by " | "
func Format(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		switch l.Type {
		case LineAdded:
			sb.WriteString("+ ")
		case LineRemoved:
			sb.WriteString("- ")
		default:
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Join(l.Cells, " | "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// rowsText writes one JSON array per row so cell text never spans lines
func rowsText(t table.Table) string {
	var sb strings.Builder
	for _, row := range t {
		cells := []string(row)
		if cells == nil {
			cells = []string{}
		}
		data, _ := json.Marshal(cells)
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func decodeRow(text string) []string {
	var cells []string
	if err := json.Unmarshal([]byte(text), &cells); err != nil {
		return []string{text}
	}
	return cells
}
