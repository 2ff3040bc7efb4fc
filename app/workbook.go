package app

import (
	"log"
	"os"

	"gosheet/adapters/codec"
	"gosheet/domain/table"
	"gosheet/internal/aggregate"
	"gosheet/internal/document"
	"gosheet/internal/errors"
	"gosheet/internal/tablediff"
)

// LoadFile decodes a local file by its extension
func LoadFile(path string) (table.Table, error) {
	format, err := codec.FormatFromFilename(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return codec.Decode(format, data)
}

// SaveFile encodes t into path, picking the format from its extension
func SaveFile(path string, t table.Table) error {
	format, err := codec.FormatFromFilename(path)
	if err != nil {
		return err
	}
	data, err := codec.Encode(format, table.Trim(t))
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// ConvertFile re-encodes a file into the format named by the output extension
func ConvertFile(in, out string) (table.Table, error) {
	t, err := LoadFile(in)
	if err != nil {
		return nil, err
	}
	if err := SaveFile(out, t); err != nil {
		return nil, err
	}
	log.Printf("[Workbook] Converted %s -> %s (%d rows)", in, out, t.Rows())
	return t, nil
}

// QueryFile runs a lookup or aggregation against a local file
func QueryFile(path string, req document.QueryRequest) (*document.QueryResult, error) {
	t, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return document.RunQuery(t, req)
}

// SummarizeFile reports the selection summary over 0-based rows of a local file
func SummarizeFile(path string, rows []int) (aggregate.Summary, bool, error) {
	t, err := LoadFile(path)
	if err != nil {
		return aggregate.Summary{}, false, err
	}
	selected := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r >= 0 && r < t.Rows() {
			selected = append(selected, t[r])
		}
	}
	summary, ok := aggregate.Summarize(selected)
	return summary, ok, nil
}

// DiffFiles compares the trimmed tables of two local files row by row
func DiffFiles(before, after string) ([]tablediff.Line, error) {
	a, err := LoadFile(before)
	if err != nil {
		return nil, err
	}
	b, err := LoadFile(after)
	if err != nil {
		return nil, err
	}
	return tablediff.Rows(table.Trim(a), table.Trim(b)), nil
}
