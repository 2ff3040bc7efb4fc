package codec

import (
	"bytes"
	"encoding/csv"

	"gosheet/domain/table"
	"gosheet/internal/errors"
)

// DecodeCSV reads comma separated records. Records may have different lengths.
func DecodeCSV(data []byte) (table.Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = false

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.FormatError("csv", err)
	}

	t := make(table.Table, len(records))
	for i, rec := range records {
		t[i] = table.Row(rec)
	}
	return t, nil
}

// EncodeCSV writes one record per row
func EncodeCSV(t table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range t {
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "failed to write csv record")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv")
	}
	return buf.Bytes(), nil
}
