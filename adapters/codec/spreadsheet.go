package codec

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"time"

	"gosheet/domain/table"
	"gosheet/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the name of the single sheet written by EncodeSpreadsheet
const DefaultSheet = "Sheet1"

// DecodeSpreadsheet reads the first sheet of an xlsx workbook. Rows are padded
// with "" to the widest row so blank cells never go missing.
func DecodeSpreadsheet(data []byte) (table.Table, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.FormatError("spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.FormatError("spreadsheet", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.FormatError("spreadsheet", err)
	}

	t := make(table.Table, len(rows))
	for i, r := range rows {
		t[i] = table.Row(r)
	}
	t = table.Rectangular(t)

	log.Printf("[Codec] %s read in %.2fms (%d rows, %d columns)",
		sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, t.Rows(), t.Width())
	return t, nil
}

// EncodeSpreadsheet writes t into a new workbook with one sheet named Sheet1.
// Cells whose text is a canonical number are stored as numbers, everything
// else as text, so decoding returns the same strings.
func EncodeSpreadsheet(t table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for r, row := range t {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, errors.Wrapf(err, "cell %d,%d out of worksheet range", r+1, c+1)
			}
			var value interface{} = cell
			if n, ok := canonicalNumber(cell); ok {
				value = n
			}
			if err := f.SetCellValue(DefaultSheet, ref, value); err != nil {
				return nil, errors.Wrapf(err, "failed to write cell %s", ref)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf.Bytes(), nil
}

func canonicalNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != s {
		return 0, false
	}
	return n, true
}
