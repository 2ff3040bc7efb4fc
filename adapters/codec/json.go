package codec

import (
	"encoding/json"
	"log"

	"gosheet/domain/table"

	"github.com/tidwall/gjson"
)

// DecodeJSON reads an array of arrays. Anything that is not valid JSON, or not
// an array at the top level, yields an empty table and is only logged.
//
// Scalars become their text form (strings unquoted, numbers as written,
// booleans as true/false, null as ""). A top-level element that is not an
// array becomes a one-cell row; nested values are kept as compact JSON text.
func DecodeJSON(text string) table.Table {
	if !gjson.Valid(text) {
		log.Printf("[Codec] JSON parse error, returning empty table (%d bytes)", len(text))
		return table.Table{}
	}

	doc := gjson.Parse(text)
	if !doc.IsArray() {
		log.Printf("[Codec] JSON document is %s, not an array; returning empty table", doc.Type)
		return table.Table{}
	}

	t := table.Table{}
	doc.ForEach(func(_, rowValue gjson.Result) bool {
		if !rowValue.IsArray() {
			t = append(t, table.Row{jsonCell(rowValue)})
			return true
		}
		row := table.Row{}
		rowValue.ForEach(func(_, cellValue gjson.Result) bool {
			row = append(row, jsonCell(cellValue))
			return true
		})
		t = append(t, row)
		return true
	})
	return t
}

func jsonCell(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	}
	// nested array or object
	return gjson.Get(v.Raw, "@ugly").Raw
}

// EncodeJSON writes the table as an array of string arrays, indented by two spaces
func EncodeJSON(t table.Table) (string, error) {
	if t == nil {
		t = table.Table{}
	}
	rows := make([][]string, len(t))
	for i, r := range t {
		if r == nil {
			r = table.Row{}
		}
		rows[i] = r
	}
	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
