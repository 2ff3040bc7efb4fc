// Package codec converts the canonical table to and from external file formats.
//
// Spreadsheet and CSV decoding is strict, XML decoding is strict on syntax but
// lenient on structure, and JSON decoding never fails.
package codec

import (
	"path/filepath"
	"strings"

	"gosheet/domain/table"
	"gosheet/internal/errors"
)

// Format identifies a supported file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats lists every supported format in menu order
var Formats = []Format{FormatXLSX, FormatXML, FormatJSON, FormatCSV}

// ParseFormat validates a format name such as "xlsx" or ".XML"
func ParseFormat(name string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.UnsupportedFormat(name)
}

// FormatFromFilename picks the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", errors.UnsupportedFormat(name)
	}
	return ParseFormat(ext)
}

// MIMEType returns the content type used when the format is downloaded
func (f Format) MIMEType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXML:
		return "application/xml"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	}
	return "application/octet-stream"
}

// Binary reports whether the encoded form is not plain text
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// RenameForFormat swaps the extension of name for the given format. A name
// without a base part becomes "Untitled".
func RenameForFormat(name string, f Format) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "Untitled"
	}
	return base + "." + string(f)
}

// Decode dispatches to the decoder for f
func Decode(f Format, data []byte) (table.Table, error) {
	switch f {
	case FormatXLSX:
		return DecodeSpreadsheet(data)
	case FormatXML:
		return DecodeXML(string(data))
	case FormatJSON:
		return DecodeJSON(string(data)), nil
	case FormatCSV:
		return DecodeCSV(data)
	}
	return nil, errors.UnsupportedFormat(string(f))
}

// Encode dispatches to the encoder for f
func Encode(f Format, t table.Table) ([]byte, error) {
	switch f {
	case FormatXLSX:
		return EncodeSpreadsheet(t)
	case FormatXML:
		return []byte(EncodeXML(t)), nil
	case FormatJSON:
		s, err := EncodeJSON(t)
		return []byte(s), err
	case FormatCSV:
		return EncodeCSV(t)
	}
	return nil, errors.UnsupportedFormat(string(f))
}
