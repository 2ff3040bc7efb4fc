package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"gosheet/domain/table"
	"gosheet/internal/errors"
)

const (
	xmlRoot   = "root"
	xmlRow    = "row"
	xmlColumn = "col"
)

// DecodeXML reads <root><row><col>..</col></row></root>. Every <row> element,
// at any depth, becomes one row holding the text content of its <col>
// descendants in document order. Missing elements produce fewer rows or cells;
// only malformed XML syntax is an error.
func DecodeXML(text string) (table.Table, error) {
	dec := xml.NewDecoder(strings.NewReader(text))

	t := table.Table{}
	var (
		row      table.Row
		rowDepth int
		colDepth int
		cell     strings.Builder
		depth    int
		sawRoot  bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.FormatError("xml", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			depth++
			sawRoot = true
			switch {
			case el.Name.Local == xmlRow && rowDepth == 0:
				rowDepth = depth
				row = table.Row{}
			case el.Name.Local == xmlColumn && rowDepth > 0 && colDepth == 0:
				colDepth = depth
				cell.Reset()
			}
		case xml.EndElement:
			switch depth {
			case colDepth:
				row = append(row, cell.String())
				colDepth = 0
			case rowDepth:
				t = append(t, row)
				rowDepth = 0
			}
			depth--
		case xml.CharData:
			if colDepth > 0 {
				cell.Write(el)
			}
		}
	}

	if !sawRoot {
		return nil, errors.FormatError("xml", fmt.Errorf("document has no root element"))
	}
	return t, nil
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EncodeXML writes the table as <root>, one <row> per row and one <col> per
// cell, indented by two spaces per level.
func EncodeXML(t table.Table) string {
	var sb strings.Builder
	sb.WriteString("<" + xmlRoot + ">\n")
	for _, row := range t {
		sb.WriteString("  <" + xmlRow + ">\n")
		for _, cell := range row {
			sb.WriteString("    <" + xmlColumn + ">")
			sb.WriteString(xmlEscaper.Replace(cell))
			sb.WriteString("</" + xmlColumn + ">\n")
		}
		sb.WriteString("  </" + xmlRow + ">\n")
	}
	sb.WriteString("</" + xmlRoot + ">")
	return sb.String()
}
