// Package bridge is the only surface the conversational assistant uses to
// move tables in and out of text: tables go out as XML snapshots and come back
// as fenced ```xml blocks inside a reply.
package bridge

import (
	"regexp"
	"strings"

	"gosheet/adapters/codec"
	"gosheet/domain/table"
)

// TableToXML renders the snapshot sent to the assistant
func TableToXML(t table.Table) string {
	return codec.EncodeXML(t)
}

// XMLToTable decodes a table proposed by the assistant
func XMLToTable(text string) (table.Table, error) {
	return codec.DecodeXML(text)
}

var fencedXML = regexp.MustCompile("(?s)```xml\\s*(.+?)\\s*```")

// FencedBlocks returns the inner text of every ```xml block in reply, in order
func FencedBlocks(reply string) []string {
	matches := fencedXML.FindAllStringSubmatch(reply, -1)
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// LastFencedBlock returns the last ```xml block, since a later proposal in a
// reply supersedes earlier ones
func LastFencedBlock(reply string) (string, bool) {
	blocks := FencedBlocks(reply)
	if len(blocks) == 0 {
		return "", false
	}
	return blocks[len(blocks)-1], true
}

// ExtractProposal decodes the table proposed in reply. ok is false when the
// reply is conversation only.
func ExtractProposal(reply string) (t table.Table, ok bool, err error) {
	block, found := LastFencedBlock(reply)
	if !found {
		return nil, false, nil
	}
	t, err = XMLToTable(block)
	if err != nil {
		return nil, true, err
	}
	return t, true, nil
}

// StripFencedBlocks removes the ```xml blocks, leaving the conversational text
func StripFencedBlocks(reply string) string {
	return strings.TrimSpace(fencedXML.ReplaceAllString(reply, ""))
}
