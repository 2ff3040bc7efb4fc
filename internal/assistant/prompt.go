package assistant

import (
	"fmt"

	"gosheet/domain/table"
	"gosheet/internal/bridge"
)

const systemPromptTemplate = `You are a capable table assistant, and you can also just chat.
This is the XML of the current table:
<data>
%s
</data>
Talk with me or act on my requests.
If the table needs to change, include in your reply one complete new table as an XML code block fenced with ` + "```xml ... ```" + `.
The XML must use the format <root><row><col>...</col></row>...</root>, with no <data> element, and it need not keep the current table's size.
If the table does not change, chat normally and do not output any XML.`

// SystemPrompt builds the instruction sent ahead of the conversation. The
// snapshot is the trimmed table so empty grid padding is not sent.
func SystemPrompt(t table.Table) string {
	return fmt.Sprintf(systemPromptTemplate, bridge.TableToXML(table.Trim(t)))
}
