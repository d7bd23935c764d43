package output

import (
	"strings"

	"github.com/dgallion1/chat2md/internal/document"
)

// TOCHeader opens every generated table of contents.
const TOCHeader = "# 🧠 ChatGPT Reference Index\n\n> Auto-generated from extracted sessions\n\n"

// RenderTOC renders the header followed by one line per entry, in order.
func RenderTOC(entries []document.TOCEntry) string {
	var b strings.Builder
	b.WriteString(TOCHeader)
	for _, e := range entries {
		b.WriteString("- [")
		b.WriteString(e.Title)
		b.WriteString("](")
		b.WriteString(e.Path)
		b.WriteString(") | `")
		b.WriteString(e.Date)
		b.WriteString("` | `tags: ")
		b.WriteString(strings.Join(document.SortedTags(e.Tags), ", "))
		b.WriteString("`\n")
	}
	return b.String()
}
