package extract

import (
	"strings"

	"github.com/dgallion1/chat2md/internal/document"
)

// keywordTags maps a case-insensitive substring to the tag it implies.
var keywordTags = []struct {
	keyword string
	tag     string
}{
	{"powershell", "powershell"},
	{"ollama", "ollama"},
	{"windows", "windows"},
	{"wsl", "wsl"},
	{"linux", "linux"},
	{"cuda", "cuda"},
	{"registry", "windows-registry"},
	{"obsidian", "obsidian"},
	{"api", "api"},
	{"gpu", "gpu"},
}

// DeriveTags returns defaults plus every tag whose keyword appears in body,
// sorted and de-duplicated.
func DeriveTags(body string, defaults []string) []string {
	tags := append([]string(nil), defaults...)
	lower := strings.ToLower(body)
	for _, kt := range keywordTags {
		if strings.Contains(lower, kt.keyword) {
			tags = append(tags, kt.tag)
		}
	}
	return document.SortedTags(tags)
}
