package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/chat2md/internal/document"
)

// structureMarkers are characters whose presence marks formatted content:
// code, emphasis, quotes and list bullets.
const structureMarkers = "`*>-"

// Classify decides whether a section body deserves its own document.
// A body is trivial when its trimmed length is under trivialLimit and it
// carries no structure marker. The title never matters.
func Classify(body string, trivialLimit int) document.Class {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) < trivialLimit && !strings.ContainsAny(body, structureMarkers) {
		return document.Trivial
	}
	return document.Substantial
}

// Triage classifies sections in order.
func Triage(sections []document.Section, trivialLimit int) []document.ClassifiedSection {
	out := make([]document.ClassifiedSection, 0, len(sections))
	for _, s := range sections {
		s.Body = strings.TrimSpace(s.Body)
		out = append(out, document.ClassifiedSection{Section: s, Class: Classify(s.Body, trivialLimit)})
	}
	return out
}

// Aggregate folds trivial sections into one body, each re-headed with its title.
func Aggregate(sections []document.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, "# "+s.Title+"\n"+s.Body)
	}
	return strings.Join(parts, "\n\n")
}
