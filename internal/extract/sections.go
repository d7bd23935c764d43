package extract

import (
	"bytes"
	"strings"

	"github.com/dgallion1/chat2md/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var headingPrefix = []byte("# ")

// marker is a section heading line found in model output.
type marker struct {
	lineStart int // Offset of the "# " that opens the heading line.
	bodyStart int // Offset just past the heading line.
	title     string
}

// span is a half-open byte range of src.
type span struct{ start, stop int }

// ExtractSections splits generated markdown into (title, body) sections.
//
// Every line that starts with "# " followed by text is a section marker,
// except inside a closed code fence. The title is the rest of the line,
// trimmed and kept verbatim. Deeper heading levels and setext headings stay
// part of the surrounding body. Text before the first marker is discarded.
// When there is no marker at all, the whole text becomes one section titled
// "Untitled".
func ExtractSections(generated string) []document.Section {
	src := []byte(generated)
	markers := findMarkers(src)
	if len(markers) == 0 {
		return []document.Section{{
			Title: document.UntitledTitle,
			Body:  strings.TrimSpace(generated),
		}}
	}

	sections := make([]document.Section, 0, len(markers))
	for i, m := range markers {
		end := len(src)
		if i+1 < len(markers) {
			end = markers[i+1].lineStart
		}
		sections = append(sections, document.Section{
			Title: m.title,
			Body:  strings.TrimSpace(string(src[m.bodyStart:end])),
		})
	}
	return sections
}

func findMarkers(src []byte) []marker {
	fences := closedFences(src)

	var markers []marker
	for lineStart := 0; lineStart < len(src); {
		lineEnd := len(src)
		next := len(src)
		if nl := bytes.IndexByte(src[lineStart:], '\n'); nl >= 0 {
			lineEnd = lineStart + nl
			next = lineEnd + 1
		}

		if bytes.HasPrefix(src[lineStart:lineEnd], headingPrefix) && !inside(fences, lineStart) {
			title := strings.TrimSpace(string(src[lineStart+len(headingPrefix) : lineEnd]))
			if title != "" {
				markers = append(markers, marker{lineStart: lineStart, bodyStart: next, title: title})
			}
		}
		lineStart = next
	}
	return markers
}

// closedFences returns the content ranges of fenced code blocks that have a
// closing fence. A fence left open at the end of the output hides nothing.
func closedFences(src []byte) []span {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := fb.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		start, stop := lines.At(0).Start, lines.At(lines.Len()-1).Stop
		if isFenceLine(src[stop:]) {
			spans = append(spans, span{start: start, stop: stop})
		}
		return ast.WalkSkipChildren, nil
	})
	return spans
}

// isFenceLine reports whether rest opens with a ``` or ~~~ fence line.
func isFenceLine(rest []byte) bool {
	if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	line := strings.TrimLeft(string(rest), " \t>")
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

func inside(spans []span, off int) bool {
	for _, s := range spans {
		if off >= s.start && off < s.stop {
			return true
		}
	}
	return false
}
