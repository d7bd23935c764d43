package extract

import (
	"strings"
	"testing"

	"github.com/dgallion1/chat2md/internal/document"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		limit int
		want  document.Class
	}{
		{"short plain", "ok", 5000, document.Trivial},
		{"empty", "", 5000, document.Trivial},
		{"list marker", "- item one\n- item two", 5000, document.Substantial},
		{"backtick", "use `ls`", 5000, document.Substantial},
		{"emphasis", "this is *important*", 5000, document.Substantial},
		{"blockquote", "> quoted", 5000, document.Substantial},
		{"hyphenated word", "well-known", 5000, document.Substantial},
		{"long plain", strings.Repeat("a", 5000), 5000, document.Substantial},
		{"just under limit", strings.Repeat("a", 4999), 5000, document.Trivial},
		{"padding trimmed", "   " + strings.Repeat("a", 10) + "   ", 11, document.Trivial},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.body, tc.limit); got != tc.want {
				t.Errorf("Classify(%q, %d) = %s, want %s", tc.body, tc.limit, got, tc.want)
			}
		})
	}
}

func TestTriage_IgnoresTitle(t *testing.T) {
	sections := []document.Section{
		{Title: "- * ` >", Body: "plain"},
		{Title: "plain", Body: "- bullet"},
	}
	got := Triage(sections, 5000)
	if got[0].Class != document.Trivial {
		t.Errorf("expected marker-laden title to be ignored, got %s", got[0].Class)
	}
	if got[1].Class != document.Substantial {
		t.Errorf("expected bulleted body to be substantial, got %s", got[1].Class)
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate([]document.Section{
		{Title: "Hello", Body: "hi there"},
		{Title: "Thanks", Body: "thank you"},
	})
	want := "# Hello\nhi there\n\n# Thanks\nthank you"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
