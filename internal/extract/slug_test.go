package extract

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Installing WSL", "installing-wsl"},
		{"  CUDA & GPU: setup!  ", "cuda-gpu-setup"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode Title", "n-code-title"},
		{"C++ / C#", "c-c"},
		{"!!!", "untitled"},
		{"", "untitled"},
	}
	for _, tc := range tests {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugify_Truncates(t *testing.T) {
	got := Slugify(strings.Repeat("ab ", 60))
	if len(got) > maxSlugLen {
		t.Errorf("expected slug of at most %d chars, got %d", maxSlugLen, len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug should not end with a separator: %q", got)
	}
}
