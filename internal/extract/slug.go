package extract

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

const maxSlugLen = 100

// Slugify lowercases s, collapses every run of non [a-z0-9] characters into
// one "-" and trims separators from both ends. Titles with nothing left
// become "untitled".
func Slugify(s string) string {
	s = nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
