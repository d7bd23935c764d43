package chunker

import (
	"strings"
	"unicode/utf8"
)

// ParagraphSeparator splits and rejoins paragraphs.
const ParagraphSeparator = "\n\n"

// Config controls chunking behavior. Lengths are in characters.
type Config struct {
	Threshold    int // Target maximum chunk length.
	MinLength    int // Chunks shorter than this (trimmed) are dropped.
	TrivialLimit int // Documents shorter than this are never split.
}

// DefaultConfig returns the defaults the tool ships with.
func DefaultConfig() Config {
	return Config{
		Threshold:    24000,
		MinLength:    100,
		TrivialLimit: 5000,
	}
}

// Split partitions text into ordered chunks.
//
// Text shorter than MinLength yields no chunks. Text shorter than TrivialLimit
// is returned whole. Anything longer is split on blank lines and paragraphs are
// greedily packed until the next one would push the chunk past Threshold. A
// paragraph is never split, so a paragraph longer than Threshold becomes its
// own oversized chunk.
func Split(text string, cfg Config) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	n := utf8.RuneCountInString(text)
	if n < cfg.MinLength {
		return nil
	}
	if n < cfg.TrivialLimit {
		return []string{text}
	}

	sepLen := utf8.RuneCountInString(ParagraphSeparator)
	var chunks []string
	var current []string
	currentLen := 0

	for _, para := range strings.Split(text, ParagraphSeparator) {
		paraLen := utf8.RuneCountInString(para)
		added := paraLen
		if len(current) > 0 {
			added += sepLen
		}
		if len(current) > 0 && currentLen+added > cfg.Threshold {
			chunks = append(chunks, strings.Join(current, ParagraphSeparator))
			current = current[:0]
			currentLen = 0
			added = paraLen
		}
		current = append(current, para)
		currentLen += added
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ParagraphSeparator))
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if utf8.RuneCountInString(strings.TrimSpace(c)) >= cfg.MinLength {
			kept = append(kept, c)
		}
	}
	return kept
}
