package parser

import (
	"fmt"
	"io"
)

// TextParser returns plain text and markdown exports verbatim.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}
