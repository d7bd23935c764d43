package output

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dgallion1/chat2md/internal/document"
	"gopkg.in/yaml.v3"
)

const fence = "---\n"

var errNoFrontMatter = errors.New("missing front matter")

// FrontMatter is the metadata header of every output document.
type FrontMatter struct {
	Title  string   `yaml:"title"`
	Date   string   `yaml:"date"`
	Tags   []string `yaml:"tags,flow"`
	Source string   `yaml:"source_chat_file"`
}

// Render returns the file content for doc: a YAML header followed by the body.
func Render(doc document.OutputDocument) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fence)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	fm := FrontMatter{
		Title:  doc.Title,
		Date:   doc.Date,
		Tags:   document.SortedTags(doc.Tags),
		Source: doc.Source,
	}
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	buf.WriteString(fence)
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

// Parse splits file content into its header and body.
func Parse(data []byte) (FrontMatter, string, error) {
	var fm FrontMatter
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(fence)) {
		return fm, "", errNoFrontMatter
	}
	rest := data[len(fence):]
	end := bytes.Index(rest, []byte("\n"+fence))
	if end < 0 {
		return fm, "", errNoFrontMatter
	}
	if err := yaml.Unmarshal(rest[:end+1], &fm); err != nil {
		return fm, "", fmt.Errorf("decode front matter: %w", err)
	}
	body := rest[end+1+len(fence):]
	return fm, string(body), nil
}
