package pipeline

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dgallion1/chat2md/internal/document"
	"github.com/dgallion1/chat2md/internal/parser"
	"github.com/spf13/afero"
)

// Source is one matched input file.
type Source struct {
	Name    string // slash-separated path relative to the input dir
	Path    string
	ModTime time.Time
}

// SourceReader discovers and reads transcripts under an input directory.
type SourceReader struct {
	fs      afero.Fs
	root    string
	pattern string
	skipDir string
	opts    parser.Options
}

// NewSourceReader matches files under root against a doublestar pattern.
// skipDir, when non-empty, is never descended into; it keeps an output
// directory nested inside the input directory from being re-ingested.
func NewSourceReader(fsys afero.Fs, root, pattern, skipDir string, opts parser.Options) (*SourceReader, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}
	if skipDir != "" {
		skipDir = filepath.Clean(skipDir)
	}
	return &SourceReader{fs: fsys, root: root, pattern: pattern, skipDir: skipDir, opts: opts}, nil
}

// List returns matching files sorted by name.
func (r *SourceReader) List() ([]Source, error) {
	var out []Source
	err := afero.Walk(r.fs, r.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if r.skipDir != "" && p != r.root && filepath.Clean(p) == r.skipDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		ok, err := doublestar.Match(r.pattern, rel)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, Source{Name: rel, Path: p, ModTime: info.ModTime()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sources in %s: %w", r.root, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read parses src into a SourceDocument.
func (r *SourceReader) Read(src Source) (document.SourceDocument, error) {
	p, err := parser.ForFile(src.Name, r.opts)
	if err != nil {
		return document.SourceDocument{}, err
	}
	f, err := r.fs.Open(src.Path)
	if err != nil {
		return document.SourceDocument{}, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	text, err := p.Parse(f, path.Base(src.Name))
	if err != nil {
		return document.SourceDocument{}, fmt.Errorf("parse source: %w", err)
	}
	return document.SourceDocument{Name: src.Name, Text: text, ModTime: src.ModTime}, nil
}

// Save writes an uploaded transcript into the input directory under name.
func (r *SourceReader) Save(name string, data []byte) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid source name %q", name)
	}
	target := filepath.Join(r.root, filepath.FromSlash(clean))
	if err := r.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create source dir: %w", err)
	}
	if err := afero.WriteFile(r.fs, target, data, 0o644); err != nil {
		return "", fmt.Errorf("write source: %w", err)
	}
	return clean, nil
}
