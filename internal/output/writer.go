package output

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/chat2md/internal/document"
	"github.com/spf13/afero"
)

// Writer persists output documents and the TOC under one root directory.
// Paths are keyed by slug and content hash, so concurrent writes of the
// same document rewrite identical bytes.
type Writer struct {
	fs      afero.Fs
	root    string
	tocFile string
	log     *slog.Logger
}

func NewWriter(fsys afero.Fs, root, tocFile string, log *slog.Logger) *Writer {
	return &Writer{fs: fsys, root: root, tocFile: tocFile, log: log}
}

// Root returns the output directory.
func (w *Writer) Root() string {
	return w.root
}

// EnsureRoot creates the output directory.
func (w *Writer) EnsureRoot() error {
	if err := w.fs.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// Write renders doc into {root}/{slug}/{slug}-{hash}.md and returns its TOC entry.
func (w *Writer) Write(doc document.OutputDocument) (document.TOCEntry, error) {
	content, err := Render(doc)
	if err != nil {
		return document.TOCEntry{}, err
	}

	dir := filepath.Join(w.root, doc.Slug)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return document.TOCEntry{}, fmt.Errorf("create topic dir %s: %w", doc.Slug, err)
	}
	target := filepath.Join(dir, doc.Filename())
	if err := afero.WriteFile(w.fs, target, content, 0o644); err != nil {
		return document.TOCEntry{}, fmt.Errorf("write %s: %w", doc.RelPath(), err)
	}

	return document.TOCEntry{
		Title: doc.Title,
		Path:  doc.RelPath(),
		Date:  doc.Date,
		Tags:  document.SortedTags(doc.Tags),
	}, nil
}

// WriteTOC replaces the TOC file with the rendered entries.
func (w *Writer) WriteTOC(entries []document.TOCEntry) error {
	target := filepath.Join(w.root, w.tocFile)
	if err := afero.WriteFile(w.fs, target, []byte(RenderTOC(entries)), 0o644); err != nil {
		return fmt.Errorf("write toc: %w", err)
	}
	return nil
}

// ScanEntries indexes every document under the root from its front matter,
// newest first. Files without a readable header are skipped.
func (w *Writer) ScanEntries() ([]document.TOCEntry, error) {
	if ok, err := afero.DirExists(w.fs, w.root); err != nil || !ok {
		return nil, err
	}

	var entries []document.TOCEntry
	err := afero.Walk(w.fs, w.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		// Documents live exactly one level down: {slug}/{file}.
		if strings.Count(rel, "/") != 1 {
			return nil
		}

		data, err := afero.ReadFile(w.fs, p)
		if err != nil {
			w.log.Warn("skipping unreadable document", "path", rel, "error", err)
			return nil
		}
		fm, _, err := Parse(data)
		if err != nil {
			w.log.Warn("skipping document without front matter", "path", rel, "error", err)
			return nil
		}
		entries = append(entries, document.TOCEntry{
			Title: fm.Title,
			Path:  rel,
			Date:  fm.Date,
			Tags:  document.SortedTags(fm.Tags),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan output dir: %w", err)
	}

	SortEntries(entries)
	return entries, nil
}

// SortEntries orders entries by date descending, then path.
func SortEntries(entries []document.TOCEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Path < entries[j].Path
	})
}
