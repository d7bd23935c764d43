package document

import (
	"crypto/sha1"
	"encoding/hex"
	"path"
	"sort"
	"time"
)

// DateLayout is the layout used for every derived document date.
const DateLayout = "2006-01-02"

// UntitledTitle is the title given to model output that carries no heading.
const UntitledTitle = "Untitled"

// Title and slug of the per-source aggregate of trivial sections.
const (
	MiscTitle = "Miscellaneous Topics"
	MiscSlug  = "miscellaneous"
)

// SourceDocument is one exported transcript read from the input directory.
type SourceDocument struct {
	Name    string    // Slash-separated path relative to the input dir; the ledger identity.
	Text    string    // Extracted plain text.
	ModTime time.Time // Nominal date of everything derived from this document.
}

// Date returns the source's nominal date as YYYY-MM-DD.
func (d SourceDocument) Date() string {
	return d.ModTime.Format(DateLayout)
}

// Section is a titled unit parsed from one chunk's model output.
type Section struct {
	Title string
	Body  string
}

// Class is the triage outcome for a section body.
type Class int

const (
	Substantial Class = iota
	Trivial
)

func (c Class) String() string {
	switch c {
	case Substantial:
		return "substantial"
	case Trivial:
		return "trivial"
	}
	return "unknown"
}

// ClassifiedSection is a Section tagged with its triage class.
type ClassifiedSection struct {
	Section
	Class Class
}

// OutputDocument is the persisted unit: a substantial section or a per-source aggregate.
type OutputDocument struct {
	Title  string
	Slug   string
	Body   string
	Date   string
	Tags   []string
	Source string
}

// Hash returns the short content hash of the body.
func (d OutputDocument) Hash() string {
	return ContentHash(d.Body)
}

// Filename returns "{slug}-{hash}.md".
func (d OutputDocument) Filename() string {
	return d.Slug + "-" + d.Hash() + ".md"
}

// RelPath returns the slash-separated path of the document under the output root.
func (d OutputDocument) RelPath() string {
	return path.Join(d.Slug, d.Filename())
}

// TOCEntry is one table-of-contents line.
type TOCEntry struct {
	Title string   `json:"title"`
	Path  string   `json:"path"`
	Date  string   `json:"date"`
	Tags  []string `json:"tags"`
}

// ProgressRecord is one ledger line. Timestamp stays a string so ledgers
// written without a zone offset keep decoding.
type ProgressRecord struct {
	SourceFile string `json:"source_file"`
	Timestamp  string `json:"timestamp"`
}

// ContentHash returns the first 10 hex characters of the SHA-1 of text.
func ContentHash(text string) string {
	h := sha1.Sum([]byte(text))
	return hex.EncodeToString(h[:])[:10]
}

// SortedTags returns a sorted, de-duplicated copy of tags.
func SortedTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
