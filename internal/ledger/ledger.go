package ledger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/chat2md/internal/document"
)

// TimestampLayout matches the microsecond ISO form older ledgers were written with.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Ledger is the append-only record of fully processed source files.
type Ledger struct {
	out *appender
	log *slog.Logger
	now func() time.Time
}

func New(path string, log *slog.Logger) *Ledger {
	return &Ledger{out: newAppender(path), log: log, now: time.Now}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.out.path
}

// Load returns every record in file order. A missing ledger is empty. Read
// faults are logged and treated as no known progress; malformed lines are
// skipped.
func (l *Ledger) Load() []document.ProgressRecord {
	f, err := os.Open(l.out.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		l.log.Warn("could not read progress ledger", "path", l.out.path, "error", err)
		return nil
	}
	defer f.Close()

	var records []document.ProgressRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec document.ProgressRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.SourceFile == "" {
			l.log.Warn("skipping malformed ledger line", "path", l.out.path, "line", line)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		l.log.Warn("could not read progress ledger", "path", l.out.path, "error", err)
		return nil
	}
	return records
}

// Processed returns the resume-skip set.
func (l *Ledger) Processed() map[string]bool {
	records := l.Load()
	done := make(map[string]bool, len(records))
	for _, r := range records {
		done[r.SourceFile] = true
	}
	return done
}

// Append records sourceFile as processed now.
func (l *Ledger) Append(sourceFile string) error {
	rec := document.ProgressRecord{
		SourceFile: sourceFile,
		Timestamp:  l.now().Format(TimestampLayout),
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode progress record: %w", err)
	}
	return l.out.appendLine(append(line, '\n'))
}
