package ledger

import (
	"fmt"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// appender writes whole lines to a shared file. The mutex serializes
// goroutines in this process and the flock serializes other processes
// appending to the same file.
type appender struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

func newAppender(path string) *appender {
	return &appender{path: path, lock: flock.New(path + ".lock")}
}

func (a *appender) appendLine(line []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", a.path, err)
	}
	defer a.lock.Unlock()

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", a.path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", a.path, err)
	}
	return f.Close()
}
