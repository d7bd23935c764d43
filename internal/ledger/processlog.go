package ledger

import (
	"fmt"
	"time"
)

// ProcessLog is the human-readable append-only event stream.
type ProcessLog struct {
	out *appender
	now func() time.Time
}

func NewProcessLog(path string) *ProcessLog {
	return &ProcessLog{out: newAppender(path), now: time.Now}
}

// Start records that processing of name began.
func (p *ProcessLog) Start(name string) error {
	return p.out.appendLine([]byte(fmt.Sprintf("%s Processing: %s\n", p.now().Format(TimestampLayout), name)))
}

// Error records why processing of name failed.
func (p *ProcessLog) Error(name string, cause error) error {
	return p.out.appendLine([]byte(fmt.Sprintf("[ERROR] %s - %v\n", name, cause)))
}
