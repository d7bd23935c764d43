package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileStatus is the per-file state machine position.
type FileStatus string

const (
	StatusPending     FileStatus = "pending"
	StatusChunking    FileStatus = "chunking"
	StatusGenerating  FileStatus = "generating"
	StatusExtracting  FileStatus = "extracting"
	StatusClassifying FileStatus = "classifying"
	StatusAggregating FileStatus = "aggregating"
	StatusLogged      FileStatus = "logged"
	StatusFailed      FileStatus = "failed"
)

// Terminal reports whether no further transition can happen.
func (s FileStatus) Terminal() bool {
	return s == StatusLogged || s == StatusFailed
}

// FileJob tracks the state of one source file within a run.
type FileJob struct {
	mu sync.Mutex

	Name      string     `json:"name"`
	Status    FileStatus `json:"status"`
	Progress  Progress   `json:"progress"`
	UpdatedAt time.Time  `json:"updated_at"`

	errors []string
}

// Progress counts what one file has produced so far.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	ChunksSkipped   int      `json:"chunks_skipped"`
	Sections        int      `json:"sections"`
	Documents       int      `json:"documents"`
	Errors          []string `json:"errors"`
}

func NewFileJob(name string) *FileJob {
	return &FileJob{Name: name, Status: StatusPending, UpdatedAt: time.Now()}
}

// SetStatus moves the job to status. Terminal states are final.
func (j *FileJob) SetStatus(status FileStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return
	}
	j.Status = status
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *FileJob) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *FileJob) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// ChunkDone counts one finished chunk; skipped marks an empty model result.
func (j *FileJob) ChunkDone(skipped bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed++
	if skipped {
		j.Progress.ChunksSkipped++
	}
	j.UpdatedAt = time.Now()
}

// AddSections counts sections parsed from model output.
func (j *FileJob) AddSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Sections += n
	j.UpdatedAt = time.Now()
}

// AddDocument counts one written output document.
func (j *FileJob) AddDocument() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Documents++
	j.UpdatedAt = time.Now()
}

// FileSnapshot is a read-only, JSON-safe copy of file state.
type FileSnapshot struct {
	Name     string     `json:"name"`
	Status   FileStatus `json:"status"`
	Progress Progress   `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *FileJob) Snapshot() FileSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.Progress
	p.Errors = append([]string{}, j.errors...)
	return FileSnapshot{Name: j.Name, Status: j.Status, Progress: p}
}

// RunStatus is the lifecycle of one pass over the input directory.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run tracks one pass over the input directory.
type Run struct {
	mu sync.Mutex

	ID         string
	Status     RunStatus
	StartedAt  time.Time
	FinishedAt time.Time
	UpdatedAt  time.Time

	files  []*FileJob
	report *Report
	err    string
	done   chan struct{}
}

func NewRun() *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Status:    RunRunning,
		StartedAt: now,
		UpdatedAt: now,
		done:      make(chan struct{}),
	}
}

// SetFiles attaches the pending file jobs.
func (r *Run) SetFiles(files []*FileJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = files
	r.UpdatedAt = time.Now()
}

// Complete finishes the run with its report.
func (r *Run) Complete(report *Report) {
	r.finish(RunCompleted, report, "")
}

// Fail finishes the run after a setup fault.
func (r *Run) Fail(err error) {
	r.finish(RunFailed, nil, err.Error())
}

func (r *Run) finish(status RunStatus, report *Report, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != RunRunning {
		return
	}
	now := time.Now()
	r.Status = status
	r.report = report
	r.err = errMsg
	r.FinishedAt = now
	r.UpdatedAt = now
	close(r.done)
}

// Done is closed when the run finishes.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// RunSnapshot is a read-only, JSON-safe copy of run state.
type RunSnapshot struct {
	ID         string         `json:"run_id"`
	Status     RunStatus      `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Error      string         `json:"error,omitempty"`
	Files      []FileSnapshot `json:"files"`
	Report     *Report        `json:"report,omitempty"`
}

func (r *Run) Snapshot() RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := RunSnapshot{
		ID:        r.ID,
		Status:    r.Status,
		StartedAt: r.StartedAt,
		Error:     r.err,
		Files:     make([]FileSnapshot, 0, len(r.files)),
		Report:    r.report,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		snap.FinishedAt = &finished
	}
	for _, f := range r.files {
		snap.Files = append(snap.Files, f.Snapshot())
	}
	return snap
}

func (r *Run) updated() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.UpdatedAt
}

func (r *Run) running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status == RunRunning
}

// RunStore is a thread-safe in-memory run registry with TTL eviction.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
	ttl  time.Duration
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{
		runs: make(map[string]*Run),
		ttl:  ttl,
	}
}

func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *RunStore) Get(id string) *Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[id]
}

// Cleanup removes finished runs idle for longer than the TTL.
func (s *RunStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, run := range s.runs {
		if !run.running() && now.Sub(run.updated()) > s.ttl {
			delete(s.runs, id)
		}
	}
}
