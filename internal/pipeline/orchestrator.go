package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/chat2md/internal/chunker"
	"github.com/dgallion1/chat2md/internal/config"
	"github.com/dgallion1/chat2md/internal/document"
	"github.com/dgallion1/chat2md/internal/ledger"
	"github.com/dgallion1/chat2md/internal/output"
	"github.com/dgallion1/chat2md/internal/parser"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ErrRunActive is returned when a run is requested while another is in flight.
var ErrRunActive = errors.New("a run is already in progress")

// Report summarizes one finished run.
type Report struct {
	RunID            string         `json:"run_id"`
	Discovered       int            `json:"discovered"`
	AlreadyProcessed int            `json:"already_processed"`
	Pending          int            `json:"pending"`
	Logged           int            `json:"logged"`
	Failed           int            `json:"failed"`
	Documents        int            `json:"documents"`
	FailedDocuments  int            `json:"failed_documents"`
	ChunksSkipped    int            `json:"chunks_skipped"`
	TOCEntries       int            `json:"toc_entries"`
	TOCWritten       bool           `json:"toc_written"`
	TOCError         string         `json:"toc_error,omitempty"`
	DurationMs       int64          `json:"duration_ms"`
	Files            []FileSnapshot `json:"files"`
}

// Orchestrator manages runs over the input directory.
type Orchestrator struct {
	cfg     config.Config
	sources *SourceReader
	writer  *output.Writer
	ledger  *ledger.Ledger
	worker  *Worker
	runs    *RunStore
	log     *slog.Logger

	mu     sync.Mutex
	active *Run

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipeline over fsys. The ledger and process log
// always live on the OS filesystem since they are shared across processes.
func NewOrchestrator(cfg config.Config, gen Generator, fsys afero.Fs, log *slog.Logger) (*Orchestrator, error) {
	sources, err := NewSourceReader(fsys, cfg.InputDir, cfg.Pattern, cfg.OutputDir,
		parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	writer := output.NewWriter(fsys, cfg.OutputDir, cfg.TOCFile, log)
	led := ledger.New(cfg.ProgressPath(), log)
	plog := ledger.NewProcessLog(cfg.ProcessLogPath())
	chunkCfg := chunker.Config{
		Threshold:    cfg.ChunkThreshold,
		MinLength:    cfg.MinChunkLength,
		TrivialLimit: cfg.TrivialLimit,
	}

	return &Orchestrator{
		cfg:     cfg,
		sources: sources,
		writer:  writer,
		ledger:  led,
		worker:  NewWorker(gen, sources, writer, led, plog, log, chunkCfg, cfg.DefaultTags),
		runs:    NewRunStore(cfg.RunTTL),
		log:     log,
	}, nil
}

// Start launches the run registry cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				o.runs.Cleanup()
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for any background run to finish.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Run performs one pass synchronously.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	run, err := o.begin()
	if err != nil {
		return nil, err
	}
	defer o.end(run)
	return o.execute(ctx, run)
}

// Submit starts a pass in the background and returns immediately. The run
// does not inherit ctx cancellation.
func (o *Orchestrator) Submit(ctx context.Context) (*Run, error) {
	run, err := o.begin()
	if err != nil {
		return nil, err
	}
	runCtx := context.WithoutCancel(ctx)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.end(run)
		if _, err := o.execute(runCtx, run); err != nil {
			o.log.Error("run failed", "run_id", run.ID, "error", err)
		}
	}()
	return run, nil
}

// GetRun returns a run by ID.
func (o *Orchestrator) GetRun(id string) *Run {
	return o.runs.Get(id)
}

// Active returns the in-flight run, if any.
func (o *Orchestrator) Active() *Run {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// Writer returns the document writer for read-only listing by API handlers.
func (o *Orchestrator) Writer() *output.Writer {
	return o.writer
}

// Ledger returns the progress ledger.
func (o *Orchestrator) Ledger() *ledger.Ledger {
	return o.ledger
}

// SaveSource stores an uploaded transcript so the next run picks it up.
func (o *Orchestrator) SaveSource(name string, data []byte) (string, error) {
	return o.sources.Save(name, data)
}

// Pending lists matched sources that the ledger does not yet contain.
func (o *Orchestrator) Pending() ([]Source, int, error) {
	all, err := o.sources.List()
	if err != nil {
		return nil, 0, err
	}
	done := o.ledger.Processed()
	pending := make([]Source, 0, len(all))
	for _, src := range all {
		if !done[src.Name] {
			pending = append(pending, src)
		}
	}
	return pending, len(all) - len(pending), nil
}

func (o *Orchestrator) begin() (*Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return nil, ErrRunActive
	}
	run := NewRun()
	o.active = run
	o.runs.Put(run)
	return run, nil
}

func (o *Orchestrator) end(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == run {
		o.active = nil
	}
}

func (o *Orchestrator) execute(ctx context.Context, run *Run) (*Report, error) {
	start := time.Now()
	log := o.log.With("run_id", run.ID)

	if err := o.writer.EnsureRoot(); err != nil {
		run.Fail(err)
		return nil, err
	}
	pending, skipped, err := o.Pending()
	if err != nil {
		run.Fail(err)
		return nil, err
	}

	jobs := make([]*FileJob, len(pending))
	for i, src := range pending {
		jobs[i] = NewFileJob(src.Name)
	}
	run.SetFiles(jobs)
	log.Info("run started", "pending", len(pending), "already_processed", skipped, "workers", o.cfg.WorkerCount)

	results := make([][]document.TOCEntry, len(pending))
	var g errgroup.Group
	g.SetLimit(o.cfg.WorkerCount)
	for i, src := range pending {
		g.Go(func() error {
			results[i] = o.worker.Process(ctx, src, jobs[i])
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		RunID:            run.ID,
		Discovered:       len(pending) + skipped,
		AlreadyProcessed: skipped,
		Pending:          len(pending),
		Files:            make([]FileSnapshot, 0, len(jobs)),
	}
	for _, job := range jobs {
		snap := job.Snapshot()
		report.Files = append(report.Files, snap)
		switch snap.Status {
		case StatusLogged:
			report.Logged++
			report.Documents += snap.Progress.Documents
		case StatusFailed:
			report.Failed++
			report.FailedDocuments += snap.Progress.Documents
		}
		report.ChunksSkipped += snap.Progress.ChunksSkipped
	}

	if err := o.writeTOC(pending, results, report); err != nil {
		log.Error("toc write failed", "error", err)
		report.TOCError = err.Error()
	}

	report.DurationMs = time.Since(start).Milliseconds()
	run.Complete(report)
	log.Info("run finished",
		"logged", report.Logged,
		"failed", report.Failed,
		"documents", report.Documents,
		"duration_ms", report.DurationMs,
	)
	return report, nil
}

func (o *Orchestrator) writeTOC(pending []Source, results [][]document.TOCEntry, report *Report) error {
	var entries []document.TOCEntry
	switch o.cfg.TOCScope {
	case config.TOCScopeRun:
		if len(pending) == 0 {
			return nil
		}
		for _, r := range results {
			entries = append(entries, r...)
		}
	default:
		scanned, err := o.writer.ScanEntries()
		if err != nil {
			return err
		}
		entries = scanned
	}

	if err := o.writer.WriteTOC(entries); err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	report.TOCEntries = len(entries)
	report.TOCWritten = true
	return nil
}
