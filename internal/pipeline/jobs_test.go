package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestFileJob_StateTransitions(t *testing.T) {
	job := NewFileJob("chat.md")
	if job.Status != StatusPending {
		t.Fatalf("expected pending, got %q", job.Status)
	}

	for _, status := range []FileStatus{
		StatusChunking,
		StatusGenerating,
		StatusExtracting,
		StatusClassifying,
		StatusAggregating,
		StatusLogged,
	} {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(status)

		if job.Status != status {
			t.Errorf("expected status %q, got %q", status, job.Status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
	}
}

func TestFileJob_TerminalIsFinal(t *testing.T) {
	job := NewFileJob("chat.md")
	job.SetStatus(StatusFailed)
	job.SetStatus(StatusLogged)
	if job.Status != StatusFailed {
		t.Errorf("failed job should stay failed, got %q", job.Status)
	}
	if !StatusLogged.Terminal() || StatusGenerating.Terminal() {
		t.Error("unexpected Terminal() result")
	}
}

func TestFileJob_Counters(t *testing.T) {
	job := NewFileJob("chat.md")
	job.SetTotalChunks(3)
	job.ChunkDone(false)
	job.ChunkDone(true)
	job.AddSections(4)
	job.AddDocument()
	job.AddDocument()

	snap := job.Snapshot()
	p := snap.Progress
	if p.TotalChunks != 3 || p.ChunksProcessed != 2 || p.ChunksSkipped != 1 {
		t.Errorf("unexpected chunk counters: %+v", p)
	}
	if p.Sections != 4 || p.Documents != 2 {
		t.Errorf("unexpected output counters: %+v", p)
	}
}

func TestFileJob_SnapshotErrorsNeverNil(t *testing.T) {
	job := NewFileJob("chat.md")
	if snap := job.Snapshot(); snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}

	job.AddError("boom")
	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "boom" {
		t.Errorf("unexpected errors: %v", snap.Progress.Errors)
	}

	// Later errors do not leak into an earlier snapshot.
	job.AddError("again")
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("snapshot should be detached, got %v", snap.Progress.Errors)
	}
}

func TestRun_Lifecycle(t *testing.T) {
	run := NewRun()
	if run.ID == "" || run.Status != RunRunning {
		t.Fatalf("unexpected new run: %+v", run.Snapshot())
	}
	run.SetFiles([]*FileJob{NewFileJob("a.md")})

	run.Complete(&Report{Logged: 1})
	select {
	case <-run.Done():
	default:
		t.Fatal("expected done channel to be closed")
	}

	snap := run.Snapshot()
	if snap.Status != RunCompleted || snap.FinishedAt == nil || snap.Report.Logged != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Files) != 1 || snap.Files[0].Name != "a.md" {
		t.Errorf("unexpected files: %+v", snap.Files)
	}

	// Finishing twice keeps the first outcome.
	run.Fail(errors.New("late"))
	if run.Snapshot().Status != RunCompleted {
		t.Error("second finish should be ignored")
	}
}

func TestRunStore_PutGet(t *testing.T) {
	store := NewRunStore(time.Hour)
	run := NewRun()
	store.Put(run)

	if got := store.Get(run.ID); got != run {
		t.Error("expected to retrieve the same run pointer")
	}
	if store.Get("missing") != nil {
		t.Error("expected nil for nonexistent run")
	}
}

func TestRunStore_CleanupRemovesExpiredFinishedRuns(t *testing.T) {
	store := NewRunStore(50 * time.Millisecond)

	finished := NewRun()
	finished.Complete(&Report{})
	finished.UpdatedAt = time.Now().Add(-1 * time.Second)
	store.Put(finished)

	active := NewRun()
	active.UpdatedAt = time.Now().Add(-1 * time.Second)
	store.Put(active)

	fresh := NewRun()
	fresh.Complete(&Report{})
	store.Put(fresh)

	store.Cleanup()

	if store.Get(finished.ID) != nil {
		t.Error("expected expired finished run to be removed")
	}
	if store.Get(active.ID) == nil {
		t.Error("running runs must never be evicted")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh run to remain")
	}
}
