package pipeline

import (
	"testing"
	"time"

	"github.com/figtools/compdiff/internal/report"
)

func TestNewJob_StartsQueued(t *testing.T) {
	job := NewJob("file-key", "1:2", "src/components")
	if job.ID == "" {
		t.Error("expected a generated job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected queued, got %s", job.Status)
	}
	other := NewJob("file-key", "1:2", "src/components")
	if job.ID == other.ID {
		t.Error("expected unique job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("file-key", "", "")

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusFetching, "fetching document"},
		{StatusAnalyzing, "classifying and matching"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("file-key", "", "")
	job.AddError("document source: status 503")
	job.AddError("analyze: bad partition")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "document source: status 503" {
		t.Errorf("unexpected first error %q", snap.Progress.Errors[0])
	}
}

func TestJob_SnapshotHasEmptyErrorSlice(t *testing.T) {
	snap := NewJob("file-key", "", "").Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected empty error slice, not nil")
	}
}

func TestJob_SetCountsAndReport(t *testing.T) {
	job := NewJob("file-key", "", "")
	job.SetCounts(10, 4, 2, 3, 1)

	snap := job.Snapshot()
	if snap.Progress.NodesVisited != 10 || snap.Progress.ComponentsFound != 4 ||
		snap.Progress.ScreensFound != 2 || snap.Progress.Existing != 3 || snap.Progress.New != 1 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}

	if job.Report() != nil {
		t.Error("expected no report before completion")
	}
	rep := &report.Report{RegistryChecked: true}
	job.SetReport(rep)
	if job.Report() != rep {
		t.Error("expected attached report back")
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	job := NewJob("file-key", "", "")
	store.Put(job)

	if store.Get(job.ID) == nil {
		t.Fatal("expected job before TTL")
	}
	time.Sleep(20 * time.Millisecond)
	store.Cleanup()
	if store.Get(job.ID) != nil {
		t.Error("expected job evicted after TTL")
	}
}
