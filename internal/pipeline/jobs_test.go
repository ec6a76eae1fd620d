package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestNewJob(t *testing.T) {
	job := NewJob(Request{CompanyName: "Acme", JobRoles: "SREs"})
	if job.ID == "" {
		t.Fatal("expected a job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.CreatedAt.IsZero() || !job.CreatedAt.Equal(job.UpdatedAt) {
		t.Errorf("expected CreatedAt == UpdatedAt, got %v and %v", job.CreatedAt, job.UpdatedAt)
	}

	other := NewJob(Request{})
	if other.ID == job.ID {
		t.Errorf("expected unique IDs, got %q twice", job.ID)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusResearching, "researching company"},
		{StatusGenerating, "writing proposal copy"},
		{StatusRendering, "rendering document"},
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

	job.Complete("out/proposal.docx")
	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "done" {
		t.Errorf("expected completed/done, got %q/%q", snap.Status, snap.Phase)
	}
	if snap.OutputPath != "out/proposal.docx" {
		t.Errorf("expected output path, got %q", snap.OutputPath)
	}
}

func TestJob_Fail(t *testing.T) {
	job := &Job{ID: "test-fail", Status: StatusRendering, UpdatedAt: time.Now()}
	job.Fail("rendering", errors.New("disk full"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if snap.Phase != "rendering" {
		t.Errorf("expected phase %q, got %q", "rendering", snap.Phase)
	}
	if len(snap.Errors) != 1 || snap.Errors[0] != "disk full" {
		t.Errorf("expected [disk full], got %v", snap.Errors)
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("research: search blocked")
	job.AddError("fallback prompt: timeout")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "research: search blocked" {
		t.Errorf("expected first error %q, got %q", "research: search blocked", snap.Errors[0])
	}
}

func TestJob_SetContent(t *testing.T) {
	job := &Job{ID: "content-test", Request: Request{CompanyName: "Acme", JobRoles: "SREs"}}
	job.SetContent("Acme should partner.", "High", "", 9)

	if job.Content() != "Acme should partner." {
		t.Errorf("expected content, got %q", job.Content())
	}
	snap := job.Snapshot()
	if snap.ResearchQuality != "High" || snap.SourcesAnalyzed != 9 {
		t.Errorf("expected High/9, got %q/%d", snap.ResearchQuality, snap.SourcesAnalyzed)
	}
	if snap.CompanyName != "Acme" || snap.JobRoles != "SREs" {
		t.Errorf("expected request fields in snapshot, got %+v", snap)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
