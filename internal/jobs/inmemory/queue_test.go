package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jcodina/facturaflow/internal/jobs"
)

// waitForStatus polls the store until the job leaves the pending/running
// states or the deadline passes.
func waitForStatus(t *testing.T, store *Store, jobID string) *jobs.IngestRunJob {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s never reached a terminal status", jobID)
		case <-time.After(5 * time.Millisecond):
		}

		job, err := store.GetJob(context.Background(), jobID)
		if err != nil {
			continue
		}
		if job.Status == jobs.JobStatusCompleted || job.Status == jobs.JobStatusFailed {
			return job
		}
	}
}

func TestQueueProcessesJobToCompletion(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, store)
	defer queue.Close()

	handled := make(chan string, 1)
	handler := func(ctx context.Context, job jobs.Job) error {
		runJob := job.(*jobs.IngestRunJob)
		runJob.ProcessedCount = 3
		handled <- job.GetID()
		return nil
	}

	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.IngestRunJob{Quarter: "q2", Year: 2024}
	if err := queue.PublishIngestRun(context.Background(), job); err != nil {
		t.Fatalf("PublishIngestRun() error = %v", err)
	}
	if job.JobID == "" {
		t.Fatal("PublishIngestRun() did not assign a job ID")
	}

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was never invoked")
	}

	final := waitForStatus(t, store, job.JobID)
	if final.Status != jobs.JobStatusCompleted {
		t.Errorf("Status = %q, want %q", final.Status, jobs.JobStatusCompleted)
	}
	if final.ProcessedCount != 3 {
		t.Errorf("ProcessedCount = %d, want 3", final.ProcessedCount)
	}
	if final.StartedAt == nil || final.CompletedAt == nil {
		t.Error("StartedAt and CompletedAt must be set on a finished job")
	}
}

func TestQueueRecordsFailureWithoutRetry(t *testing.T) {
	store := NewStore()
	queue := NewQueue(10, store)
	defer queue.Close()

	calls := 0
	handler := func(ctx context.Context, job jobs.Job) error {
		calls++
		return errors.New("authorization required")
	}

	if err := queue.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.IngestRunJob{Quarter: "all"}
	if err := queue.PublishIngestRun(context.Background(), job); err != nil {
		t.Fatalf("PublishIngestRun() error = %v", err)
	}

	final := waitForStatus(t, store, job.JobID)
	if final.Status != jobs.JobStatusFailed {
		t.Errorf("Status = %q, want %q", final.Status, jobs.JobStatusFailed)
	}
	if final.Error != "authorization required" {
		t.Errorf("Error = %q, want the handler error", final.Error)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1 (no retry)", calls)
	}
}

func TestQueueRejectsPublishAfterClose(t *testing.T) {
	queue := NewQueue(1, NewStore())
	if err := queue.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := queue.PublishIngestRun(context.Background(), &jobs.IngestRunJob{})
	if err == nil {
		t.Error("PublishIngestRun() after Close() = nil, want error")
	}
}

func TestStoreSaveGetList(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveJob(ctx, &jobs.IngestRunJob{}); err == nil {
		t.Error("SaveJob() with empty ID = nil, want error")
	}
	if _, err := store.GetJob(ctx, "missing"); err == nil {
		t.Error("GetJob() for unknown ID = nil, want error")
	}

	base := time.Now()
	seed := []*jobs.IngestRunJob{
		{JobID: "j1", Status: jobs.JobStatusCompleted, CreatedAt: base.Add(-2 * time.Minute)},
		{JobID: "j2", Status: jobs.JobStatusFailed, CreatedAt: base.Add(-time.Minute)},
		{JobID: "j3", Status: jobs.JobStatusCompleted, CreatedAt: base},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", j.JobID, err)
		}
	}

	all, err := store.ListJobs(ctx, jobs.JobFilter{})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(ListJobs()) = %d, want 3", len(all))
	}
	if all[0].JobID != "j3" || all[2].JobID != "j1" {
		t.Errorf("ListJobs() order = [%s %s %s], want newest first", all[0].JobID, all[1].JobID, all[2].JobID)
	}

	completed, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs(completed) error = %v", err)
	}
	if len(completed) != 2 {
		t.Errorf("len(completed) = %d, want 2", len(completed))
	}

	limited, err := store.ListJobs(ctx, jobs.JobFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListJobs(limit/offset) error = %v", err)
	}
	if len(limited) != 1 || limited[0].JobID != "j2" {
		t.Errorf("ListJobs(limit 1 offset 1) = %v, want [j2]", limited)
	}

	// Stored state must not alias the caller's struct.
	seed[2].Status = jobs.JobStatusFailed
	got, err := store.GetJob(ctx, "j3")
	if err != nil {
		t.Fatalf("GetJob(j3) error = %v", err)
	}
	if got.Status != jobs.JobStatusCompleted {
		t.Errorf("stored job mutated through caller reference: Status = %q", got.Status)
	}
}
