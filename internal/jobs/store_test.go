package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewStore(db, logging.NewLogger())
	// No backoff delays in tests.
	store.retry = retrypolicy.NewBuilder[string]().WithMaxRetries(1).Build()
	return store, mock
}

func TestEnqueueInsertsPendingJob(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("INSERT INTO processing_jobs").
		WithArgs(sqlmock.AnyArg(), "user-1", "https://cdn/v.mp4", nil, 49.0, 52.0, StatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := store.Enqueue(context.Background(), ClipJob{
		UserID:    "user-1",
		SourceURL: "https://cdn/v.mp4",
		StartTime: 49,
		EndTime:   52,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated job id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnqueueBatchContinuesPastFailures(t *testing.T) {
	store, mock := newTestStore(t)

	// First clip fails on the initial attempt and its retry; the second
	// clip must still be attempted and succeed.
	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO processing_jobs").WillReturnError(boom)
	mock.ExpectExec("INSERT INTO processing_jobs").WillReturnError(boom)
	mock.ExpectExec("INSERT INTO processing_jobs").WillReturnResult(sqlmock.NewResult(1, 1))

	results := store.EnqueueBatch(context.Background(), []ClipJob{
		{UserID: "u", SourceURL: "s", StartTime: 0, EndTime: 5},
		{UserID: "u", SourceURL: "s", StartTime: 10, EndTime: 15},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusFailed || results[0].Error == "" {
		t.Fatalf("expected first clip to fail with message, got %+v", results[0])
	}
	if results[1].Status != "queued" || results[1].JobID == "" {
		t.Fatalf("expected second clip queued, got %+v", results[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetJob(t *testing.T) {
	store, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "source_video_url", "stream_id", "clip_start_time", "clip_end_time", "status", "error_message", "created_at", "updated_at",
	}).AddRow("job-1", "user-1", "https://cdn/v.mp4", nil, 49.0, 52.0, StatusPending, "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM processing_jobs WHERE id").
		WithArgs("job-1").
		WillReturnRows(rows)

	job, err := store.GetJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != "job-1" || job.Status != StatusPending || job.StartTime != 49 {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestUpdateStatusMissingJob(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("UPDATE processing_jobs").
		WithArgs("missing", StatusCompleted, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.UpdateStatus(context.Background(), "missing", StatusCompleted, ""); err == nil {
		t.Fatal("expected error for unknown job id")
	}
}

func TestListByUser(t *testing.T) {
	store, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "source_video_url", "stream_id", "clip_start_time", "clip_end_time", "status", "error_message", "created_at", "updated_at",
	}).
		AddRow("job-2", "user-1", "https://cdn/v.mp4", nil, 10.0, 18.0, StatusCompleted, "", now, now).
		AddRow("job-1", "user-1", "https://cdn/v.mp4", nil, 49.0, 52.0, StatusFailed, "cut failed", now, now)

	mock.ExpectQuery("SELECT (.+) FROM processing_jobs WHERE user_id").
		WithArgs("user-1", 50).
		WillReturnRows(rows)

	jobs, err := store.ListByUser(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[1].ErrorMessage != "cut failed" {
		t.Fatalf("expected error message preserved, got %q", jobs[1].ErrorMessage)
	}
}
