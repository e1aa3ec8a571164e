package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"

	"github.com/layomi72/clip-factory-pro/pkg/database"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// Job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ClipJob is one persisted clip-cutting request. Only the time range and
// source survive analysis; scores and features are recomputed on demand.
type ClipJob struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	SourceURL    string    `json:"sourceUrl"`
	StreamID     *string   `json:"streamId,omitempty"`
	StartTime    float64   `json:"startTime"`
	EndTime      float64   `json:"endTime"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// QueueResult reports the outcome of one enqueue attempt within a batch.
type QueueResult struct {
	Index  int    `json:"index"`
	JobID  string `json:"jobId,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Store persists clip jobs in Postgres. Enqueueing is at-least-once: each
// insert is retried with backoff, and a failure on one clip never stops
// the rest of the batch.
type Store struct {
	db     database.PostgresConn
	logger logging.Logger
	retry  retrypolicy.RetryPolicy[string]
}

// NewStore creates a job store around an existing connection.
func NewStore(db database.PostgresConn, logger logging.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		retry: retrypolicy.NewBuilder[string]().
			WithBackoff(100*time.Millisecond, 2*time.Second).
			WithMaxRetries(3).
			Build(),
	}
}

// Enqueue inserts a single pending job and returns its id.
func (s *Store) Enqueue(ctx context.Context, job ClipJob) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processing_jobs (id, user_id, source_video_url, stream_id, clip_start_time, clip_end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		id, job.UserID, job.SourceURL, job.StreamID, job.StartTime, job.EndTime, StatusPending,
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue clip job: %w", err)
	}
	return id, nil
}

// EnqueueBatch inserts every job, retrying each insert independently, and
// returns one result per input in input order.
func (s *Store) EnqueueBatch(ctx context.Context, batch []ClipJob) []QueueResult {
	results := make([]QueueResult, len(batch))
	for i, job := range batch {
		jobID, err := failsafe.With(s.retry).WithContext(ctx).Get(func() (string, error) {
			return s.Enqueue(ctx, job)
		})
		if err != nil {
			s.logger.WithError(err).WithFields(logging.Fields{
				"index":      i,
				"start_time": job.StartTime,
				"end_time":   job.EndTime,
			}).Error("Failed to enqueue clip job")
			results[i] = QueueResult{Index: i, Status: StatusFailed, Error: err.Error()}
			continue
		}
		results[i] = QueueResult{Index: i, JobID: jobID, Status: "queued"}
	}
	return results
}

// GetJob loads one job by id.
func (s *Store) GetJob(ctx context.Context, id string) (ClipJob, error) {
	var job ClipJob
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, source_video_url, stream_id, clip_start_time, clip_end_time, status, COALESCE(error_message, ''), created_at, updated_at
		FROM processing_jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.UserID, &job.SourceURL, &job.StreamID, &job.StartTime, &job.EndTime, &job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return ClipJob{}, fmt.Errorf("job %s not found", id)
	}
	if err != nil {
		return ClipJob{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	return job, nil
}

// ListByUser returns a user's most recent jobs.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]ClipJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, source_video_url, stream_id, clip_start_time, clip_end_time, status, COALESCE(error_message, ''), created_at, updated_at
		FROM processing_jobs WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []ClipJob
	for rows.Next() {
		var job ClipJob
		if err := rows.Scan(&job.ID, &job.UserID, &job.SourceURL, &job.StreamID, &job.StartTime, &job.EndTime, &job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ClaimPending atomically moves up to limit pending jobs to processing
// and returns them. SKIP LOCKED keeps concurrent workers from claiming
// the same rows.
func (s *Store) ClaimPending(ctx context.Context, limit int) ([]ClipJob, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		UPDATE processing_jobs SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM processing_jobs WHERE status = $2
			ORDER BY created_at LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, user_id, source_video_url, stream_id, clip_start_time, clip_end_time, status, COALESCE(error_message, ''), created_at, updated_at`,
		StatusProcessing, StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var claimed []ClipJob
	for rows.Next() {
		var job ClipJob
		if err := rows.Scan(&job.ID, &job.UserID, &job.SourceURL, &job.StreamID, &job.StartTime, &job.EndTime, &job.Status, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan claimed job: %w", err)
		}
		claimed = append(claimed, job)
	}
	return claimed, rows.Err()
}

// UpdateStatus transitions a job, recording the failure message if any.
func (s *Store) UpdateStatus(ctx context.Context, id, status, errorMessage string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE processing_jobs SET status = $2, error_message = NULLIF($3, ''), updated_at = NOW() WHERE id = $1`,
		id, status, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("job %s not found", id)
	}
	return nil
}
