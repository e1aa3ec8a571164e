package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/layomi72/clip-factory-pro/internal/processor"
	"github.com/layomi72/clip-factory-pro/internal/storage"
	"github.com/layomi72/clip-factory-pro/pkg/kafka"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// JobStore is the persistence surface the worker needs.
type JobStore interface {
	ClaimPending(ctx context.Context, limit int) ([]ClipJob, error)
	UpdateStatus(ctx context.Context, id, status, errorMessage string) error
}

// Worker drains the job queue: cut the clip, move the rendered file into
// object storage, and mark the job done. Each job is independent; one
// failure never blocks the rest of a batch.
type Worker struct {
	store     JobStore
	processor processor.MediaProcessor
	objects   storage.ObjectStore
	events    kafka.EventPublisher
	logger    logging.Logger

	interval   time.Duration
	batchSize  int
	effects    processor.EffectsConfig
	httpClient *http.Client

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewWorker creates a worker. Events may be nil.
func NewWorker(store JobStore, proc processor.MediaProcessor, objects storage.ObjectStore, events kafka.EventPublisher, logger logging.Logger, interval time.Duration, effects processor.EffectsConfig) *Worker {
	return &Worker{
		store:      store,
		processor:  proc,
		objects:    objects,
		events:     events,
		logger:     logger,
		interval:   interval,
		batchSize:  10,
		effects:    effects,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		stopCh:     make(chan struct{}),
	}
}

// Start launches the polling loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stopCh:
				return
			case <-ticker.C:
				w.drain()
			}
		}
	}()
	w.logger.WithField("interval", w.interval).Info("Clip worker started")
}

// Stop halts the loop and waits for the in-flight batch.
func (w *Worker) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.logger.Info("Clip worker stopped")
}

func (w *Worker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	claimed, err := w.store.ClaimPending(ctx, w.batchSize)
	if err != nil {
		w.logger.WithError(err).Error("Failed to claim jobs")
		return
	}

	for _, job := range claimed {
		if err := w.ProcessJob(ctx, job); err != nil {
			w.logger.WithError(err).WithField("job_id", job.ID).Error("Clip job failed")
			if updateErr := w.store.UpdateStatus(ctx, job.ID, StatusFailed, err.Error()); updateErr != nil {
				w.logger.WithError(updateErr).WithField("job_id", job.ID).Error("Failed to mark job failed")
			}
			w.publish(kafka.EventClipFailed, job, map[string]interface{}{"error": err.Error()})
			continue
		}
		if err := w.store.UpdateStatus(ctx, job.ID, StatusCompleted, ""); err != nil {
			w.logger.WithError(err).WithField("job_id", job.ID).Error("Failed to mark job completed")
		}
	}
}

// ProcessJob renders one claimed job and uploads the result.
func (w *Worker) ProcessJob(ctx context.Context, job ClipJob) error {
	outputURL, err := w.processor.Cut(ctx, job.SourceURL, job.StartTime, job.EndTime, w.effects)
	if err != nil {
		return fmt.Errorf("cut failed: %w", err)
	}

	data, err := w.fetch(ctx, outputURL)
	if err != nil {
		return fmt.Errorf("fetch rendered clip: %w", err)
	}

	clipID := job.ID
	if clipID == "" {
		clipID = uuid.New().String()
	}
	key := storage.ClipKey(job.UserID, clipID)
	storedURL, err := w.objects.Put(ctx, key, data, "video/mp4")
	if err != nil {
		return fmt.Errorf("store rendered clip: %w", err)
	}

	w.publish(kafka.EventClipProcessed, job, map[string]interface{}{
		"clip_key": key,
		"clip_url": storedURL,
	})
	return nil
}

func (w *Worker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (w *Worker) publish(eventType string, job ClipJob, data map[string]interface{}) {
	if w.events == nil {
		return
	}
	data["job_id"] = job.ID
	data["clip_start_time"] = job.StartTime
	data["clip_end_time"] = job.EndTime
	event := kafka.NewClipEvent(eventType, "lookout", data)
	event.UserID = job.UserID
	event.VideoURL = job.SourceURL
	event.StreamID = job.StreamID
	if err := w.events.PublishClipEvent(event); err != nil {
		w.logger.WithError(err).Warn("Failed to publish clip event")
	}
}
