package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/layomi72/clip-factory-pro/pkg/database"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// Janitor purges terminal jobs past their retention window so the queue
// table stays small. Runs in the background until stopped.
type Janitor struct {
	db       database.PostgresConn
	logger   logging.Logger
	interval time.Duration
	maxAge   time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewJanitor creates a janitor that sweeps every interval, deleting
// completed and failed jobs older than maxAge.
func NewJanitor(db database.PostgresConn, logger logging.Logger, interval, maxAge time.Duration) *Janitor {
	return &Janitor{
		db:       db,
		logger:   logger,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-j.stopCh:
				return
			case <-ticker.C:
				j.sweep()
			}
		}
	}()

	j.logger.WithFields(logging.Fields{
		"interval": j.interval,
		"max_age":  j.maxAge,
	}).Info("Job janitor started")
}

// Stop halts the sweep loop and waits for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	close(j.stopCh)
	j.wg.Wait()
	j.logger.Info("Job janitor stopped")
}

func (j *Janitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := j.db.ExecContext(ctx, `
		DELETE FROM processing_jobs
		WHERE status IN ($1, $2) AND updated_at < NOW() - $3::interval`,
		StatusCompleted, StatusFailed, j.maxAge.String(),
	)
	if err != nil {
		j.logger.WithError(err).Error("Job sweep failed")
		return
	}
	if deleted, err := res.RowsAffected(); err == nil && deleted > 0 {
		j.logger.WithField("deleted", deleted).Info("Purged expired jobs")
	}
}
