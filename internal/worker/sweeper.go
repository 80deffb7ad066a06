package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/localabilities/portal-api/internal/metrics"
	"github.com/localabilities/portal-api/internal/repository"
	"github.com/localabilities/portal-api/internal/service"
)

const sweepBatchSize = 100

// Sweeper removes provisional uploads whose registration never completed,
// both the storage object and the tracking row, and prunes expired
// idempotency keys.
type Sweeper struct {
	uploads     repository.UploadsRepository
	idempotency repository.IdempotencyRepository
	store       service.BlobStore
	recorder    metrics.Recorder
	logger      *slog.Logger

	uploadTTL      time.Duration
	idempotencyTTL time.Duration
	interval       time.Duration
}

func NewSweeper(
	uploads repository.UploadsRepository,
	idempotency repository.IdempotencyRepository,
	store service.BlobStore,
	recorder metrics.Recorder,
	logger *slog.Logger,
	uploadTTL, idempotencyTTL, interval time.Duration,
) *Sweeper {
	return &Sweeper{
		uploads:        uploads,
		idempotency:    idempotency,
		store:          store,
		recorder:       recorder,
		logger:         logger,
		uploadTTL:      uploadTTL,
		idempotencyTTL: idempotencyTTL,
		interval:       interval,
	}
}

// Run sweeps on the configured interval until the context is cancelled. One
// pass runs immediately on start.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	swept := s.SweepUploads(ctx)
	if swept > 0 {
		s.logger.Info("swept expired uploads", "count", swept)
	}

	pruned, err := s.idempotency.DeleteExpired(ctx, time.Now().Add(-s.idempotencyTTL))
	if err != nil {
		s.logger.Warn("prune idempotency keys", "error", err)
	} else if pruned > 0 {
		s.logger.Info("pruned idempotency keys", "count", pruned)
	}
}

// SweepUploads removes one batch of expired unclaimed uploads and returns how
// many were cleaned up. A storage failure keeps the row so the next pass
// retries it.
func (s *Sweeper) SweepUploads(ctx context.Context) int {
	cutoff := time.Now().Add(-s.uploadTTL)
	expired, err := s.uploads.ListExpired(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.logger.Warn("list expired uploads", "error", err)
		return 0
	}

	swept := 0
	for _, upload := range expired {
		if err := s.store.Remove(ctx, []string{upload.StoragePath}); err != nil {
			s.logger.Warn("remove expired upload object", "path", upload.StoragePath, "error", err)
			continue
		}
		if err := s.uploads.Delete(ctx, upload.ID); err != nil {
			s.logger.Warn("delete expired upload row", "id", upload.ID, "error", err)
			continue
		}
		swept++
	}

	if swept > 0 {
		s.recorder.RecordSweptUploads(swept)
	}
	return swept
}
