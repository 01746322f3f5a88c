package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	models "github.com/phillip/eventmate-go/models"
	stores "github.com/phillip/eventmate-go/stores"
)

// ReconcileJob backfills owner join records for events whose create +
// auto-join pair lost its second write. Creating an event and joining
// the creator are two independent inserts, so a crash between them
// leaves an event without its owner in the participant list.
type ReconcileJob struct {
	stores *stores.Stores
	logger *zap.Logger
	ticker *time.Ticker
	done   chan bool
}

func NewReconcileJob(st *stores.Stores, logger *zap.Logger, interval time.Duration) *ReconcileJob {
	return &ReconcileJob{
		stores: st,
		logger: logger,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the reconcile loop, running one pass immediately.
func (j *ReconcileJob) Start() {
	j.logger.Info("reconcile job started")

	go func() {
		j.reconcile()

		for {
			select {
			case <-j.ticker.C:
				j.reconcile()
			case <-j.done:
				j.logger.Info("reconcile job stopped")
				return
			}
		}
	}()
}

// Stop stops the reconcile loop.
func (j *ReconcileJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *ReconcileJob) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	upcoming, err := j.stores.Events.Upcoming(ctx, stores.EventFilter{From: time.Now()})
	if err != nil {
		j.logger.Error("reconcile pass failed", zap.Error(err))
		return
	}

	repaired := 0
	for _, event := range upcoming {
		joined, err := j.stores.Joins.Exists(ctx, event.ID, event.UserEmail)
		if err != nil {
			j.logger.Error("owner join check failed", zap.String("eventId", event.ID.Hex()), zap.Error(err))
			continue
		}
		if joined {
			continue
		}

		record := models.JoinRecord{
			EventID:      event.ID,
			UserEmail:    event.UserEmail,
			UserName:     event.UserName,
			UserPhotoURL: event.UserPhotoURL,
			JoinedAt:     event.CreatedAt,
		}
		if err := j.stores.Joins.Insert(ctx, &record); err != nil {
			// A racing live join winning the insert is fine.
			if errors.Is(err, stores.ErrDuplicateJoin) {
				continue
			}
			j.logger.Error("owner join backfill failed", zap.String("eventId", event.ID.Hex()), zap.Error(err))
			continue
		}
		repaired++
	}

	if repaired > 0 {
		j.logger.Info("backfilled owner join records", zap.Int("count", repaired))
	}
}
