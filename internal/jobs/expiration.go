package jobs

import (
	"context"
	"log/slog"
	"time"

	"cinehall/internal/metrics"
	"cinehall/internal/models"
)

// ExpiredCanceller is the one store operation the sweeper needs.
type ExpiredCanceller interface {
	CancelExpired(ctx context.Context, now time.Time) ([]int64, error)
}

// EventPublisher mirrors the messaging client; nil disables publishing.
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

// ExpirationJob is the background sweeper that reclaims seats from
// abandoned reservations. It bulk-cancels pending reservations whose
// hold deadline has passed. The availability checker already treats
// those rows as free, so the sweeper only restores status visibility;
// exclusivity never depends on it having run recently.
type ExpirationJob struct {
	store    ExpiredCanceller
	events   EventPublisher
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewExpirationJob(store ExpiredCanceller, events EventPublisher, interval time.Duration) *ExpirationJob {
	return &ExpirationJob{
		store:    store,
		events:   events,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the periodic sweep. An initial sweep runs immediately so
// a restarted worker catches up without waiting a full interval.
func (j *ExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting reservation expiration job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Reservation expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job.
func (j *ExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// sweep performs one batch cancellation. Failures are logged and left
// for the next tick; they are never fatal and never surfaced to users.
func (j *ExpirationJob) sweep(ctx context.Context) {
	now := time.Now()

	ids, err := j.store.CancelExpired(ctx, now)
	if err != nil {
		metrics.SweepErrors.Inc()
		slog.Error("Failed to cancel expired reservations, will retry next tick", "error", err)
		return
	}

	if len(ids) == 0 {
		slog.Debug("No expired reservations found")
		return
	}

	metrics.ReservationsExpired.Add(float64(len(ids)))
	slog.Info("Cancelled expired reservations", "count", len(ids))

	if j.events == nil {
		return
	}
	for _, id := range ids {
		event := models.ReservationExpiredEvent{
			ReservationID: id,
			Timestamp:     now,
		}
		if err := j.events.Publish(models.EventReservationExpired, event); err != nil {
			slog.Error("Failed to publish reservation expired event",
				"error", err,
				"reservation_id", id)
		}
	}
}
