package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cinehall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCanceller struct {
	mu    sync.Mutex
	ids   []int64
	err   error
	calls int
}

func (f *fakeCanceller) CancelExpired(ctx context.Context, now time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.ids, f.err
}

func (f *fakeCanceller) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func TestSweepPublishesExpiredEvents(t *testing.T) {
	store := &fakeCanceller{ids: []int64{3, 7}}
	pub := &recordingPublisher{}

	job := NewExpirationJob(store, pub, time.Minute)
	job.sweep(context.Background())

	require.Len(t, pub.subjects, 2)
	assert.Equal(t, models.EventReservationExpired, pub.subjects[0])
	assert.Equal(t, models.EventReservationExpired, pub.subjects[1])
}

func TestSweepWithoutPublisher(t *testing.T) {
	store := &fakeCanceller{ids: []int64{1}}

	job := NewExpirationJob(store, nil, time.Minute)
	job.sweep(context.Background())

	assert.Equal(t, 1, store.callCount())
}

func TestSweepStoreErrorIsNotFatal(t *testing.T) {
	store := &fakeCanceller{err: errors.New("connection refused")}
	pub := &recordingPublisher{}

	job := NewExpirationJob(store, pub, time.Minute)
	job.sweep(context.Background())

	// The failure is left for the next tick; nothing was published.
	assert.Empty(t, pub.subjects)
}

func TestStartRunsImmediateSweepAndStops(t *testing.T) {
	store := &fakeCanceller{}

	job := NewExpirationJob(store, nil, 10*time.Millisecond)
	job.Start(context.Background())

	assert.Eventually(t, func() bool {
		return store.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	job.Stop()
	calls := store.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, store.callCount(), calls+1)
}
