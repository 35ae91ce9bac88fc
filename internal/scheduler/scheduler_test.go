package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRecomputer records the frequencies it was asked to recompute
type fakeRecomputer struct {
	mu    sync.Mutex
	calls []domain.NotificationFrequency
	err   error
}

func (f *fakeRecomputer) RecomputeDue(ctx context.Context, frequency domain.NotificationFrequency) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("round has no deadline")
	}
	f.calls = append(f.calls, frequency)
	return 1, f.err
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	s.Stop()
}

func TestRegisterTracking(t *testing.T) {
	s := New(zerolog.Nop())
	rec := &fakeRecomputer{}

	require.NoError(t, RegisterTracking(s, rec, time.Minute))

	entries := s.cron.Entries()
	require.Len(t, entries, 3)

	// run every registered wrapper directly instead of waiting for the clock
	for _, e := range entries {
		e.Job.Run()
	}

	assert.ElementsMatch(t, []domain.NotificationFrequency{
		domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly,
	}, rec.calls)
}

func TestTrackingJob_Run(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		rec := &fakeRecomputer{}
		job := NewTrackingJob(rec, domain.FrequencyWeekly, time.Minute, zerolog.Nop())

		assert.Equal(t, "tracking_weekly", job.Name())
		assert.NoError(t, job.Run())
		assert.Equal(t, []domain.NotificationFrequency{domain.FrequencyWeekly}, rec.calls)
	})

	t.Run("failure is reported", func(t *testing.T) {
		rec := &fakeRecomputer{err: errors.New("db down")}
		job := NewTrackingJob(rec, domain.FrequencyDaily, time.Minute, zerolog.Nop())

		err := job.Run()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	rec := &fakeRecomputer{}

	err := s.RunNow(NewTrackingJob(rec, domain.FrequencyMonthly, time.Minute, zerolog.Nop()))

	assert.NoError(t, err)
	assert.Len(t, rec.calls, 1)
}

func TestCatchUpTracking(t *testing.T) {
	s := New(zerolog.Nop())

	rec := &fakeRecomputer{}
	require.NoError(t, CatchUpTracking(s, rec, time.Minute))
	assert.ElementsMatch(t, []domain.NotificationFrequency{
		domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly,
	}, rec.calls)

	// one failing frequency does not stop the others
	failing := &fakeRecomputer{err: errors.New("db down")}
	err := CatchUpTracking(s, failing, time.Minute)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tracking round monthly")
	assert.Len(t, failing.calls, 3)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("every now and then", NewTrackingJob(&fakeRecomputer{}, domain.FrequencyDaily, time.Minute, zerolog.Nop()))
	assert.Error(t, err)
}
