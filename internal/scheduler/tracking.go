package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// Recomputer re-evaluates the daily simulations tracked at a frequency
type Recomputer interface {
	RecomputeDue(ctx context.Context, frequency domain.NotificationFrequency) (int, error)
}

// checkSchedule is how often each frequency looks for simulations whose
// interval has elapsed. The interval itself is counted per simulation from
// its last run, so a round missed while the process was down is picked up
// by the next check.
const checkSchedule = "@hourly"

var frequencies = []domain.NotificationFrequency{
	domain.FrequencyDaily,
	domain.FrequencyWeekly,
	domain.FrequencyMonthly,
}

// TrackingJob appends a tracking point to every daily simulation of one frequency
type TrackingJob struct {
	recomputer Recomputer
	frequency  domain.NotificationFrequency
	timeout    time.Duration
	log        zerolog.Logger
}

// NewTrackingJob creates a tracking job. A round is aborted after timeout.
func NewTrackingJob(recomputer Recomputer, frequency domain.NotificationFrequency, timeout time.Duration, log zerolog.Logger) *TrackingJob {
	return &TrackingJob{
		recomputer: recomputer,
		frequency:  frequency,
		timeout:    timeout,
		log:        log.With().Str("job", "tracking_"+string(frequency)).Logger(),
	}
}

// Name returns the job name
func (j *TrackingJob) Name() string {
	return "tracking_" + string(j.frequency)
}

// Run executes one tracking round
func (j *TrackingJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	updated, err := j.recomputer.RecomputeDue(ctx, j.frequency)
	if err != nil {
		return fmt.Errorf("tracking round %s: %w", j.frequency, err)
	}

	j.log.Debug().Int("updated", updated).Msg("Tracking round done")
	return nil
}

// RegisterTracking adds one tracking job per notification frequency
func RegisterTracking(s *Scheduler, recomputer Recomputer, timeout time.Duration) error {
	for _, frequency := range frequencies {
		job := NewTrackingJob(recomputer, frequency, timeout, s.log)
		if err := s.AddJob(checkSchedule, job); err != nil {
			return fmt.Errorf("failed to register %s: %w", job.Name(), err)
		}
	}
	return nil
}

// CatchUpTracking runs one tracking round per frequency right away.
// Called at startup so simulations that fell due while the process was down
// do not wait for the next scheduled check.
func CatchUpTracking(s *Scheduler, recomputer Recomputer, timeout time.Duration) error {
	var errs []error
	for _, frequency := range frequencies {
		if err := s.RunNow(NewTrackingJob(recomputer, frequency, timeout, s.log)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
