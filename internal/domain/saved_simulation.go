package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SavedSimulation is a simulation request persisted together with its latest
// results, owned by a user account.
// Finite simulations are immutable once saved; daily ones are refreshed by
// the tracker and accumulate DailyUpdates.
type SavedSimulation struct {
	ID           uuid.UUID
	UserID       string
	Name         string
	Request      SimulationRequest
	Results      []AssetResult
	Summary      SimulationSummary
	DailyUpdates []DailyUpdate // oldest first
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastRunAt    *time.Time // NULL until the first tracking run
}

// dueTolerance lets a tracking round that fires slightly before the interval
// boundary still count for that interval
const dueTolerance = time.Hour

// DueAt reports whether a new tracking point may be recorded at now.
// A daily simulation is tracked at most once per notification interval,
// counted from LastRunAt.
func (s *SavedSimulation) DueAt(now time.Time) bool {
	if s.LastRunAt == nil {
		return true
	}
	next := s.Request.NotificationFrequency.NextRun(*s.LastRunAt)
	return !next.Add(-dueTolerance).After(now)
}

// NextRunAt returns the earliest time DueAt holds again
func (s *SavedSimulation) NextRunAt() time.Time {
	if s.LastRunAt == nil {
		return time.Time{}
	}
	return s.Request.NotificationFrequency.NextRun(*s.LastRunAt).Add(-dueTolerance)
}

// Mode returns the simulation mode of the saved request
func (s *SavedSimulation) Mode() SimulationMode {
	return s.Request.Mode()
}

// LatestUpdate returns the last recorded tracking point, if any
func (s *SavedSimulation) LatestUpdate() (DailyUpdate, bool) {
	if len(s.DailyUpdates) == 0 {
		return DailyUpdate{}, false
	}
	return s.DailyUpdates[len(s.DailyUpdates)-1], true
}

// Validate ensures the saved simulation adheres to domain rules
func (s *SavedSimulation) Validate() error {
	if s.UserID == "" {
		return errors.New("saved simulation must have an owner")
	}
	if s.Name == "" {
		return errors.New("saved simulation name cannot be empty")
	}
	if len(s.Results) == 0 {
		return errors.New("saved simulation must have results")
	}
	return s.Request.Validate()
}
