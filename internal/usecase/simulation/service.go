package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/engine"
)

const (
	// priceLookback widens the fetch window so the nearest prior trading day
	// before a weekend or holiday start date is included.
	priceLookback = domain.MaxPriceGap

	// maxConcurrentFetches bounds parallel price requests per run
	maxConcurrentFetches = 4

	// recomputeTimeout bounds one shared recomputation, independent of
	// whichever caller started it
	recomputeTimeout = 2 * time.Minute
)

// SaveInput represents the input for saving a simulation
type SaveInput struct {
	Name    string
	Request domain.SimulationRequest
}

// SimulationService handles simulation runs, saved simulations and daily tracking
type SimulationService struct {
	SimulationRepo domain.SimulationRepository
	Prices         domain.PriceProvider
	Now            func() time.Time

	log      zerolog.Logger
	inflight singleflight.Group
}

// NewSimulationService creates a new SimulationService instance
func NewSimulationService(simulationRepo domain.SimulationRepository, prices domain.PriceProvider, log zerolog.Logger) *SimulationService {
	return &SimulationService{
		SimulationRepo: simulationRepo,
		Prices:         prices,
		Now:            time.Now,
		log:            log.With().Str("component", "simulation_service").Logger(),
	}
}

// Run executes a simulation without persisting it
// Logic:
//  1. Normalize and validate the request, rejecting dates after today (fail before any I/O)
//  2. Fetch every ticker's price series concurrently; any failure aborts the run
//  3. Hand the immutable series to the engine
func (s *SimulationService) Run(ctx context.Context, req domain.SimulationRequest) (*domain.SimulationOutcome, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	today := domain.Day(s.Now().UTC())
	if req.StartDate.After(today) || (req.EndDate != nil && req.EndDate.After(today)) {
		return nil, fmt.Errorf("%w: dates must not be after %s",
			domain.ErrInvalidDateRange, today.Format(domain.DateLayout))
	}

	series, err := s.fetchSeries(ctx, req)
	if err != nil {
		return nil, err
	}

	return engine.Simulate(req, series)
}

// Save runs the simulation and persists it for the session's user.
// Results are always recomputed server-side, never taken from the caller.
func (s *SimulationService) Save(ctx context.Context, session domain.Session, input SaveInput) (*domain.SavedSimulation, error) {
	if !session.MayPersist() {
		return nil, domain.ErrPersistenceNotAllowed
	}

	req := input.Request.Normalize()
	outcome, err := s.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.Join(req.AssetIDs, ", ")
	}

	now := s.Now().UTC()
	sim := &domain.SavedSimulation{
		ID:           uuid.New(),
		UserID:       session.UserID,
		Name:         name,
		Request:      req,
		Results:      outcome.Results,
		Summary:      outcome.Summary,
		DailyUpdates: outcome.DailyUpdates,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if sim.Mode() == domain.ModeDaily {
		sim.LastRunAt = &now
	}

	if err := sim.Validate(); err != nil {
		return nil, err
	}

	if err := s.SimulationRepo.Create(ctx, sim); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("simulation_id", sim.ID.String()).
		Str("user_id", sim.UserID).
		Str("mode", string(sim.Mode())).
		Msg("Simulation saved")

	return sim, nil
}

// List returns the session user's saved simulations, optionally filtered by mode.
// An empty mode returns all of them.
func (s *SimulationService) List(ctx context.Context, session domain.Session, mode domain.SimulationMode) ([]*domain.SavedSimulation, error) {
	if !session.MayPersist() {
		return nil, domain.ErrPersistenceNotAllowed
	}

	sims, err := s.SimulationRepo.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if mode == "" {
		return sims, nil
	}

	filtered := make([]*domain.SavedSimulation, 0, len(sims))
	for _, sim := range sims {
		if sim.Mode() == mode {
			filtered = append(filtered, sim)
		}
	}
	return filtered, nil
}

// Get returns one of the session user's saved simulations.
// Simulations owned by someone else are reported as not found.
func (s *SimulationService) Get(ctx context.Context, session domain.Session, id uuid.UUID) (*domain.SavedSimulation, error) {
	if !session.MayPersist() {
		return nil, domain.ErrPersistenceNotAllowed
	}

	sim, err := s.SimulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sim.UserID != session.UserID {
		return nil, fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
	}

	return sim, nil
}

// Delete removes one of the session user's saved simulations
func (s *SimulationService) Delete(ctx context.Context, session domain.Session, id uuid.UUID) error {
	if _, err := s.Get(ctx, session, id); err != nil {
		return err
	}

	if err := s.SimulationRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("simulation_id", id.String()).Str("user_id", session.UserID).Msg("Simulation deleted")
	return nil
}

// RecomputeFor re-evaluates one of the session user's daily simulations on demand
func (s *SimulationService) RecomputeFor(ctx context.Context, session domain.Session, id uuid.UUID) (*domain.SavedSimulation, error) {
	if _, err := s.Get(ctx, session, id); err != nil {
		return nil, err
	}
	return s.Recompute(ctx, id)
}

// Recompute re-evaluates a daily simulation with the latest prices and appends
// one tracking point. A simulation is tracked at most once per notification
// interval; calling it earlier returns ErrNotDue.
// Concurrent calls for the same id share a single evaluation, so two
// recomputations of one simulation never overlap. The shared evaluation runs
// on its own deadline, so a caller that gives up does not fail the others.
// On failure nothing is persisted and the previous tracking point stays the latest.
func (s *SimulationService) Recompute(ctx context.Context, id uuid.UUID) (*domain.SavedSimulation, error) {
	ch := s.inflight.DoChan(id.String(), func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recomputeTimeout)
		defer cancel()
		return s.recompute(flightCtx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			event := s.log.Warn()
			if errors.Is(res.Err, domain.ErrNotDue) {
				event = s.log.Debug()
			}
			event.Err(res.Err).Str("simulation_id", id.String()).Msg("Daily recomputation skipped")
			return nil, res.Err
		}
		return res.Val.(*domain.SavedSimulation), nil
	}
}

// recompute does the work behind Recompute
func (s *SimulationService) recompute(ctx context.Context, id uuid.UUID) (*domain.SavedSimulation, error) {
	sim, err := s.SimulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if sim.Mode() != domain.ModeDaily {
		return nil, domain.ErrNotDailySimulation
	}

	now := s.Now().UTC()
	if !sim.DueAt(now) {
		return nil, fmt.Errorf("%w: next run at %s", domain.ErrNotDue, sim.NextRunAt().Format(time.RFC3339))
	}

	series, err := s.fetchSeries(ctx, sim.Request)
	if err != nil {
		return nil, err
	}

	outcome, err := engine.Track(sim.Request, series, sim.DailyUpdates, now)
	if err != nil {
		return nil, err
	}

	// Work on a copy so a failed write leaves the loaded simulation untouched
	updated := *sim
	updated.Results = outcome.Results
	updated.Summary = outcome.Summary
	updated.DailyUpdates = outcome.DailyUpdates
	updated.UpdatedAt = now
	updated.LastRunAt = &now

	latest := outcome.DailyUpdates[len(outcome.DailyUpdates)-1]
	if err := s.SimulationRepo.RecordDailyUpdate(ctx, &updated, latest); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("simulation_id", id.String()).
		Str("value", latest.Value.String()).
		Str("percent_change", latest.PercentChange.String()).
		Msg("Daily simulation recomputed")

	return &updated, nil
}

// RecomputeDue recomputes every daily simulation tracked at frequency whose
// interval has elapsed, including ones whose rounds were missed while the
// process was down. Individual failures are logged and skipped; it returns
// how many succeeded.
func (s *SimulationService) RecomputeDue(ctx context.Context, frequency domain.NotificationFrequency) (int, error) {
	sims, err := s.SimulationRepo.ListDaily(ctx, frequency)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s simulations: %w", frequency, err)
	}

	now := s.Now().UTC()
	due, updated := 0, 0
	for _, sim := range sims {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if !sim.DueAt(now) {
			continue
		}
		due++
		if _, err := s.Recompute(ctx, sim.ID); err != nil {
			continue
		}
		updated++
	}

	s.log.Info().
		Str("frequency", string(frequency)).
		Int("tracked", len(sims)).
		Int("due", due).
		Int("updated", updated).
		Msg("Tracking round finished")

	return updated, nil
}

// fetchSeries retrieves the price series of every ticker of a normalized request.
// Unknown tickers become ErrMissingPriceData; other collaborator failures
// become ErrUpstreamUnavailable.
func (s *SimulationService) fetchSeries(ctx context.Context, req domain.SimulationRequest) (map[string]*domain.AssetPriceSeries, error) {
	from := req.StartDate.Add(-priceLookback)
	to := domain.Day(s.Now().UTC())
	if req.EndDate != nil {
		to = *req.EndDate
	}

	fetched := make([]*domain.AssetPriceSeries, len(req.AssetIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, ticker := range req.AssetIDs {
		i, ticker := i, ticker
		g.Go(func() error {
			series, err := s.Prices.GetPrices(gctx, ticker, from, to)
			if err != nil {
				return classifyFetchError(ticker, err)
			}
			fetched[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	series := make(map[string]*domain.AssetPriceSeries, len(fetched))
	for i, ticker := range req.AssetIDs {
		series[ticker] = fetched[i]
	}
	return series, nil
}

// classifyFetchError maps price collaborator failures onto the error taxonomy
func classifyFetchError(ticker string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: unknown ticker %s: %v", domain.ErrMissingPriceData, ticker, err)
	case errors.Is(err, domain.ErrMissingPriceData),
		errors.Is(err, domain.ErrUpstreamUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: fetching %s: %v", domain.ErrUpstreamUnavailable, ticker, err)
	}
}
