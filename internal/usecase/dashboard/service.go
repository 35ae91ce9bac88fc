package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// Summary represents the totals shown on the user's dashboard
type Summary struct {
	TotalSimulations int
	FiniteCount      int
	DailyCount       int
	TotalInvested    decimal.Decimal
	CurrentValue     decimal.Decimal
	Profit           decimal.Decimal
	ReturnPercentage decimal.Decimal
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	SimulationRepo domain.SimulationRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(simulationRepo domain.SimulationRepository) *DashboardService {
	return &DashboardService{
		SimulationRepo: simulationRepo,
	}
}

// Summary aggregates the session user's saved simulations
// Logic:
//   - TotalInvested: Sum of every simulation's initial investment
//   - CurrentValue: Sum of every simulation's final value (daily ones are kept current by the tracker)
//   - Profit: CurrentValue - TotalInvested
func (s *DashboardService) Summary(ctx context.Context, session domain.Session) (*Summary, error) {
	if !session.MayPersist() {
		return nil, domain.ErrPersistenceNotAllowed
	}

	sims, err := s.SimulationRepo.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	summary := &Summary{
		TotalSimulations: len(sims),
		TotalInvested:    decimal.Zero,
		CurrentValue:     decimal.Zero,
		Profit:           decimal.Zero,
		ReturnPercentage: decimal.Zero,
	}

	for _, sim := range sims {
		if sim.Mode() == domain.ModeDaily {
			summary.DailyCount++
		} else {
			summary.FiniteCount++
		}
		summary.TotalInvested = summary.TotalInvested.Add(sim.Request.Amount)
		summary.CurrentValue = summary.CurrentValue.Add(sim.Summary.FinalValue)
	}

	summary.Profit = summary.CurrentValue.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.ReturnPercentage = summary.Profit.Mul(decimal.NewFromInt(100)).Div(summary.TotalInvested).Round(2)
	}

	return summary, nil
}
