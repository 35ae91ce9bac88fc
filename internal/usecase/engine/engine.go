// Package engine computes investment simulation results from price series.
//
// The engine is pure: it performs no I/O, reads no clock and holds no state,
// so identical inputs always produce identical outcomes. Fetching prices,
// persisting results and scheduling daily re-evaluation are the callers' job.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/advisor"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/allocator"
)

const (
	moneyPlaces   = 2
	percentPlaces = 2
	sharePlaces   = 6
)

var hundred = decimal.NewFromInt(100)

// Simulate runs a simulation request against the given price series.
// Logic:
//  1. Normalize and validate the request
//  2. Split the amount across tickers (equal weight unless weights are given)
//  3. For each ticker, price at start date (or nearest prior) and at end date
//     (finite) or latest available date (daily), reinvesting dividends if asked
//  4. Aggregate the per-asset results and attach the advisor's recommendations
//  5. Daily mode: record the first tracking point against the initial investment
//
// Any missing ticker or price fails the whole request; no partial results are returned.
func Simulate(req domain.SimulationRequest, series map[string]*domain.AssetPriceSeries) (*domain.SimulationOutcome, error) {
	req = req.Normalize()
	outcome, asOf, err := evaluate(req, series)
	if err != nil {
		return nil, err
	}

	if outcome.Mode == domain.ModeDaily {
		outcome.DailyUpdates = []domain.DailyUpdate{
			NextDailyUpdate(nil, req.Amount, outcome.Summary.FinalValue, asOf),
		}
	}

	return outcome, nil
}

// Track re-evaluates a daily-mode request with fresh prices and appends one
// tracking point dated asOf to history. History itself is not modified.
func Track(req domain.SimulationRequest, series map[string]*domain.AssetPriceSeries, history []domain.DailyUpdate, asOf time.Time) (*domain.SimulationOutcome, error) {
	req = req.Normalize()
	if req.Mode() != domain.ModeDaily {
		return nil, domain.ErrNotDailySimulation
	}

	outcome, _, err := evaluate(req, series)
	if err != nil {
		return nil, err
	}

	updates := make([]domain.DailyUpdate, len(history), len(history)+1)
	copy(updates, history)
	outcome.DailyUpdates = append(updates, NextDailyUpdate(history, req.Amount, outcome.Summary.FinalValue, asOf))

	return outcome, nil
}

// NextDailyUpdate builds the tracking point that follows history.
// PercentChange is measured against the previous recorded value (the initial
// investment when history is empty), CumulativeReturn against the initial investment.
func NextDailyUpdate(history []domain.DailyUpdate, initialInvestment, value decimal.Decimal, asOf time.Time) domain.DailyUpdate {
	previous := initialInvestment
	if len(history) > 0 {
		previous = history[len(history)-1].Value
	}

	return domain.DailyUpdate{
		Date:             domain.Day(asOf),
		Value:            value.Round(moneyPlaces),
		PercentChange:    percentOf(value.Sub(previous), previous),
		CumulativeReturn: percentOf(value.Sub(initialInvestment), initialInvestment),
	}
}

// evaluate computes per-asset results and the summary for a normalized request.
// It also returns the most recent final price date, used to date the first
// tracking point of a daily simulation.
func evaluate(req domain.SimulationRequest, series map[string]*domain.AssetPriceSeries) (*domain.SimulationOutcome, time.Time, error) {
	if err := req.Validate(); err != nil {
		return nil, time.Time{}, err
	}

	allocation, err := allocator.CalculateAllocation(req.Amount, req.AssetIDs, req.Weights)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidWeights, err)
	}

	results := make([]domain.AssetResult, 0, len(req.AssetIDs))
	var asOf time.Time
	for _, ticker := range req.AssetIDs {
		s, ok := series[ticker]
		if !ok || s == nil {
			return nil, time.Time{}, fmt.Errorf("%w: no price series for %s", domain.ErrMissingPriceData, ticker)
		}

		result, err := evaluateAsset(req, s, ticker, allocation[ticker])
		if err != nil {
			return nil, time.Time{}, err
		}
		if result.FinalDate.After(asOf) {
			asOf = result.FinalDate
		}
		results = append(results, result)
	}

	summary := summarize(req.Amount, results)
	summary.Recommendations = advisor.Recommend(req, results, series)

	return &domain.SimulationOutcome{
		Mode:    req.Mode(),
		Results: results,
		Summary: summary,
	}, asOf, nil
}

// evaluateAsset prices one ticker over the simulation window.
// finalValue = allocated / initialPrice * finalPrice * reinvestment factor,
// where the factor is 1 unless dividends are reinvested.
func evaluateAsset(req domain.SimulationRequest, s *domain.AssetPriceSeries, ticker string, allocated decimal.Decimal) (domain.AssetResult, error) {
	initial, ok := s.PriceNear(req.StartDate)
	if !ok {
		return domain.AssetResult{}, fmt.Errorf("%w: no price for %s on or before %s",
			domain.ErrMissingPriceData, ticker, req.StartDate.Format(domain.DateLayout))
	}

	var final domain.PricePoint
	if req.EndDate != nil {
		final, ok = s.PriceNear(*req.EndDate)
		if !ok {
			return domain.AssetResult{}, fmt.Errorf("%w: no price for %s on or before %s",
				domain.ErrMissingPriceData, ticker, req.EndDate.Format(domain.DateLayout))
		}
	} else {
		final, _ = s.Latest()
	}

	factor := decimal.NewFromInt(1)
	if req.ReinvestDividends {
		factor = reinvestmentFactor(s, initial.Date, final.Date)
	}

	finalValue := allocated.Mul(final.Price).Div(initial.Price)
	shares := allocated.Div(initial.Price)
	if !factor.Equal(decimal.NewFromInt(1)) {
		finalValue = allocated.Mul(final.Price).Mul(factor).Div(initial.Price)
		shares = shares.Mul(factor)
	}

	finalValue = finalValue.Round(moneyPlaces)
	profit := finalValue.Sub(allocated)

	return domain.AssetResult{
		Ticker:           ticker,
		AllocatedAmount:  allocated,
		InitialDate:      initial.Date,
		InitialPrice:     initial.Price,
		FinalDate:        final.Date,
		FinalPrice:       final.Price,
		Shares:           shares.Round(sharePlaces),
		FinalValue:       finalValue,
		Profit:           profit,
		ReturnPercentage: percentOf(profit, allocated),
	}, nil
}

// reinvestmentFactor is the share-count multiplier obtained by buying more
// shares with every dividend at its ex-date price.
func reinvestmentFactor(s *domain.AssetPriceSeries, from, to time.Time) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	for _, div := range s.DividendsBetween(from, to) {
		// ex-date is after from, so a price on or before it always exists
		p, ok := s.PriceOnOrBefore(div.ExDate)
		if !ok {
			continue
		}
		factor = factor.Mul(decimal.NewFromInt(1).Add(div.Amount.Div(p.Price)))
	}
	return factor
}

// summarize aggregates per-asset results
func summarize(amount decimal.Decimal, results []domain.AssetResult) domain.SimulationSummary {
	finalValue := decimal.Zero
	for _, r := range results {
		finalValue = finalValue.Add(r.FinalValue)
	}
	profit := finalValue.Sub(amount)

	return domain.SimulationSummary{
		InitialInvestment: amount,
		FinalValue:        finalValue,
		Profit:            profit,
		ReturnPercentage:  percentOf(profit, amount),
		IsPositive:        !profit.IsNegative(),
	}
}

// percentOf returns part / whole * 100 rounded to two places
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(percentPlaces)
}
