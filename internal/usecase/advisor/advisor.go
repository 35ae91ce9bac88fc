package advisor

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// tradingDaysPerYear annualises daily volatility
const tradingDaysPerYear = 252

// longTermHorizon is the holding period below which the horizon advice is given
const longTermHorizon = 365 * 24 * time.Hour

// volatilityCeiling is the highest annualised volatility each profile tolerates
var volatilityCeiling = map[domain.RiskLevel]float64{
	domain.RiskLevelConservative: 0.15,
	domain.RiskLevelModerate:     0.25,
	domain.RiskLevelAggressive:   0.40,
}

// Recommend produces advisory text for a simulation outcome.
// The advice never changes the numeric results.
// Logic:
//   - Every asset whose annualised volatility exceeds the profile ceiling is flagged
//   - Single-asset portfolios are told to diversify
//   - Not reinvesting dividends suggests reinvesting
//   - Finite horizons shorter than a year suggest a long-term horizon
//
// The output order is deterministic: assets in result order, then the general advice.
func Recommend(req domain.SimulationRequest, results []domain.AssetResult, series map[string]*domain.AssetPriceSeries) []string {
	recommendations := make([]string, 0)

	ceiling, ok := volatilityCeiling[req.RiskLevel]
	if !ok {
		ceiling = volatilityCeiling[domain.RiskLevelModerate]
	}

	calm := 0
	measured := 0
	for _, r := range results {
		s, ok := series[r.Ticker]
		if !ok {
			continue
		}
		vol, ok := Volatility(s.PricesBetween(r.InitialDate, r.FinalDate))
		if !ok {
			continue
		}
		measured++
		if vol > ceiling {
			recommendations = append(recommendations, fmt.Sprintf(
				"%s shows an annualised volatility of %.1f%%, above the %.0f%% tolerated by a %s profile; consider reducing its weight",
				r.Ticker, vol*100, ceiling*100, req.RiskLevel))
		} else if vol <= volatilityCeiling[domain.RiskLevelConservative] {
			calm++
		}
	}

	if req.RiskLevel == domain.RiskLevelAggressive && measured > 0 && calm == measured {
		recommendations = append(recommendations,
			"Your portfolio is calmer than an aggressive profile allows; higher-growth assets could fit your goals")
	}

	if len(req.AssetIDs) == 1 {
		recommendations = append(recommendations, "Diversify your portfolio to reduce risk")
	}

	if !req.ReinvestDividends {
		recommendations = append(recommendations, "Consider reinvesting dividends to compound your returns")
	}

	if req.EndDate != nil && req.EndDate.Sub(req.StartDate) < longTermHorizon {
		recommendations = append(recommendations, "Keep a long-term investment horizon; short windows amplify market noise")
	}

	return recommendations
}

// Volatility returns the annualised volatility (sample standard deviation of
// daily log returns) of a price path. It needs at least three points.
func Volatility(prices []domain.PricePoint) (float64, bool) {
	if len(prices) < 3 {
		return 0, false
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].Price.InexactFloat64()
		cur := prices[i].Price.InexactFloat64()
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, math.Log(cur/prev))
	}
	if len(returns) < 2 {
		return 0, false
	}

	return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear), true
}
