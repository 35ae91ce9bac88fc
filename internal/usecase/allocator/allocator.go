package allocator

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// centsPlaces is the precision allocations are expressed in
const centsPlaces = 2

// CalculateAllocation splits totalAmount across tickers.
// Returns a map of ticker to allocated amount
// Logic:
//  1. Sort tickers so the result does not depend on input order
//  2. Without weights: every ticker gets totalAmount / n, truncated to cents
//  3. With weights (percentages summing to 100): every ticker gets its share, truncated to cents
//  4. The leftover cents are handed out one at a time in ticker order (equal weight)
//     or given to the last ticker (weighted)
//
// Safety: Ensures total allocation equals total amount exactly (no penny lost)
func CalculateAllocation(totalAmount decimal.Decimal, tickers []string, weights map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("total amount must be positive")
	}

	if len(tickers) == 0 {
		return nil, errors.New("tickers list cannot be empty")
	}

	// Create a sorted copy to avoid mutating the caller's slice
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)

	var allocation map[string]decimal.Decimal
	if len(weights) == 0 {
		allocation = equalWeight(totalAmount, sorted)
	} else {
		var err error
		allocation, err = weighted(totalAmount, sorted, weights)
		if err != nil {
			return nil, err
		}
	}

	// Safety check: Ensure total allocation equals total amount exactly
	totalAllocated := decimal.Zero
	for _, amount := range allocation {
		totalAllocated = totalAllocated.Add(amount)
	}

	if !totalAllocated.Equal(totalAmount) {
		return nil, errors.New("total allocation does not equal total amount")
	}

	return allocation, nil
}

// equalWeight splits the amount evenly, distributing leftover cents in ticker order
func equalWeight(totalAmount decimal.Decimal, tickers []string) map[string]decimal.Decimal {
	n := decimal.NewFromInt(int64(len(tickers)))
	share := totalAmount.Div(n).Truncate(centsPlaces)

	allocation := make(map[string]decimal.Decimal, len(tickers))
	for _, ticker := range tickers {
		allocation[ticker] = share
	}

	// Leftover is always smaller than one cent per ticker, except when the
	// amount itself has sub-cent digits: those go to the first ticker.
	leftover := totalAmount.Sub(share.Mul(n))
	cent := decimal.New(1, -centsPlaces)
	for i := 0; leftover.GreaterThanOrEqual(cent) && i < len(tickers); i++ {
		allocation[tickers[i]] = allocation[tickers[i]].Add(cent)
		leftover = leftover.Sub(cent)
	}
	if !leftover.IsZero() {
		allocation[tickers[0]] = allocation[tickers[0]].Add(leftover)
	}

	return allocation
}

// weighted splits the amount by percentage, giving the leftover to the last ticker
func weighted(totalAmount decimal.Decimal, tickers []string, weights map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	hundred := decimal.NewFromInt(100)

	allocation := make(map[string]decimal.Decimal, len(tickers))
	allocatedSoFar := decimal.Zero
	for i, ticker := range tickers {
		w, ok := weights[ticker]
		if !ok {
			return nil, errors.New("missing weight for ticker " + ticker)
		}
		if w.LessThanOrEqual(decimal.Zero) {
			return nil, errors.New("weight for ticker " + ticker + " must be positive")
		}

		// The last ticker takes whatever is left so the sum stays exact
		if i == len(tickers)-1 {
			allocation[ticker] = totalAmount.Sub(allocatedSoFar)
			break
		}

		amount := totalAmount.Mul(w).Div(hundred).Truncate(centsPlaces)
		allocation[ticker] = amount
		allocatedSoFar = allocatedSoFar.Add(amount)
	}

	if allocation[tickers[len(tickers)-1]].LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("weights exceed 100 percent")
	}

	return allocation, nil
}
