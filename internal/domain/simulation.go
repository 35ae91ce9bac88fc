package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel represents the investor's declared risk appetite
type RiskLevel string

const (
	RiskLevelConservative RiskLevel = "conservative"
	RiskLevelModerate     RiskLevel = "moderate"
	RiskLevelAggressive   RiskLevel = "aggressive"
)

// Valid reports whether r is one of the known risk levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelConservative, RiskLevelModerate, RiskLevelAggressive:
		return true
	}
	return false
}

// NotificationFrequency is the tracking interval of a daily-mode simulation
type NotificationFrequency string

const (
	FrequencyDaily   NotificationFrequency = "daily"
	FrequencyWeekly  NotificationFrequency = "weekly"
	FrequencyMonthly NotificationFrequency = "monthly"
)

// Valid reports whether f is one of the known frequencies
func (f NotificationFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// NextRun returns when the interval that started at last ends.
// Unknown frequencies track daily.
func (f NotificationFrequency) NextRun(last time.Time) time.Time {
	switch f {
	case FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, 1)
	}
}

// SimulationMode tells finite simulations apart from open-ended tracking
type SimulationMode string

const (
	ModeFinite SimulationMode = "finite"
	ModeDaily  SimulationMode = "daily"
)

// SimulationRequest carries the parameters collected from the simulation form.
// EndDate == nil selects the open-ended daily mode.
type SimulationRequest struct {
	AssetIDs              []string                   `json:"assetIds"`
	Amount                decimal.Decimal            `json:"amount"`
	StartDate             time.Time                  `json:"startDate"`
	EndDate               *time.Time                 `json:"endDate,omitempty"`
	ReinvestDividends     bool                       `json:"reinvestDividends"`
	RiskLevel             RiskLevel                  `json:"riskLevel"`
	Weights               map[string]decimal.Decimal `json:"weights,omitempty"` // percentage (0-100] per ticker
	NotificationFrequency NotificationFrequency      `json:"notificationFrequency,omitempty"`
}

// Mode returns the simulation mode implied by the request
func (r *SimulationRequest) Mode() SimulationMode {
	if r.EndDate == nil {
		return ModeDaily
	}
	return ModeFinite
}

// Normalize returns a copy with tickers trimmed, upper-cased, de-duplicated and
// sorted, dates truncated to days and defaults applied to empty enums.
func (r SimulationRequest) Normalize() SimulationRequest {
	seen := make(map[string]struct{}, len(r.AssetIDs))
	ids := make([]string, 0, len(r.AssetIDs))
	for _, id := range r.AssetIDs {
		id = NormalizeTicker(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	r.AssetIDs = ids

	if len(r.Weights) > 0 {
		weights := make(map[string]decimal.Decimal, len(r.Weights))
		for ticker, w := range r.Weights {
			weights[NormalizeTicker(ticker)] = w
		}
		r.Weights = weights
	}

	r.StartDate = Day(r.StartDate)
	if r.EndDate != nil {
		end := Day(*r.EndDate)
		r.EndDate = &end
	}
	if r.RiskLevel == "" {
		r.RiskLevel = RiskLevelModerate
	}
	if r.NotificationFrequency == "" {
		r.NotificationFrequency = FrequencyDaily
	}
	return r
}

// Validate ensures the request adheres to domain rules.
// The request is expected to be normalized.
func (r *SimulationRequest) Validate() error {
	if len(r.AssetIDs) == 0 {
		return ErrEmptyAssetSet
	}

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDateRange)
	}

	// Finite mode: end date must be strictly after the start date
	if r.EndDate != nil && !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrInvalidDateRange)
	}

	if !r.RiskLevel.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRiskLevel, r.RiskLevel)
	}

	if !r.NotificationFrequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.NotificationFrequency)
	}

	return r.validateWeights()
}

// validateWeights checks that explicit weights cover exactly the asset set and sum to 100
func (r *SimulationRequest) validateWeights() error {
	if len(r.Weights) == 0 {
		return nil
	}
	if len(r.Weights) != len(r.AssetIDs) {
		return fmt.Errorf("%w: weights must cover every asset exactly once", ErrInvalidWeights)
	}

	hundred := decimal.NewFromInt(100)
	total := decimal.Zero
	for _, ticker := range r.AssetIDs {
		w, ok := r.Weights[ticker]
		if !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidWeights, ticker)
		}
		if w.LessThanOrEqual(decimal.Zero) || w.GreaterThan(hundred) {
			return fmt.Errorf("%w: weight for %s must be in (0, 100]", ErrInvalidWeights, ticker)
		}
		total = total.Add(w)
	}
	if !total.Equal(hundred) {
		return fmt.Errorf("%w: weights sum to %s, expected 100", ErrInvalidWeights, total.String())
	}
	return nil
}

// AssetResult is the per-asset outcome of a simulation
type AssetResult struct {
	Ticker           string          `json:"ticker"`
	AllocatedAmount  decimal.Decimal `json:"allocatedAmount"`
	InitialDate      time.Time       `json:"initialDate"`
	InitialPrice     decimal.Decimal `json:"initialPrice"`
	FinalDate        time.Time       `json:"finalDate"`
	FinalPrice       decimal.Decimal `json:"finalPrice"`
	Shares           decimal.Decimal `json:"shares"`
	FinalValue       decimal.Decimal `json:"finalValue"`
	Profit           decimal.Decimal `json:"profit"`
	ReturnPercentage decimal.Decimal `json:"returnPercentage"`
}

// SimulationSummary aggregates the per-asset results of one run
type SimulationSummary struct {
	InitialInvestment decimal.Decimal `json:"initialInvestment"`
	FinalValue        decimal.Decimal `json:"finalValue"`
	Profit            decimal.Decimal `json:"profit"`
	ReturnPercentage  decimal.Decimal `json:"returnPercentage"`
	IsPositive        bool            `json:"isPositive"`
	Recommendations   []string        `json:"recommendations"`
}

// DailyUpdate is one tracking point of a daily-mode simulation.
// PercentChange is relative to the previous entry (the initial investment for
// the first one); CumulativeReturn is always relative to the initial investment.
type DailyUpdate struct {
	Date             time.Time       `json:"date"`
	Value            decimal.Decimal `json:"value"`
	PercentChange    decimal.Decimal `json:"percentChange"`
	CumulativeReturn decimal.Decimal `json:"cumulativeReturn"`
}

// SimulationOutcome is what one engine run produces
type SimulationOutcome struct {
	Mode         SimulationMode    `json:"mode"`
	Results      []AssetResult     `json:"results"`
	Summary      SimulationSummary `json:"summary"`
	DailyUpdates []DailyUpdate     `json:"dailyUpdates,omitempty"`
}

// NormalizeTicker trims and upper-cases a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
