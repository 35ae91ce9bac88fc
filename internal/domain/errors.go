package domain

import "errors"

// Error taxonomy shared by the engine, the services and the transports.
// Callers match with errors.Is; wrapping adds the offending ticker or id.
var (
	ErrEmptyAssetSet         = errors.New("asset set must not be empty")
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrInvalidAmount         = errors.New("invalid amount: investment amount must be positive")
	ErrInvalidWeights        = errors.New("invalid weights")
	ErrInvalidRiskLevel      = errors.New("invalid risk level")
	ErrInvalidFrequency      = errors.New("invalid notification frequency")
	ErrInvalidCategory       = errors.New("invalid asset category")
	ErrMissingPriceData      = errors.New("missing price data")
	ErrUpstreamUnavailable   = errors.New("upstream unavailable")
	ErrNotFound              = errors.New("not found")
	ErrPersistenceNotAllowed = errors.New("persistence not allowed for this session")
	ErrNotDailySimulation    = errors.New("simulation is not in daily mode")
	ErrNotDue                = errors.New("simulation was already tracked in the current interval")
)

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyAssetSet) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidWeights) ||
		errors.Is(err, ErrInvalidRiskLevel) ||
		errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrInvalidCategory)
}
