package investsimv1

import "github.com/shopspring/decimal"

// SimulationParams carries the simulation form.
// Dates use the YYYY-MM-DD layout; an empty EndDate selects daily tracking.
type SimulationParams struct {
	AssetIds              []string                   `json:"assetIds"`
	Amount                decimal.Decimal            `json:"amount"`
	StartDate             string                     `json:"startDate"`
	EndDate               string                     `json:"endDate,omitempty"`
	ReinvestDividends     bool                       `json:"reinvestDividends"`
	RiskLevel             string                     `json:"riskLevel,omitempty"`
	Weights               map[string]decimal.Decimal `json:"weights,omitempty"`
	NotificationFrequency string                     `json:"notificationFrequency,omitempty"`
}

// AssetResult is the outcome for one asset. Amounts are decimal strings.
type AssetResult struct {
	Ticker           string `json:"ticker"`
	AllocatedAmount  string `json:"allocatedAmount"`
	InitialDate      string `json:"initialDate"`
	InitialPrice     string `json:"initialPrice"`
	FinalDate        string `json:"finalDate"`
	FinalPrice       string `json:"finalPrice"`
	Shares           string `json:"shares"`
	FinalValue       string `json:"finalValue"`
	Profit           string `json:"profit"`
	ReturnPercentage string `json:"returnPercentage"`
}

// Summary aggregates the asset results of a simulation
type Summary struct {
	InitialInvestment string   `json:"initialInvestment"`
	FinalValue        string   `json:"finalValue"`
	Profit            string   `json:"profit"`
	ReturnPercentage  string   `json:"returnPercentage"`
	IsPositive        bool     `json:"isPositive"`
	Recommendations   []string `json:"recommendations"`
}

// DailyUpdate is one tracking point of a daily simulation
type DailyUpdate struct {
	Date             string `json:"date"`
	Value            string `json:"value"`
	PercentChange    string `json:"percentChange"`
	CumulativeReturn string `json:"cumulativeReturn"`
}

// Outcome holds the results of a simulation run
type Outcome struct {
	Mode         string         `json:"mode"`
	Results      []*AssetResult `json:"results"`
	Summary      *Summary       `json:"summary"`
	DailyUpdates []*DailyUpdate `json:"dailyUpdates,omitempty"`
}

// SavedSimulation is a persisted simulation with its latest outcome
type SavedSimulation struct {
	Id        string            `json:"id"`
	Name      string            `json:"name"`
	Params    *SimulationParams `json:"params"`
	Outcome   *Outcome          `json:"outcome"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
	LastRunAt string            `json:"lastRunAt,omitempty"`
}

// Asset is a catalog entry
type Asset struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type RunSimulationRequest struct {
	Params *SimulationParams `json:"params"`
}

type RunSimulationResponse struct {
	Outcome *Outcome `json:"outcome"`
}

type SaveSimulationRequest struct {
	Name   string            `json:"name"`
	Params *SimulationParams `json:"params"`
}

type SaveSimulationResponse struct {
	Simulation *SavedSimulation `json:"simulation"`
}

// ListSimulationsRequest filters by mode ("finite", "daily"); empty lists all
type ListSimulationsRequest struct {
	Mode string `json:"mode,omitempty"`
}

type ListSimulationsResponse struct {
	Simulations []*SavedSimulation `json:"simulations"`
}

type GetSimulationRequest struct {
	Id string `json:"id"`
}

type GetSimulationResponse struct {
	Simulation *SavedSimulation `json:"simulation"`
}

type DeleteSimulationRequest struct {
	Id string `json:"id"`
}

type DeleteSimulationResponse struct{}

type RecomputeSimulationRequest struct {
	Id string `json:"id"`
}

type RecomputeSimulationResponse struct {
	Simulation *SavedSimulation `json:"simulation"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	TotalSimulations int32  `json:"totalSimulations"`
	FiniteCount      int32  `json:"finiteCount"`
	DailyCount       int32  `json:"dailyCount"`
	TotalInvested    string `json:"totalInvested"`
	CurrentValue     string `json:"currentValue"`
	Profit           string `json:"profit"`
	ReturnPercentage string `json:"returnPercentage"`
}

// ListAssetsRequest filters by category ("stocks", "indices", "crypto"); empty lists all
type ListAssetsRequest struct {
	Category string `json:"category,omitempty"`
}

type ListAssetsResponse struct {
	Assets []*Asset `json:"assets"`
}
