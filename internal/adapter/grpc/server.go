package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/catalog"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/dashboard"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/simulation"
)

// Server implements the SimulationService gRPC server
type Server struct {
	investsimv1.UnimplementedSimulationServiceServer

	SimulationService *simulation.SimulationService
	DashboardService  *dashboard.DashboardService
	CatalogService    *catalog.CatalogService
}

// NewServer creates a new gRPC server instance
func NewServer(
	simulationService *simulation.SimulationService,
	dashboardService *dashboard.DashboardService,
	catalogService *catalog.CatalogService,
) *Server {
	return &Server{
		SimulationService: simulationService,
		DashboardService:  dashboardService,
		CatalogService:    catalogService,
	}
}

// RunSimulation handles the RunSimulation RPC
func (s *Server) RunSimulation(ctx context.Context, req *investsimv1.RunSimulationRequest) (*investsimv1.RunSimulationResponse, error) {
	simReq, err := paramsToDomain(req.Params)
	if err != nil {
		return nil, err
	}

	outcome, err := s.SimulationService.Run(ctx, simReq)
	if err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.RunSimulationResponse{
		Outcome: outcomeToProto(outcome.Mode, outcome.Results, outcome.Summary, outcome.DailyUpdates),
	}, nil
}

// SaveSimulation handles the SaveSimulation RPC
func (s *Server) SaveSimulation(ctx context.Context, req *investsimv1.SaveSimulationRequest) (*investsimv1.SaveSimulationResponse, error) {
	simReq, err := paramsToDomain(req.Params)
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulationService.Save(ctx, domain.SessionFromContext(ctx), simulation.SaveInput{
		Name:    req.Name,
		Request: simReq,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.SaveSimulationResponse{
		Simulation: savedSimulationToProto(sim),
	}, nil
}

// ListSimulations handles the ListSimulations RPC
func (s *Server) ListSimulations(ctx context.Context, req *investsimv1.ListSimulationsRequest) (*investsimv1.ListSimulationsResponse, error) {
	// Empty mode means no filter
	mode := domain.SimulationMode(req.Mode)
	if mode != "" && mode != domain.ModeFinite && mode != domain.ModeDaily {
		return nil, status.Errorf(codes.InvalidArgument, "invalid mode %q: must be finite or daily", req.Mode)
	}

	sims, err := s.SimulationService.List(ctx, domain.SessionFromContext(ctx), mode)
	if err != nil {
		return nil, mapError(err)
	}

	protoSims := make([]*investsimv1.SavedSimulation, 0, len(sims))
	for _, sim := range sims {
		protoSims = append(protoSims, savedSimulationToProto(sim))
	}

	return &investsimv1.ListSimulationsResponse{
		Simulations: protoSims,
	}, nil
}

// GetSimulation handles the GetSimulation RPC
func (s *Server) GetSimulation(ctx context.Context, req *investsimv1.GetSimulationRequest) (*investsimv1.GetSimulationResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	sim, err := s.SimulationService.Get(ctx, domain.SessionFromContext(ctx), id)
	if err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.GetSimulationResponse{
		Simulation: savedSimulationToProto(sim),
	}, nil
}

// DeleteSimulation handles the DeleteSimulation RPC
func (s *Server) DeleteSimulation(ctx context.Context, req *investsimv1.DeleteSimulationRequest) (*investsimv1.DeleteSimulationResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	if err := s.SimulationService.Delete(ctx, domain.SessionFromContext(ctx), id); err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.DeleteSimulationResponse{}, nil
}

// RecomputeSimulation handles the RecomputeSimulation RPC
func (s *Server) RecomputeSimulation(ctx context.Context, req *investsimv1.RecomputeSimulationRequest) (*investsimv1.RecomputeSimulationResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	sim, err := s.SimulationService.RecomputeFor(ctx, domain.SessionFromContext(ctx), id)
	if err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.RecomputeSimulationResponse{
		Simulation: savedSimulationToProto(sim),
	}, nil
}

// GetDashboard handles the GetDashboard RPC
func (s *Server) GetDashboard(ctx context.Context, req *investsimv1.GetDashboardRequest) (*investsimv1.GetDashboardResponse, error) {
	summary, err := s.DashboardService.Summary(ctx, domain.SessionFromContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}

	return &investsimv1.GetDashboardResponse{
		TotalSimulations: int32(summary.TotalSimulations),
		FiniteCount:      int32(summary.FiniteCount),
		DailyCount:       int32(summary.DailyCount),
		TotalInvested:    money(summary.TotalInvested),
		CurrentValue:     money(summary.CurrentValue),
		Profit:           money(summary.Profit),
		ReturnPercentage: money(summary.ReturnPercentage),
	}, nil
}

// ListAssets handles the ListAssets RPC
func (s *Server) ListAssets(ctx context.Context, req *investsimv1.ListAssetsRequest) (*investsimv1.ListAssetsResponse, error) {
	assets, err := s.CatalogService.ListAssets(ctx, domain.AssetCategory(req.Category))
	if err != nil {
		return nil, mapError(err)
	}

	protoAssets := make([]*investsimv1.Asset, 0, len(assets))
	for _, asset := range assets {
		protoAssets = append(protoAssets, &investsimv1.Asset{
			Ticker:   asset.Ticker,
			Name:     asset.Name,
			Category: string(asset.Category),
		})
	}

	return &investsimv1.ListAssetsResponse{
		Assets: protoAssets,
	}, nil
}

// paramsToDomain converts the simulation form into a domain request.
// Only the wire format is checked here; domain rules are enforced by the service.
func paramsToDomain(params *investsimv1.SimulationParams) (domain.SimulationRequest, error) {
	if params == nil {
		return domain.SimulationRequest{}, status.Error(codes.InvalidArgument, "params are required")
	}

	req := domain.SimulationRequest{
		AssetIDs:              params.AssetIds,
		Amount:                params.Amount,
		ReinvestDividends:     params.ReinvestDividends,
		RiskLevel:             domain.RiskLevel(params.RiskLevel),
		Weights:               params.Weights,
		NotificationFrequency: domain.NotificationFrequency(params.NotificationFrequency),
	}

	if params.StartDate != "" {
		start, err := domain.ParseDate(params.StartDate)
		if err != nil {
			return req, status.Errorf(codes.InvalidArgument, "invalid start_date format: %v", err)
		}
		req.StartDate = start
	}

	if params.EndDate != "" {
		end, err := domain.ParseDate(params.EndDate)
		if err != nil {
			return req, status.Errorf(codes.InvalidArgument, "invalid end_date format: %v", err)
		}
		req.EndDate = &end
	}

	return req, nil
}

// domainToParams converts a domain request back into the simulation form
func domainToParams(req domain.SimulationRequest) *investsimv1.SimulationParams {
	params := &investsimv1.SimulationParams{
		AssetIds:              req.AssetIDs,
		Amount:                req.Amount,
		StartDate:             dateString(req.StartDate),
		ReinvestDividends:     req.ReinvestDividends,
		RiskLevel:             string(req.RiskLevel),
		Weights:               req.Weights,
		NotificationFrequency: string(req.NotificationFrequency),
	}
	if req.EndDate != nil {
		params.EndDate = dateString(*req.EndDate)
	}
	return params
}

// outcomeToProto converts engine results to the wire outcome
func outcomeToProto(mode domain.SimulationMode, results []domain.AssetResult, summary domain.SimulationSummary, updates []domain.DailyUpdate) *investsimv1.Outcome {
	protoResults := make([]*investsimv1.AssetResult, 0, len(results))
	for _, r := range results {
		protoResults = append(protoResults, &investsimv1.AssetResult{
			Ticker:           r.Ticker,
			AllocatedAmount:  money(r.AllocatedAmount),
			InitialDate:      dateString(r.InitialDate),
			InitialPrice:     r.InitialPrice.String(),
			FinalDate:        dateString(r.FinalDate),
			FinalPrice:       r.FinalPrice.String(),
			Shares:           r.Shares.String(),
			FinalValue:       money(r.FinalValue),
			Profit:           money(r.Profit),
			ReturnPercentage: money(r.ReturnPercentage),
		})
	}

	recommendations := summary.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	outcome := &investsimv1.Outcome{
		Mode:    string(mode),
		Results: protoResults,
		Summary: &investsimv1.Summary{
			InitialInvestment: money(summary.InitialInvestment),
			FinalValue:        money(summary.FinalValue),
			Profit:            money(summary.Profit),
			ReturnPercentage:  money(summary.ReturnPercentage),
			IsPositive:        summary.IsPositive,
			Recommendations:   recommendations,
		},
	}

	for _, u := range updates {
		outcome.DailyUpdates = append(outcome.DailyUpdates, &investsimv1.DailyUpdate{
			Date:             dateString(u.Date),
			Value:            money(u.Value),
			PercentChange:    money(u.PercentChange),
			CumulativeReturn: money(u.CumulativeReturn),
		})
	}

	return outcome
}

// savedSimulationToProto converts a domain SavedSimulation to its wire form
func savedSimulationToProto(sim *domain.SavedSimulation) *investsimv1.SavedSimulation {
	protoSim := &investsimv1.SavedSimulation{
		Id:        sim.ID.String(),
		Name:      sim.Name,
		Params:    domainToParams(sim.Request),
		Outcome:   outcomeToProto(sim.Mode(), sim.Results, sim.Summary, sim.DailyUpdates),
		CreatedAt: sim.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: sim.UpdatedAt.UTC().Format(time.RFC3339),
	}

	// Set last_run_at if the simulation has been tracked
	if sim.LastRunAt != nil {
		protoSim.LastRunAt = sim.LastRunAt.UTC().Format(time.RFC3339)
	}

	return protoSim
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}
