//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/repository/sqldb"
)

var (
	db         *sqldb.DB
	grpcClient investsimv1.SimulationServiceClient
	grpcConn   *grpc.ClientConn
)

// TestMain connects to the database and the running server
func TestMain(m *testing.M) {
	// 1. Connect to Database
	var err error
	db, err = sqldb.NewDB(getEnv("DB_DRIVER", sqldb.DriverPostgres), getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	// 2. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getEnv("GRPC_ADDR", "localhost:8080"), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = investsimv1.NewSimulationServiceClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

// authContext returns a context carrying the API token and, when set, a user id
func authContext(userID string) context.Context {
	md := metadata.Pairs("authorization", getEnv("API_TOKEN", "dev-token"))
	if userID != "" {
		md.Append(grpcadapter.UserIDHeader, userID)
	}
	return metadata.NewOutgoingContext(context.Background(), md)
}

func params(end string, tickers ...string) *investsimv1.SimulationParams {
	return &investsimv1.SimulationParams{
		AssetIds:  tickers,
		Amount:    decimal.NewFromInt(10000),
		StartDate: "2023-01-03",
		EndDate:   end,
		RiskLevel: "moderate",
	}
}

func TestE2E_RunFiniteSimulation(t *testing.T) {
	resp, err := grpcClient.RunSimulation(authContext(""), &investsimv1.RunSimulationRequest{
		Params: params("2023-12-29", "AAPL", "MSFT"),
	})
	require.NoError(t, err)

	assert.Equal(t, "finite", resp.Outcome.Mode)
	require.Len(t, resp.Outcome.Results, 2)

	total := decimal.Zero
	for _, r := range resp.Outcome.Results {
		allocated, err := decimal.NewFromString(r.AllocatedAmount)
		require.NoError(t, err)
		total = total.Add(allocated)
		assert.LessOrEqual(t, r.InitialDate, r.FinalDate)
	}
	assert.Equal(t, "10000.00", total.StringFixed(2))
	assert.Equal(t, "10000.00", resp.Outcome.Summary.InitialInvestment)
	assert.NotEmpty(t, resp.Outcome.Summary.Recommendations)
}

func TestE2E_FutureEndDateRejected(t *testing.T) {
	_, err := grpcClient.RunSimulation(authContext(""), &investsimv1.RunSimulationRequest{
		Params: params("2099-12-31", "AAPL"),
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestE2E_AuthRequired(t *testing.T) {
	_, err := grpcClient.ListAssets(context.Background(), &investsimv1.ListAssetsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestE2E_AnonymousCannotSave(t *testing.T) {
	_, err := grpcClient.SaveSimulation(authContext(""), &investsimv1.SaveSimulationRequest{
		Params: params("2023-12-29", "AAPL"),
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestE2E_DailySimulationLifecycle(t *testing.T) {
	ctx := context.Background()
	user := "e2e-" + uuid.NewString()
	userCtx := authContext(user)

	saved, err := grpcClient.SaveSimulation(userCtx, &investsimv1.SaveSimulationRequest{
		Name:   "E2E tracker",
		Params: params("", "SPY"),
	})
	require.NoError(t, err)
	require.Len(t, saved.Simulation.Outcome.DailyUpdates, 1)
	assert.Equal(t, saved.Simulation.Outcome.Summary.FinalValue, saved.Simulation.Outcome.DailyUpdates[0].Value)

	id, err := uuid.Parse(saved.Simulation.Id)
	require.NoError(t, err)

	// Verify persistence directly in the database
	stored, err := sqldb.NewSimulationRepository(db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, user, stored.UserID)
	assert.Len(t, stored.DailyUpdates, 1)

	// saving counts as this interval's tracking run
	_, err = grpcClient.RecomputeSimulation(userCtx, &investsimv1.RecomputeSimulationRequest{Id: saved.Simulation.Id})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	stored, err = sqldb.NewSimulationRepository(db).GetByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.DailyUpdates, 1)

	dash, err := grpcClient.GetDashboard(userCtx, &investsimv1.GetDashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), dash.DailyCount)

	_, err = grpcClient.DeleteSimulation(userCtx, &investsimv1.DeleteSimulationRequest{Id: saved.Simulation.Id})
	require.NoError(t, err)

	_, err = grpcClient.GetSimulation(userCtx, &investsimv1.GetSimulationRequest{Id: saved.Simulation.Id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestE2E_ListAssets(t *testing.T) {
	resp, err := grpcClient.ListAssets(authContext(""), &investsimv1.ListAssetsRequest{Category: "crypto"})
	require.NoError(t, err)
	for _, a := range resp.Assets {
		assert.Equal(t, "crypto", a.Category)
	}
}

// Helper functions

func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "investsim"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
