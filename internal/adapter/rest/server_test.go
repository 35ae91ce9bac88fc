package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	grpcadapter "github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/repository/sqldb"
	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/catalog"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/dashboard"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/seeder"
	"github.com/alvaro-al22/investsimpro-backend/internal/usecase/simulation"
)

const testToken = "test-token"

type stubPrices map[string]*domain.AssetPriceSeries

func (p stubPrices) GetPrices(ctx context.Context, ticker string, from, to time.Time) (*domain.AssetPriceSeries, error) {
	s, ok := p[ticker]
	if !ok {
		return nil, fmt.Errorf("ticker %s: %w", ticker, domain.ErrNotFound)
	}
	return s, nil
}

func aaplSeries() *domain.AssetPriceSeries {
	first, _ := domain.ParseDate("2023-12-29")
	last, _ := domain.ParseDate("2024-12-31")
	return domain.NewAssetPriceSeries("AAPL", []domain.PricePoint{
		{Date: first, Price: decimal.NewFromInt(150)},
		{Date: last, Price: decimal.NewFromInt(180)},
	}, nil)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestServer(t *testing.T) *Server {
	return newTestServerWithClock(t, &testClock{now: time.Date(2025, 1, 2, 21, 0, 0, 0, time.UTC)})
}

func newTestServerWithClock(t *testing.T, clock *testClock) *Server {
	t.Helper()
	ctx := context.Background()

	db, err := sqldb.NewDB(sqldb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() { db.Close() })

	simRepo := sqldb.NewSimulationRepository(db)
	assetRepo := sqldb.NewAssetRepository(db)
	require.NoError(t, seeder.NewCatalogSeeder(assetRepo).Seed(ctx))

	simService := simulation.NewSimulationService(simRepo, stubPrices{"AAPL": aaplSeries()}, zerolog.Nop())
	simService.Now = clock.Now

	return New(Config{
		Port: 0,
		Log:  zerolog.Nop(),
		Service: grpcadapter.NewServer(
			simService,
			dashboard.NewDashboardService(simRepo),
			catalog.NewCatalogService(assetRepo),
		),
		APIToken:    testToken,
		CORSOrigins: []string{"http://localhost:5173"},
	})
}

func do(t *testing.T, s *Server, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const finiteBody = `{"assetIds":["aapl"],"amount":"10000","startDate":"2024-01-01","endDate":"2024-12-31","riskLevel":"moderate"}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer token", header: "Bearer " + testToken, want: http.StatusOK},
		{name: "raw token", header: testToken, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/market/assets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRunSimulation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/simulations/run", "", finiteBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome investsimv1.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, "finite", outcome.Mode)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "12000.00", outcome.Results[0].FinalValue)
	assert.Equal(t, "20.00", outcome.Summary.ReturnPercentage)
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   string
		want   int
	}{
		{"empty body", http.MethodPost, "/api/simulations/run", "", "", http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/simulations/run", "", "{", http.StatusBadRequest},
		{"no assets", http.MethodPost, "/api/simulations/run", "", `{"assetIds":[],"amount":"100","startDate":"2024-01-01","endDate":"2024-02-01"}`, http.StatusBadRequest},
		{"end date in the future", http.MethodPost, "/api/simulations/run", "", `{"assetIds":["AAPL"],"amount":"100","startDate":"2024-01-01","endDate":"2030-12-31"}`, http.StatusBadRequest},
		{"unknown ticker", http.MethodPost, "/api/simulations/run", "", `{"assetIds":["ZZZZ"],"amount":"100","startDate":"2024-01-01","endDate":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"anonymous save", http.MethodPost, "/api/simulations", "", `{"params":` + finiteBody + `}`, http.StatusForbidden},
		{"anonymous dashboard", http.MethodGet, "/api/dashboard", "", "", http.StatusForbidden},
		{"malformed id", http.MethodGet, "/api/simulations/nope", "alice", "", http.StatusBadRequest},
		{"unknown simulation", http.MethodDelete, "/api/simulations/7b0c3c39-5e54-4a41-9d0b-2f0e7f1f0a11", "alice", "", http.StatusNotFound},
		{"unknown category", http.MethodGet, "/api/market/assets?category=bonds", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestSavedSimulationLifecycle(t *testing.T) {
	clock := &testClock{now: time.Date(2025, 1, 2, 21, 0, 0, 0, time.UTC)}
	s := newTestServerWithClock(t, clock)

	body := `{"name":"Apple tracker","params":{"assetIds":["AAPL"],"amount":1500,"startDate":"2024-01-01","notificationFrequency":"daily"}}`
	rec := do(t, s, http.MethodPost, "/api/simulations", "alice", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var saved investsimv1.SavedSimulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Apple tracker", saved.Name)
	assert.Equal(t, "daily", saved.Outcome.Mode)

	rec = do(t, s, http.MethodGet, "/api/simulations?type=daily", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []*investsimv1.SavedSimulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, saved.Id, list[0].Id)

	rec = do(t, s, http.MethodGet, "/api/simulations/"+saved.Id, "bob", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// already tracked today
	rec = do(t, s, http.MethodPost, "/api/simulations/"+saved.Id+"/recompute", "alice", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	clock.Advance(24 * time.Hour)
	rec = do(t, s, http.MethodPost, "/api/simulations/"+saved.Id+"/recompute", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var recomputed investsimv1.SavedSimulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recomputed))
	assert.Len(t, recomputed.Outcome.DailyUpdates, 2)

	rec = do(t, s, http.MethodGet, "/api/dashboard", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash investsimv1.GetDashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, int32(1), dash.TotalSimulations)
	assert.Equal(t, "1500.00", dash.TotalInvested)
	assert.Equal(t, "1800.00", dash.CurrentValue)

	rec = do(t, s, http.MethodDelete, "/api/simulations/"+saved.Id, "alice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/simulations/"+saved.Id, "alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAssets(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/market/assets?category=indices", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var assets []*investsimv1.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assets))
	require.Len(t, assets, 3)
	for _, a := range assets {
		assert.Equal(t, "indices", a.Category)
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, httpStatus(codes.InvalidArgument))
	assert.Equal(t, http.StatusForbidden, httpStatus(codes.PermissionDenied))
	assert.Equal(t, http.StatusServiceUnavailable, httpStatus(codes.Unavailable))
	assert.Equal(t, http.StatusUnprocessableEntity, httpStatus(codes.FailedPrecondition))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(codes.Internal))
	assert.Equal(t, http.StatusInternalServerError, httpStatus(codes.DataLoss))
}
