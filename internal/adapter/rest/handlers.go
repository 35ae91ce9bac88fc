package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alvaro-al22/investsimpro-backend/internal/adapter/grpc/investsimv1"
)

const maxBodyBytes = 1 << 20

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "investsim",
	})
}

// handleRunSimulation runs a simulation without saving it. The body is the simulation form.
func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var params investsimv1.SimulationParams
	if !s.decode(w, r, &params) {
		return
	}

	resp, err := s.service.RunSimulation(r.Context(), &investsimv1.RunSimulationRequest{Params: &params})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Outcome)
}

// handleSaveSimulation runs and saves a simulation for the logged-in user
func (s *Server) handleSaveSimulation(w http.ResponseWriter, r *http.Request) {
	var req investsimv1.SaveSimulationRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.service.SaveSimulation(r.Context(), &req)
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp.Simulation)
}

// handleListSimulations lists the user's simulations, optionally filtered by ?type=finite|daily
func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListSimulations(r.Context(), &investsimv1.ListSimulationsRequest{
		Mode: r.URL.Query().Get("type"),
	})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Simulations)
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetSimulation(r.Context(), &investsimv1.GetSimulationRequest{
		Id: chi.URLParam(r, "id"),
	})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Simulation)
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	_, err := s.service.DeleteSimulation(r.Context(), &investsimv1.DeleteSimulationRequest{
		Id: chi.URLParam(r, "id"),
	})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecomputeSimulation appends a tracking point to a daily simulation on demand
func (s *Server) handleRecomputeSimulation(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.RecomputeSimulation(r.Context(), &investsimv1.RecomputeSimulationRequest{
		Id: chi.URLParam(r, "id"),
	})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Simulation)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.GetDashboard(r.Context(), &investsimv1.GetDashboardRequest{})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleListAssets lists the catalog, optionally filtered by ?category=stocks|indices|crypto
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	resp, err := s.service.ListAssets(r.Context(), &investsimv1.ListAssetsRequest{
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		s.writeStatusError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp.Assets)
}

// decode reads a JSON body into v, writing a 400 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, "request body is required")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeStatusError translates a gRPC status into the matching HTTP error
func (s *Server) writeStatusError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	code := httpStatus(st.Code())
	if code >= http.StatusInternalServerError {
		s.log.Warn().Err(err).Int("status", code).Msg("Request failed")
	}
	s.writeJSON(w, code, map[string]string{
		"error": st.Message(),
		"code":  st.Code().String(),
	})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.FailedPrecondition:
		return http.StatusUnprocessableEntity
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Canceled:
		return http.StatusRequestTimeout
	case codes.Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
