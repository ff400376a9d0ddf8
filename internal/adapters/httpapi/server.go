package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minsukang/tripweaver/internal/adapters/persistence"
	adapterrouting "github.com/minsukang/tripweaver/internal/adapters/routing"
	"github.com/minsukang/tripweaver/internal/application/common"
	"github.com/minsukang/tripweaver/internal/application/planner"
	"github.com/minsukang/tripweaver/internal/domain/trip"
	"github.com/minsukang/tripweaver/internal/infrastructure/config"
)

// Server exposes the planning engine over HTTP
type Server struct {
	service  *planner.Service
	router   *adapterrouting.Router
	tripRepo *persistence.GormTripRepository
	logger   common.Logger
	cfg      config.ServerConfig
}

// NewServer wires the HTTP surface. tripRepo may be nil when persistence is
// disabled.
func NewServer(service *planner.Service, router *adapterrouting.Router, tripRepo *persistence.GormTripRepository, logger common.Logger, cfg config.ServerConfig) *Server {
	return &Server{
		service:  service,
		router:   router,
		tripRepo: tripRepo,
		logger:   logger,
		cfg:      cfg,
	}
}

// Handler builds the chi route tree
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Get("/trips/{tripID}", s.handleGetTrip)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"router": s.router.Stats(),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var in trip.TripInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	ctx := common.WithLogger(r.Context(), s.logger)
	out, err := s.service.PlanTrip(ctx, &in)
	if err != nil {
		status := http.StatusInternalServerError
		var invalid *trip.InvalidInputError
		var validation *trip.ValidationError
		if errors.As(err, &invalid) || errors.As(err, &validation) {
			status = http.StatusBadRequest
		}
		if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
			status = http.StatusRequestTimeout
		}
		writeError(w, status, err.Error())
		return
	}

	if s.tripRepo != nil {
		if err := s.tripRepo.Save(ctx, out, in.Days); err != nil {
			s.logger.Log("WARN", "Failed to persist trip plan", map[string]interface{}{
				"trip_id": out.TripID,
				"error":   err.Error(),
			})
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	if s.tripRepo == nil {
		writeError(w, http.StatusNotFound, "trip persistence disabled")
		return
	}

	tripID := chi.URLParam(r, "tripID")
	out, err := s.tripRepo.Find(r.Context(), tripID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
