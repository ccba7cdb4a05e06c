// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripplanner/internal/adapters/observability"
	"tripplanner/internal/app"
	"tripplanner/internal/domain"
)

// Planner is the slice of app.PlannerService the handlers need.
type Planner interface {
	Plan(ctx context.Context, req domain.PlanRequest) (domain.Itinerary, error)
	GetItinerary(ctx context.Context, id string) (domain.Itinerary, error)
	ListItineraries(ctx context.Context, q domain.ItineraryQuery) ([]domain.ItinerarySummary, error)
	AddActivities(ctx context.Context, id string, req app.AmendRequest) (domain.Itinerary, error)
	RepairMealSpacing(ctx context.Context, it domain.Itinerary) domain.Itinerary
	AuditCompliance(it domain.Itinerary) domain.ComplianceReport
	RescoreWithTravelTime(ctx context.Context, cands []domain.Candidate, ref domain.Coords, e domain.Energy, activityBudget int64) []domain.Candidate
}

type Handlers struct{ P Planner }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type rescoreRequest struct {
	Candidates     []domain.Candidate `json:"candidates"`
	Ref            *domain.Coords     `json:"ref"`
	Energy         domain.Energy      `json:"energy"`
	ActivityBudget int64              `json:"activity_budget"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/budget", h.allocateBudget)
		r.Post("/candidates/rescore", h.rescore)
		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/", h.plan)
			r.Get("/", h.listItineraries)
			r.Post("/repair", h.repair)
			r.Post("/audit", h.audit)
			r.Get("/{id}", h.getItinerary)
			r.Post("/{id}/activities", h.addActivities)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "itinerary not found")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) plan(w http.ResponseWriter, r *http.Request) {
	var req domain.PlanRequest
	if !decode(w, r, &req) {
		return
	}
	it, err := h.P.Plan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveItinerary(string(it.Energy), it.Compliance.Score, len(it.Violations))
	w.Header().Set("Location", "/v1/itineraries/"+it.ID)
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handlers) getItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.P.GetItinerary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, it)
}

func (h *Handlers) listItineraries(w http.ResponseWriter, r *http.Request) {
	q := domain.ItineraryQuery{Destination: r.URL.Query().Get("destination")}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		q.Limit = l
	}
	out, err := h.P.ListItineraries(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) addActivities(w http.ResponseWriter, r *http.Request) {
	var req app.AmendRequest
	if !decode(w, r, &req) {
		return
	}
	it, err := h.P.AddActivities(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handlers) repair(w http.ResponseWriter, r *http.Request) {
	var it domain.Itinerary
	if !decode(w, r, &it) {
		return
	}
	if len(it.Days) == 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "itinerary has no days")
		return
	}
	writeJSON(w, http.StatusOK, h.P.RepairMealSpacing(r.Context(), it))
}

func (h *Handlers) audit(w http.ResponseWriter, r *http.Request) {
	var it domain.Itinerary
	if !decode(w, r, &it) {
		return
	}
	writeJSON(w, http.StatusOK, h.P.AuditCompliance(it))
}

func (h *Handlers) rescore(w http.ResponseWriter, r *http.Request) {
	var req rescoreRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Ref == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "ref coordinates are required")
		return
	}
	out := h.P.RescoreWithTravelTime(r.Context(), req.Candidates, *req.Ref, domain.ParseEnergy(string(req.Energy)), req.ActivityBudget)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) allocateBudget(w http.ResponseWriter, r *http.Request) {
	total := app.DefaultBudgetVND
	if ts := r.URL.Query().Get("total"); ts != "" {
		n, err := strconv.ParseInt(ts, 10, 64)
		if err != nil || n < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid total", "total must be a non-negative integer")
			return
		}
		total = n
	}
	style := domain.ParseStyle(r.URL.Query().Get("style"))
	writeCacheable(w, r, app.AllocateBudget(total, style))
}
