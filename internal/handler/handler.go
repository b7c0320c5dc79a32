// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/thecajunmenu/reservations/internal/model"
	"github.com/thecajunmenu/reservations/internal/service"
)

// ReservationHandler holds all HTTP handlers for the reservation API.
type ReservationHandler struct {
	svc *service.ReservationService
	log *zap.Logger
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{svc: svc, log: log}
}

// Routes assembles the /api sub-router. The reservation log endpoint is only
// mounted when storage is configured. A wrong verb on any route is rejected
// before processing.
func (h *ReservationHandler) Routes(withReservationLog bool) chi.Router {
	r := chi.NewRouter()
	r.MethodNotAllowed(MethodNotAllowed)
	r.Post("/reserve", h.Reserve)
	if withReservationLog {
		r.Get("/reservations", h.ListReservations)
	}
	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Reserve handles POST /api/reserve.
// It validates the submission, then dispatches owner and customer
// notifications on both channels and reports the per-channel outcome. The
// response is 200 when at least one channel succeeded, 500 when both failed.
func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req model.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		// An unreadable body is the one condition the reservation form has
		// always seen as a server error, not a field problem.
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   "Internal Server Error",
			Details: err.Error(),
		})
		return
	}

	if err := h.svc.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, artifact, err := h.svc.Process(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Delivered() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, model.ReserveResponse{
		Success:  result.Delivered(),
		Message:  "Reservation processed",
		Details:  result,
		Calendar: artifact.Text(),
	})
}

// ListReservations handles GET /api/reservations.
// Returns the operator's reservation log, newest first.
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListReservations(r.Context())
	if err != nil {
		h.log.Error("list reservations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if records == nil {
		records = []model.ReservationRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
