package reservations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"carona-service/pkg/jwt"
)

// Handler exposes reservation HTTP endpoints.
type Handler struct{ svc *Service }

// NewHandler wires a handler to the reservation service.
func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// Routes returns a chi.Router with all reservation routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)

	r.Get("/", h.List)
	r.Post("/{rideID}", h.Reserve)
	r.Delete("/{rideID}", h.Cancel)

	return r
}

func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	snap, err := h.svc.Reserve(r.Context(), claims, chi.URLParam(r, "rideID"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	snap, err := h.svc.Cancel(r.Context(), claims, chi.URLParam(r, "rideID"))
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())

	ids, err := h.svc.ListRideIDs(r.Context(), claims)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ride_ids": ids})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRideNotFound), errors.Is(err, ErrNotReserved):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyReserved):
		return http.StatusConflict
	case errors.Is(err, ErrRideFull), errors.Is(err, ErrOwnRide):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
