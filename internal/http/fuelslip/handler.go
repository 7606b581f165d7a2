package fuelslip

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
)

type Handler struct {
	svc *fuelslip.Service
}

func NewHandler(svc *fuelslip.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/finalize", h.finalize)
	r.Post("/{id}/verify", h.verify)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req ParamsDTO
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	slip, err := h.svc.Create(r.Context(), req.Params(auth.Actor(r.Context())))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, ToResponse(slip))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slips, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponseList(slips))
}

func parseFilter(r *http.Request) (fuelslip.ListFilter, error) {
	q := r.URL.Query()
	filter := fuelslip.ListFilter{}

	ids := map[string]**uuid.UUID{
		"account_id": &filter.AccountID,
		"vehicle_id": &filter.VehicleID,
		"driver_id":  &filter.DriverID,
		"trip_id":    &filter.TripID,
	}

	for key, dst := range ids {
		s := q.Get(key)
		if s == "" {
			continue
		}

		id, err := uuid.Parse(s)
		if err != nil {
			return filter, apperr.Validation("FILTER_INVALID", "invalid %s", key)
		}

		*dst = &id
	}

	if s := q.Get("status"); s != "" {
		state := fuelslip.State(s)
		if state != fuelslip.StateDraft && state != fuelslip.StateFinalized {
			return filter, apperr.Validation("FILTER_INVALID", "invalid status %q", s)
		}

		filter.State = &state
	}

	dates := map[string]**time.Time{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	}

	for key, dst := range dates {
		s := q.Get(key)
		if s == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, apperr.Validation("FILTER_INVALID", "%s must be YYYY-MM-DD", key)
		}

		*dst = &t
	}

	limit, err := respond.Limit(r)
	if err != nil {
		return filter, err
	}

	filter.Limit = limit

	return filter, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slip, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(slip))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateSlipRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	slip, err := h.svc.Update(r.Context(), id, req.params(), auth.Actor(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(slip))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slip, err := h.svc.Finalize(r.Context(), id, auth.Actor(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(slip))
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slip, err := h.svc.Verify(r.Context(), id, auth.Actor(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(slip))
}
