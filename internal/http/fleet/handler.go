package fleet

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
)

type Handler struct {
	svc *fleet.Service
}

func NewHandler(svc *fleet.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/vehicles", h.provisionVehicle)
	r.Post("/drivers", h.provisionDriver)
}

type provisionVehicleRequest struct {
	Registration string `json:"registration"`
}

type provisionDriverRequest struct {
	Name string `json:"name"`
}

type vehicleResponse struct {
	ID           uuid.UUID     `json:"id"`
	Registration string        `json:"registration"`
	Description  string        `json:"description,omitempty"`
	Placeholder  bool          `json:"placeholder"`
	AuditTrail   []audit.Entry `json:"audit_trail"`
	CreatedAt    time.Time     `json:"created_at"`
}

type driverResponse struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Placeholder bool          `json:"placeholder"`
	AuditTrail  []audit.Entry `json:"audit_trail"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (h *Handler) provisionVehicle(w http.ResponseWriter, r *http.Request) {
	var req provisionVehicleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	v, err := h.svc.ProvisionVehicle(r.Context(), req.Registration, auth.Actor(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, vehicleResponse{
		ID:           v.ID,
		Registration: v.Registration,
		Description:  v.Description,
		Placeholder:  v.Placeholder,
		AuditTrail:   trail(v.AuditTrail),
		CreatedAt:    v.CreatedAt,
	})
}

func (h *Handler) provisionDriver(w http.ResponseWriter, r *http.Request) {
	var req provisionDriverRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	d, err := h.svc.ProvisionDriver(r.Context(), req.Name, auth.Actor(r.Context()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, driverResponse{
		ID:          d.ID,
		Name:        d.Name,
		Placeholder: d.Placeholder,
		AuditTrail:  trail(d.AuditTrail),
		CreatedAt:   d.CreatedAt,
	})
}

func trail(t audit.Trail) []audit.Entry {
	if t == nil {
		return []audit.Entry{}
	}

	return []audit.Entry(t)
}
