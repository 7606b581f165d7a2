package statement

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type Handler struct {
	svc       *statement.Service
	exportSvc *export.Service
}

func NewHandler(svc *statement.Service, exportSvc *export.Service) *Handler {
	return &Handler{svc: svc, exportSvc: exportSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Get("/{id}/transactions", h.transactions)
	r.Get("/{id}/export", h.export)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	st, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	rec, err := h.svc.Reconciliation(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, detailResponse{
		Statement:      ToStatementResponse(st),
		Reconciliation: new(ToReconciliationResponse(rec)),
	})
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	txs, err := h.svc.Transactions(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToTransactionList(txs))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	format := export.FormatZIP

	if s := r.URL.Query().Get("format"); s != "" {
		format, err = export.ParseFormat(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	file, err := h.exportSvc.Statement(r.Context(), id, format)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))

	if _, err := w.Write(file.Data); err != nil {
		logging.FromContext(r.Context()).Error("failed to write export", "error", err, "statement_id", id)
	}
}
