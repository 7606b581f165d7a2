package closing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	statementapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/statement"
)

type Handler struct {
	svc *closing.Service
}

func NewHandler(svc *closing.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.close)
}

// Period bounds are calendar dates, both inclusive.
type closeRequest struct {
	AccountID      uuid.UUID       `json:"account_id"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	PaymentsTotal  decimal.Decimal `json:"payments_total"`
}

type closeResponse struct {
	Statement      statementapi.StatementResponse      `json:"statement"`
	Reconciliation statementapi.ReconciliationResponse `json:"reconciliation"`
	Transactions   []statementapi.TransactionResponse  `json:"transactions"`
	FinalizedSlips []uuid.UUID                         `json:"finalized_slips"`
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	start, err := parseDate("period_start", req.PeriodStart)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	end, err := parseDate("period_end", req.PeriodEnd)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.svc.CloseFuelMonth(r.Context(), closing.CloseParams{
		AccountID:      req.AccountID,
		PeriodStart:    start,
		PeriodEnd:      end,
		OpeningBalance: req.OpeningBalance,
		PaymentsTotal:  req.PaymentsTotal,
		PerformedBy:    auth.Actor(r.Context()),
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	ids := make([]uuid.UUID, len(res.Finalized))
	for i, slip := range res.Finalized {
		ids[i] = slip.ID
	}

	respond.JSON(w, r, http.StatusCreated, closeResponse{
		Statement:      statementapi.ToStatementResponse(res.Statement),
		Reconciliation: statementapi.ToReconciliationResponse(res.Reconciliation),
		Transactions:   statementapi.ToTransactionList(res.Transactions),
		FinalizedSlips: ids,
	})
}

// parseDate leaves an empty value as the zero time so the service reports
// the field as missing.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, apperr.Validation("INVALID_PERIOD", "%s must be YYYY-MM-DD", field)
	}

	return t, nil
}
