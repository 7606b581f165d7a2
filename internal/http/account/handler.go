package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	statementapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type Handler struct {
	accounts   *account.Service
	statements *statement.Service
}

func NewHandler(accounts *account.Service, statements *statement.Service) *Handler {
	return &Handler{accounts: accounts, statements: statements}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Get("/{id}/statements", h.listStatements)
	r.Get("/{id}/pending", h.listPending)
	r.Get("/{id}/fuel-sources", h.listFuelSources)
	r.Post("/{id}/fuel-sources", h.createFuelSource)
}

type accountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      account.Type    `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type fuelSourceResponse struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Kind         account.SourceKind `json:"kind"`
	MatchPattern string             `json:"match_pattern"`
	AccountID    uuid.UUID          `json:"account_id"`
	CreatedAt    time.Time          `json:"created_at"`
}

type createAccountRequest struct {
	Name           string          `json:"name"`
	Type           account.Type    `json:"type"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

type createFuelSourceRequest struct {
	Name         string             `json:"name"`
	Kind         account.SourceKind `json:"kind"`
	MatchPattern string             `json:"match_pattern"`
}

func toAccountResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Currency:  a.Currency,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toFuelSourceResponse(src *account.FuelSource) fuelSourceResponse {
	return fuelSourceResponse{
		ID:           src.ID,
		Name:         src.Name,
		Kind:         src.Kind,
		MatchPattern: src.MatchPattern,
		AccountID:    src.AccountID,
		CreatedAt:    src.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toAccountResponse(a)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	acc, err := h.accounts.Create(r.Context(), account.CreateParams{
		Name:           req.Name,
		Type:           req.Type,
		Currency:       req.Currency,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toAccountResponse(acc))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	acc, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toAccountResponse(acc))
}

func (h *Handler) listStatements(w http.ResponseWriter, r *http.Request) {
	id, limit, ok := h.accountAndLimit(w, r)
	if !ok {
		return
	}

	sts, err := h.statements.ListByAccount(r.Context(), id, limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, statementapi.ToStatementList(sts))
}

func (h *Handler) listPending(w http.ResponseWriter, r *http.Request) {
	id, limit, ok := h.accountAndLimit(w, r)
	if !ok {
		return
	}

	pending, err := h.statements.Pending(r.Context(), id, limit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, statementapi.ToPendingList(pending))
}

// accountAndLimit parses the account id and limit and checks that the
// account exists, writing the error response itself when not ok.
func (h *Handler) accountAndLimit(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return uuid.Nil, 0, false
	}

	limit, err := respond.Limit(r)
	if err != nil {
		respond.Error(w, r, err)
		return uuid.Nil, 0, false
	}

	if _, err := h.accounts.Get(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return uuid.Nil, 0, false
	}

	return id, limit, true
}

func (h *Handler) listFuelSources(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	sources, err := h.accounts.ListFuelSources(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]fuelSourceResponse, len(sources))
	for i, src := range sources {
		resp[i] = toFuelSourceResponse(src)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) createFuelSource(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req createFuelSourceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	src, err := h.accounts.CreateFuelSource(r.Context(), account.FuelSourceParams{
		Name:         req.Name,
		Kind:         req.Kind,
		MatchPattern: req.MatchPattern,
		AccountID:    id,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toFuelSourceResponse(src))
}
