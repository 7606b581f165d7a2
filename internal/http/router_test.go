package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/auth"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/export"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	api "github.com/MrJamesThe3rd/fleetfuel/internal/http"
	accountapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/account"
	closingapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/closing"
	fleetapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/fleet"
	slipapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fleetfuel/internal/http/respond"
	statementapi "github.com/MrJamesThe3rd/fleetfuel/internal/http/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/store/memory"
)

const testSecret = "test-secret"

type testServer struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T, closeRateLimit int) *testServer {
	t.Helper()

	store := memory.New()

	var (
		accountService   = account.NewService(store)
		fleetService     = fleet.NewService(store)
		slipService      = fuelslip.NewService(store, accountService, fleetService)
		closingService   = closing.NewService(store)
		statementService = statement.NewService(store)
		exportService    = export.NewService(statementService, accountService)
	)

	handler := api.New(api.Options{
		Logger:         slog.New(slog.DiscardHandler),
		Verifier:       auth.NewVerifier(testSecret, false),
		AllowedOrigins: []string{"http://localhost:3000"},
		CloseRateLimit: closeRateLimit,
	}, api.Handlers{
		Slips:      slipapi.NewHandler(slipService),
		Import:     importcsv.NewHandler(importer.NewService(), slipService),
		Closes:     closingapi.NewHandler(closingService),
		Statements: statementapi.NewHandler(statementService, exportService),
		Accounts:   accountapi.NewHandler(accountService, statementService),
		Fleet:      fleetapi.NewHandler(fleetService),
	})

	return &testServer{t: t, store: store, handler: handler, token: sign(t, "controller")}
}

func sign(t *testing.T, subject string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return token
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Authorization", "Bearer "+s.token)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) upload(path, csv string) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(s.t, mw.WriteField("provider", "fuelcard"))

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(s.t, err)

	_, err = fw.Write([]byte(csv))
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

// setupLedger creates the BP Fuel Account with its station mapping and the
// vehicle AB12 CDE, and returns the account id.
func (s *testServer) setupLedger() uuid.UUID {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name":            "BP Fuel Account",
		"type":            "FUEL",
		"currency":        "GBP",
		"opening_balance": "50000.00",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	acc := decode[idResponse](s.t, rec)

	rec = s.do(http.MethodPost, "/api/v1/accounts/"+acc.ID.String()+"/fuel-sources", map[string]any{
		"name":          "BP stations",
		"kind":          "STATION",
		"match_pattern": "BP",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/fleet/vehicles", map[string]any{"registration": "AB12 CDE"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	return acc.ID
}

func (s *testServer) createSlip(date, qty, price string) uuid.UUID {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/v1/slips", map[string]any{
		"transaction_date":     date,
		"station_name":         "BP Depot North",
		"vehicle_registration": "AB12 CDE",
		"quantity":             qty,
		"unit_price":           price,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[idResponse](s.t, rec).ID
}

func closeBody(accountID uuid.UUID) map[string]any {
	return map[string]any{
		"account_id":      accountID,
		"period_start":    "2024-05-01",
		"period_end":      "2024-05-31",
		"opening_balance": "50000.00",
		"payments_total":  "12550.00",
	}
}

type closeResult struct {
	Statement struct {
		ID             uuid.UUID       `json:"id"`
		ClosingBalance decimal.Decimal `json:"closing_balance"`
		TotalDebits    decimal.Decimal `json:"total_debits"`
		TotalCredits   decimal.Decimal `json:"total_credits"`
		PeriodStart    string          `json:"period_start"`
	} `json:"statement"`
	Reconciliation struct {
		Variance decimal.Decimal `json:"variance"`
	} `json:"reconciliation"`
	Transactions   []json.RawMessage `json:"transactions"`
	FinalizedSlips []uuid.UUID       `json:"finalized_slips"`
}

func TestAPI_MonthCloseFlow(t *testing.T) {
	s := newTestServer(t, 0)
	accountID := s.setupLedger()

	first := s.createSlip("2024-05-03T07:15:00Z", "150", "35.90")
	second := s.createSlip("2024-05-31T23:59:59Z", "120", "40.00")
	june := s.createSlip("2024-06-01T00:00:00Z", "50", "41.00")

	rec := s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[closeResult](t, rec)
	assert.Equal(t, "52365.00", res.Statement.ClosingBalance.StringFixed(2))
	assert.Equal(t, "10185.00", res.Statement.TotalDebits.StringFixed(2))
	assert.Equal(t, "12550.00", res.Statement.TotalCredits.StringFixed(2))
	assert.Equal(t, "2365.00", res.Reconciliation.Variance.StringFixed(2))
	assert.Equal(t, "2024-05-01", res.Statement.PeriodStart)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, res.FinalizedSlips)
	assert.Len(t, res.Transactions, 3)

	statementPath := "/api/v1/statements/" + res.Statement.ID.String()

	rec = s.do(http.MethodGet, statementPath, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, statementPath+"/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]json.RawMessage](t, rec), 3)

	rec = s.do(http.MethodGet, "/api/v1/accounts/"+accountID.String()+"/statements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]idResponse](t, rec), 1)

	rec = s.do(http.MethodGet, "/api/v1/accounts/"+accountID.String()+"/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pending := decode[[]struct {
		SlipID uuid.UUID `json:"slip_id"`
	}](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, june, pending[0].SlipID)

	rec = s.do(http.MethodPatch, "/api/v1/slips/"+first.String(), map[string]any{"quantity": "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SLIP_FINALIZED", decode[respond.ProblemDetail](t, rec).Code)

	rec = s.do(http.MethodDelete, "/api/v1/slips/"+first.String(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/slips/"+first.String()+"/verify", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	verified := decode[struct {
		Status       string `json:"status"`
		Verification struct {
			By string `json:"by"`
		} `json:"verification"`
	}](t, rec)
	assert.Equal(t, "FINALIZED", verified.Status)
	assert.Equal(t, "controller", verified.Verification.By)

	rec = s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	assert.Equal(t, http.StatusConflict, rec.Code)

	problem := decode[respond.ProblemDetail](t, rec)
	assert.Equal(t, "DUPLICATE_PERIOD", problem.Code)
	assert.Equal(t, http.StatusConflict, problem.Status)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestAPI_StatementExport(t *testing.T) {
	s := newTestServer(t, 0)
	accountID := s.setupLedger()
	s.createSlip("2024-05-03T07:15:00Z", "150", "35.90")

	rec := s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	path := "/api/v1/statements/" + decode[closeResult](t, rec).Statement.ID.String() + "/export"

	tests := []struct {
		name        string
		query       string
		status      int
		contentType string
	}{
		{name: "DefaultZip", query: "", status: http.StatusOK, contentType: "application/zip"},
		{name: "XLSX", query: "?format=xlsx", status: http.StatusOK, contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{name: "PDF", query: "?format=pdf", status: http.StatusOK, contentType: "application/pdf"},
		{name: "UnknownFormat", query: "?format=docx", status: http.StatusBadRequest, contentType: "application/problem+json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, path+tt.query, nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))

			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
				assert.NotZero(t, rec.Body.Len())
			}
		})
	}
}

func TestAPI_ProblemMapping(t *testing.T) {
	s := newTestServer(t, 0)
	accountID := s.setupLedger()

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		status   int
		wantCode string
	}{
		{
			name:   "NonPositiveQuantity",
			method: http.MethodPost,
			path:   "/api/v1/slips",
			body: map[string]any{
				"transaction_date":     "2024-05-03T07:15:00Z",
				"station_name":         "BP Depot North",
				"vehicle_registration": "AB12 CDE",
				"quantity":             "0",
				"unit_price":           "35.90",
			},
			status:   http.StatusBadRequest,
			wantCode: "QUANTITY_NOT_POSITIVE",
		},
		{
			name:   "UnknownVehicle",
			method: http.MethodPost,
			path:   "/api/v1/slips",
			body: map[string]any{
				"transaction_date":     "2024-05-03T07:15:00Z",
				"station_name":         "BP Depot North",
				"vehicle_registration": "ZZ99 ZZZ",
				"quantity":             "10",
				"unit_price":           "35.90",
			},
			status:   http.StatusNotFound,
			wantCode: "VEHICLE_NOT_FOUND",
		},
		{
			name:     "MalformedID",
			method:   http.MethodGet,
			path:     "/api/v1/slips/not-a-uuid",
			status:   http.StatusBadRequest,
			wantCode: "ID_INVALID",
		},
		{
			name:     "UnknownSlip",
			method:   http.MethodGet,
			path:     "/api/v1/slips/" + uuid.NewString(),
			status:   http.StatusNotFound,
			wantCode: "SLIP_NOT_FOUND",
		},
		{
			name:     "UnknownStatement",
			method:   http.MethodGet,
			path:     "/api/v1/statements/" + uuid.NewString(),
			status:   http.StatusNotFound,
			wantCode: "STATEMENT_NOT_FOUND",
		},
		{
			name:     "BadListFilter",
			method:   http.MethodGet,
			path:     "/api/v1/slips?status=VOID",
			status:   http.StatusBadRequest,
			wantCode: "FILTER_INVALID",
		},
		{
			name:   "InvertedPeriod",
			method: http.MethodPost,
			path:   "/api/v1/closes",
			body: map[string]any{
				"account_id":     accountID,
				"period_start":   "2024-05-31",
				"period_end":     "2024-05-01",
				"payments_total": "0",
			},
			status:   http.StatusConflict,
			wantCode: "INVALID_PERIOD",
		},
		{
			name:   "MalformedPeriod",
			method: http.MethodPost,
			path:   "/api/v1/closes",
			body: map[string]any{
				"account_id":   accountID,
				"period_start": "May 2024",
				"period_end":   "2024-05-31",
			},
			status:   http.StatusBadRequest,
			wantCode: "INVALID_PERIOD",
		},
		{
			name:   "NegativePayments",
			method: http.MethodPost,
			path:   "/api/v1/closes",
			body: map[string]any{
				"account_id":     accountID,
				"period_start":   "2024-05-01",
				"period_end":     "2024-05-31",
				"payments_total": "-1",
			},
			status:   http.StatusBadRequest,
			wantCode: "PAYMENTS_TOTAL_NEGATIVE",
		},
		{
			name:   "UnknownAccountClose",
			method: http.MethodPost,
			path:   "/api/v1/closes",
			body: map[string]any{
				"account_id":   uuid.New(),
				"period_start": "2024-05-01",
				"period_end":   "2024-05-31",
			},
			status:   http.StatusNotFound,
			wantCode: "ACCOUNT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(tt.method, tt.path, tt.body)

			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			problem := decode[respond.ProblemDetail](t, rec)
			assert.Equal(t, tt.wantCode, problem.Code)
			assert.Equal(t, tt.status, problem.Status)
		})
	}
}

func TestAPI_PersistenceFailureIsOpaque(t *testing.T) {
	s := newTestServer(t, 0)
	accountID := s.setupLedger()
	s.createSlip("2024-05-03T07:15:00Z", "150", "35.90")

	s.store.FailNext("InsertReconciliation", errors.New("pq: relation reconciliations is locked by pid 4711"))

	rec := s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	problem := decode[respond.ProblemDetail](t, rec)
	assert.Equal(t, "PERSISTENCE_FAILURE", problem.Code)
	assert.NotContains(t, problem.Detail, "pid 4711")

	rec = s.do(http.MethodGet, "/api/v1/accounts/"+accountID.String()+"/statements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]idResponse](t, rec))
}

const importCSV = `Fuel Card Transactions;Account 400123

Transaction Date;Receipt No;Registration;Driver;Site;Quantity;Unit Price;Mileage
03/05/2024;R-1001;AB12 CDE;;BP Depot North;150,00;35,90;120.450
20/05/2024;R-1002;XY99 ZZZ;;BP Express Leeds;120,00;40,00;
`

func TestAPI_Import(t *testing.T) {
	s := newTestServer(t, 0)
	s.setupLedger()

	type conflictBody struct {
		New        []slipapi.ParamsDTO `json:"new"`
		Conflicts  []json.RawMessage   `json:"conflicts"`
		Unresolved []struct {
			Row  int    `json:"row"`
			Code string `json:"code"`
		} `json:"unresolved"`
	}

	rec := s.upload("/api/v1/import", importCSV)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	body := decode[conflictBody](t, rec)
	require.Len(t, body.Unresolved, 1)
	assert.Equal(t, 2, body.Unresolved[0].Row)
	assert.Equal(t, "VEHICLE_NOT_FOUND", body.Unresolved[0].Code)
	assert.Empty(t, body.Conflicts)

	rec = s.do(http.MethodGet, "/api/v1/slips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]idResponse](t, rec))

	rec = s.do(http.MethodPost, "/api/v1/fleet/vehicles", map[string]any{"registration": "XY99 ZZZ"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.upload("/api/v1/import", importCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	imported := decode[struct {
		Imported int `json:"imported"`
	}](t, rec)
	assert.Equal(t, 2, imported.Imported)

	rec = s.upload("/api/v1/import", importCSV)
	require.Equal(t, http.StatusConflict, rec.Code)

	body = decode[conflictBody](t, rec)
	assert.Len(t, body.Conflicts, 2)
	assert.Empty(t, body.New)
}

func TestAPI_ImportConfirm(t *testing.T) {
	s := newTestServer(t, 0)
	s.setupLedger()

	rec := s.do(http.MethodPost, "/api/v1/import/confirm", map[string]any{
		"params": []map[string]any{{
			"slip_number":          "R-2001",
			"transaction_date":     "2024-05-03T00:00:00Z",
			"station_name":         "BP Depot North",
			"vehicle_registration": "AB12 CDE",
			"quantity":             "10",
			"unit_price":           "1.50",
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decode[struct {
		Imported int `json:"imported"`
		Slips    []struct {
			SlipNumber string          `json:"slip_number"`
			Total      decimal.Decimal `json:"total"`
			Status     string          `json:"status"`
		} `json:"slips"`
	}](t, rec)

	require.Equal(t, 1, resp.Imported)
	assert.Equal(t, "R-2001", resp.Slips[0].SlipNumber)
	assert.Equal(t, "15.00", resp.Slips[0].Total.StringFixed(2))
	assert.Equal(t, "DRAFT", resp.Slips[0].Status)
}

func TestAPI_Authentication(t *testing.T) {
	s := newTestServer(t, 0)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "Missing", header: "", status: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic Zm9vOmJhcg==", status: http.StatusUnauthorized},
		{name: "BadSignature", header: "Bearer " + signWith(t, "other-secret"), status: http.StatusUnauthorized},
		{name: "Valid", header: "Bearer " + s.token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func signWith(t *testing.T, secret string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "intruder"}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestAPI_CloseRateLimited(t *testing.T) {
	s := newTestServer(t, 1)
	accountID := s.setupLedger()

	rec := s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/closes", closeBody(accountID))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decode[respond.ProblemDetail](t, rec).Code)
}

func TestAPI_MetricsIsPublic(t *testing.T) {
	s := newTestServer(t, 0)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
