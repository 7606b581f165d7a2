// Package respond writes JSON bodies and RFC 7807 problem details for the
// API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
)

const problemContentType = "application/problem+json"

// ProblemDetail is an RFC 7807 body with the stable error code as an
// extension member.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// Error maps err to a problem response. Persistence failures are logged and
// answered with a generic detail.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	code := apperr.CodeOf(err)
	detail := err.Error()

	var (
		status int
		title  string
	)

	switch kind {
	case apperr.KindValidation:
		status, title = http.StatusBadRequest, "Validation error"
	case apperr.KindBusinessRule:
		status, title = http.StatusConflict, "Business rule violation"
	case apperr.KindNotFound:
		status, title = http.StatusNotFound, "Resource not found"
	default:
		status, title = http.StatusInternalServerError, "Persistence failure"
		code = string(apperr.KindPersistence)
		detail = "the operation could not be completed; no changes were saved"

		logging.FromContext(r.Context()).Error("request failed", "error", err)
	}

	var appErr *apperr.Error
	if kind != apperr.KindPersistence && errors.As(err, &appErr) {
		detail = appErr.Message
	}

	writeProblem(w, r, ProblemDetail{
		Type:   "urn:fleetfuel:problem:" + string(kind),
		Title:  title,
		Status: status,
		Detail: detail,
		Code:   code,
	})
}

// Problem writes a problem response for failures raised outside the
// services, such as rate limiting.
func Problem(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	writeProblem(w, r, ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Code:   code,
	})
}

func writeProblem(w http.ResponseWriter, r *http.Request, p ProblemDetail) {
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)

	if err := json.NewEncoder(w).Encode(p); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON request body into target.
func Decode(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperr.Validation("BODY_INVALID", "invalid request body: %v", err)
	}

	return nil
}

// ID parses the named URL parameter as a UUID.
func ID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.Validation("ID_INVALID", "invalid %s", param)
	}

	return id, nil
}

// Limit reads the limit query parameter; zero means the service default.
func Limit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperr.Validation("LIMIT_INVALID", "limit must be a non-negative integer")
	}

	return n, nil
}
