// Package apperr defines the error taxonomy shared by the ledger services.
//
// Every error returned across a service boundary is one of four kinds and can
// be matched with errors.Is against the kind sentinels. Errors built with the
// constructors below also carry a stable Code suitable for API clients.
package apperr

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an error for propagation and transport mapping.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindBusinessRule Kind = "BUSINESS_RULE_VIOLATION"
	KindNotFound     Kind = "RESOURCE_NOT_FOUND"
	KindPersistence  Kind = "PERSISTENCE_FAILURE"
)

var (
	// ErrValidation matches malformed or missing input detected before persistence.
	ErrValidation = errors.New("validation error")
	// ErrBusinessRule matches operations rejected by a ledger rule.
	ErrBusinessRule = errors.New("business rule violation")
	// ErrNotFound matches unknown accounts, slips, statements and identities.
	ErrNotFound = errors.New("resource not found")
	// ErrPersistence matches storage failures. The unit of work has been rolled back.
	ErrPersistence = errors.New("persistence failure")
	// ErrDuplicatePeriod matches a close for an (account, period) that already has a statement.
	ErrDuplicatePeriod = errors.New("statement already exists for period")
)

// Error is a classified error with a stable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == kindSentinel(e.Kind)
}

func kindSentinel(k Kind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindBusinessRule:
		return ErrBusinessRule
	case KindNotFound:
		return ErrNotFound
	case KindPersistence:
		return ErrPersistence
	}

	return nil
}

func Validation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func BusinessRule(code, format string, args ...any) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(code, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps a storage error. The underlying error is kept for logs only.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: "PERSISTENCE_FAILURE", Message: op, Err: err}
}

// DuplicatePeriodError is returned when a statement already exists for the
// account and period bounds of a close.
type DuplicatePeriodError struct {
	AccountID   uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

func (e *DuplicatePeriodError) Error() string {
	return fmt.Sprintf("DUPLICATE_PERIOD: statement already exists for account %s period %s..%s",
		e.AccountID, e.PeriodStart.Format(time.DateOnly), e.PeriodEnd.Format(time.DateOnly))
}

// Is matches both ErrDuplicatePeriod and ErrBusinessRule.
func (e *DuplicatePeriodError) Is(target error) bool {
	return target == ErrDuplicatePeriod || target == ErrBusinessRule
}

// KindOf returns the kind of err, or KindPersistence for unclassified errors.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrBusinessRule):
		return KindBusinessRule
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindPersistence
	}
}

// CodeOf returns the stable code carried by err, if any.
func CodeOf(err error) string {
	var dup *DuplicatePeriodError
	if errors.As(err, &dup) {
		return "DUPLICATE_PERIOD"
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return string(KindPersistence)
}
