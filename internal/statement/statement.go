// Package statement holds closed-period account statements, their
// reconciliation snapshots and ledger postings, and the read queries over
// them. Rows are written once by the month close and never updated.
package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statement summarises one closed period of an account.
//
// ClosingBalance = OpeningBalance + TotalCredits - TotalDebits.
type Statement struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	PeriodStart    time.Time
	PeriodEnd      time.Time
	StatementDate  time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalDebits    decimal.Decimal
	TotalCredits   decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
}

// Reconciliation compares slip totals against externally reported payments.
//
// Variance = PaymentsTotal - SlipsTotal.
type Reconciliation struct {
	ID            uuid.UUID
	StatementID   uuid.UUID
	AccountID     uuid.UUID
	AccountName   string
	SlipsTotal    decimal.Decimal
	PaymentsTotal decimal.Decimal
	Variance      decimal.Decimal
	PeriodStart   time.Time
	PeriodEnd     time.Time
	CreatedBy     string
	CreatedAt     time.Time
}

type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Source types of postings.
const (
	SourceFuelSlip = "FUEL_SLIP"
	SourcePayments = "PAYMENTS"
)

// Transaction is a ledger posting against an account.
type Transaction struct {
	ID              uuid.UUID
	AccountID       uuid.UUID
	TransactionDate time.Time
	PostingDate     time.Time
	Amount          decimal.Decimal
	Direction       Direction
	SourceType      string
	SourceID        *uuid.UUID
	// Reference is a human readable source reference, e.g. the slip number.
	Reference   string
	StatementID *uuid.UUID
}

// Pending is an unfinalized slip shown as a prospective debit.
type Pending struct {
	SlipID          uuid.UUID
	SlipNumber      string
	TransactionDate time.Time
	StationName     string
	Amount          decimal.Decimal
	Direction       Direction
}
