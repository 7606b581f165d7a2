package fuelslip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
)

// State is the lifecycle state of a slip. FINALIZED is terminal for content.
type State string

const (
	StateDraft     State = "DRAFT"
	StateFinalized State = "FINALIZED"
)

// Verification records an auditor's sign-off. It is independent of State.
type Verification struct {
	By string
	At time.Time
}

// FuelSlip is a single fuel purchase.
type FuelSlip struct {
	ID              uuid.UUID
	SlipNumber      string
	TransactionDate time.Time
	FuelSourceID    uuid.UUID
	AccountID       uuid.UUID
	StationName     string
	VehicleID       uuid.UUID
	DriverID        *uuid.UUID
	TripID          *uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Total           decimal.Decimal
	Odometer        *int64
	State           State
	Verification    *Verification
	StatementID     *uuid.UUID
	AuditTrail      audit.Trail
	// LastStatusUpdate is stamped on every state change.
	LastStatusUpdate *time.Time
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func (s *FuelSlip) Finalized() bool {
	return s.State == StateFinalized
}

// Clone returns a deep copy.
func (s *FuelSlip) Clone() *FuelSlip {
	c := *s
	c.AuditTrail = append(audit.Trail(nil), s.AuditTrail...)

	if s.Verification != nil {
		v := *s.Verification
		c.Verification = &v
	}

	return &c
}

// CurrencyPlaces is the precision totals are kept at.
const CurrencyPlaces = 2

// ComputeTotal returns quantity × unit price at currency precision.
func ComputeTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(CurrencyPlaces)
}

// NumberPeriod is the counter key for slips dated t, e.g. "202405".
func NumberPeriod(t time.Time) string {
	return t.Format("200601")
}

// FormatNumber renders a generated slip number such as FS-202405-00042.
func FormatNumber(period string, seq int64) string {
	return fmt.Sprintf("FS-%s-%05d", period, seq)
}
