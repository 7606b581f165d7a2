package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies what an account tracks.
type Type string

const (
	TypeFuel     Type = "FUEL"
	TypeBank     Type = "BANK"
	TypeCash     Type = "CASH"
	TypeSupplier Type = "SUPPLIER"
)

// Account is a ledger account. Balance only moves through statement closes.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	Currency  string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SourceKind is the physical kind of a fuel source.
type SourceKind string

const (
	SourceStation  SourceKind = "STATION"
	SourceYardTank SourceKind = "YARD_TANK"
	SourceCard     SourceKind = "CARD"
)

// FuelSource maps a station, yard tank or fuel card to the account its
// purchases are charged to. MatchPattern is matched case-insensitively
// against station names on slips.
type FuelSource struct {
	ID           uuid.UUID
	Name         string
	Kind         SourceKind
	MatchPattern string
	AccountID    uuid.UUID
	CreatedAt    time.Time
}
