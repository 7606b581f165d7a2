// Package fleet resolves vehicle and driver identities for fuel slips.
//
// Lookups by natural key never create records. A caller that wants a record
// for an unknown registration or driver name provisions it explicitly; the
// resulting record is flagged as a placeholder so it can be completed or
// merged later.
package fleet

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
)

type Vehicle struct {
	ID           uuid.UUID
	Registration string
	Description  string
	Placeholder  bool
	AuditTrail   audit.Trail
	CreatedAt    time.Time
}

type Driver struct {
	ID          uuid.UUID
	Name        string
	Placeholder bool
	AuditTrail  audit.Trail
	CreatedAt   time.Time
}

// Ref identifies a vehicle or driver either by id or by natural key
// (registration for vehicles, full name for drivers).
type Ref struct {
	ID  *uuid.UUID
	Key string
}

func (r Ref) IsZero() bool {
	return r.ID == nil && r.Key == ""
}
