// Package audit records ordered, append-only change logs for ledger entities.
package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Well-known actions.
const (
	ActionCreated                = "Created"
	ActionUpdated                = "Updated"
	ActionFinalized              = "Finalized"
	ActionMonthCloseFinalized    = "Month Close Finalized"
	ActionVerified               = "Verified"
	ActionImported               = "Imported"
	ActionPlaceholderProvisioned = "Placeholder Provisioned"
)

// Entry is a single audit record.
type Entry struct {
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Detail      string    `json:"detail,omitempty"`
}

// NewEntry stamps an entry with the current UTC time.
func NewEntry(action, performedBy, detail string) Entry {
	return Entry{
		Timestamp:   time.Now().UTC(),
		Action:      action,
		PerformedBy: performedBy,
		Detail:      detail,
	}
}

// Trail is an ordered log. A nil Trail is an empty log; it is created on the
// first Append.
type Trail []Entry

// Append returns a new trail with e at the end. The receiver is never modified.
func (t Trail) Append(e Entry) Trail {
	out := make(Trail, len(t), len(t)+1)
	copy(out, t)

	return append(out, e)
}

// Last returns the most recent entry.
func (t Trail) Last() (Entry, bool) {
	if len(t) == 0 {
		return Entry{}, false
	}

	return t[len(t)-1], true
}

// Value stores the trail as a JSON array.
func (t Trail) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]Entry(t))
}

// Scan reads a JSON array produced by Value.
func (t *Trail) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit: cannot scan %T into Trail", src)
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("audit: decoding trail: %w", err)
	}

	*t = entries

	return nil
}

// JSON encodes a single entry as a one-element array, suitable for
// `audit_trail || $n::jsonb` appends.
func (e Entry) JSON() ([]byte, error) {
	return json.Marshal([]Entry{e})
}
