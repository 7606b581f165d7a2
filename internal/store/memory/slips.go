package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

// insertSlipLocked assigns id, number and timestamps and stores a copy.
// s.mu must be held for writing.
func (s *Store) insertSlipLocked(slip *fuelslip.FuelSlip) error {
	if slip.SlipNumber == "" {
		period := fuelslip.NumberPeriod(slip.TransactionDate)
		s.counters[period]++
		slip.SlipNumber = fuelslip.FormatNumber(period, s.counters[period])
	}

	for _, existing := range s.slips {
		if existing.SlipNumber == slip.SlipNumber {
			return apperr.BusinessRule("DUPLICATE_SLIP_NUMBER", "slip number %s already exists", slip.SlipNumber)
		}
	}

	slip.ID = uuid.New()
	slip.CreatedAt = s.now()
	s.slips[slip.ID] = slip.Clone()

	return nil
}

func (s *Store) CreateSlip(_ context.Context, slip *fuelslip.FuelSlip) error {
	if err := s.fail("CreateSlip"); err != nil {
		return apperr.Persistence("creating slip", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertSlipLocked(slip)
}

func (s *Store) GetSlip(_ context.Context, id uuid.UUID) (*fuelslip.FuelSlip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slip, ok := s.slips[id]
	if !ok {
		return nil, apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
	}

	return slip.Clone(), nil
}

func (s *Store) ListSlips(_ context.Context, filter fuelslip.ListFilter) ([]*fuelslip.FuelSlip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*fuelslip.FuelSlip

	for _, slip := range s.slips {
		if matches(slip, filter) {
			out = append(out, slip.Clone())
		}
	}

	sortSlips(out)

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func matches(slip *fuelslip.FuelSlip, f fuelslip.ListFilter) bool {
	switch {
	case f.AccountID != nil && slip.AccountID != *f.AccountID:
		return false
	case f.VehicleID != nil && slip.VehicleID != *f.VehicleID:
		return false
	case f.DriverID != nil && (slip.DriverID == nil || *slip.DriverID != *f.DriverID):
		return false
	case f.TripID != nil && (slip.TripID == nil || *slip.TripID != *f.TripID):
		return false
	case f.State != nil && slip.State != *f.State:
		return false
	case f.StartDate != nil && slip.TransactionDate.Before(*f.StartDate):
		return false
	case f.EndDate != nil && !slip.TransactionDate.Before(f.EndDate.AddDate(0, 0, 1)):
		return false
	}

	return true
}

func sortSlips(slips []*fuelslip.FuelSlip) {
	sort.Slice(slips, func(i, j int) bool {
		if !slips[i].TransactionDate.Equal(slips[j].TransactionDate) {
			return slips[i].TransactionDate.Before(slips[j].TransactionDate)
		}

		return slips[i].SlipNumber < slips[j].SlipNumber
	})
}

// draftLocked returns the stored slip if it is still DRAFT, or the error a
// guarded write reports. s.mu must be held.
func (s *Store) draftLocked(id uuid.UUID, code string) (*fuelslip.FuelSlip, error) {
	slip, ok := s.slips[id]
	if !ok {
		return nil, apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
	}

	if slip.Finalized() {
		return nil, apperr.BusinessRule(code, "slip %s is %s", id, slip.State)
	}

	return slip, nil
}

func (s *Store) UpdateDraft(_ context.Context, slip *fuelslip.FuelSlip, entry audit.Entry) error {
	if err := s.fail("UpdateDraft"); err != nil {
		return apperr.Persistence("updating slip", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.draftLocked(slip.ID, "SLIP_FINALIZED")
	if err != nil {
		return err
	}

	next := slip.Clone()
	next.SlipNumber = stored.SlipNumber
	next.State = stored.State
	next.StatementID = stored.StatementID
	next.CreatedAt = stored.CreatedAt
	next.AuditTrail = stored.AuditTrail.Append(entry)
	next.UpdatedAt = new(s.now())

	s.slips[slip.ID] = next

	return nil
}

func (s *Store) DeleteDraft(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.draftLocked(id, "SLIP_FINALIZED"); err != nil {
		return err
	}

	delete(s.slips, id)

	return nil
}

func (s *Store) Finalize(_ context.Context, id uuid.UUID, at time.Time, entry audit.Entry) error {
	if err := s.fail("Finalize"); err != nil {
		return apperr.Persistence("finalizing slip", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.draftLocked(id, "SLIP_ALREADY_FINALIZED")
	if err != nil {
		return err
	}

	next := stored.Clone()
	next.State = fuelslip.StateFinalized
	next.LastStatusUpdate = &at
	next.AuditTrail = stored.AuditTrail.Append(entry)
	next.UpdatedAt = new(s.now())

	s.slips[id] = next

	return nil
}

func (s *Store) Verify(_ context.Context, id uuid.UUID, v fuelslip.Verification, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.slips[id]
	if !ok {
		return apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
	}

	next := stored.Clone()
	next.Verification = &v
	next.AuditTrail = stored.AuditTrail.Append(entry)
	next.UpdatedAt = new(s.now())

	s.slips[id] = next

	return nil
}

// BeginImport serialises imports; created slips become visible on Commit.
func (s *Store) BeginImport(_ context.Context) (fuelslip.ImportTx, error) {
	if err := s.fail("BeginImport"); err != nil {
		return nil, apperr.Persistence("begin import", err)
	}

	s.importMu.Lock()

	return &importTx{s: s}, nil
}

type importTx struct {
	s      *Store
	staged []*fuelslip.FuelSlip
	done   bool
}

func (t *importTx) FindExisting(_ context.Context, slipNumbers []string) ([]*fuelslip.FuelSlip, error) {
	want := make(map[string]bool, len(slipNumbers))
	for _, n := range slipNumbers {
		want[n] = true
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var out []*fuelslip.FuelSlip

	for _, slip := range t.s.slips {
		if want[slip.SlipNumber] {
			out = append(out, slip.Clone())
		}
	}

	sortSlips(out)

	return out, nil
}

func (t *importTx) CreateSlips(_ context.Context, slips []*fuelslip.FuelSlip) error {
	if err := t.s.fail("CreateSlips"); err != nil {
		return apperr.Persistence("creating slips", err)
	}

	t.staged = append(t.staged, slips...)

	return nil
}

func (t *importTx) Commit() error {
	if t.done {
		return nil
	}

	defer t.release()

	if err := t.s.fail("Commit"); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snapshot := make(map[uuid.UUID]bool, len(t.s.slips))
	for id := range t.s.slips {
		snapshot[id] = true
	}

	counters := make(map[string]int64, len(t.s.counters))
	for k, v := range t.s.counters {
		counters[k] = v
	}

	for _, slip := range t.staged {
		if err := t.s.insertSlipLocked(slip); err != nil {
			for id := range t.s.slips {
				if !snapshot[id] {
					delete(t.s.slips, id)
				}
			}

			t.s.counters = counters

			return err
		}
	}

	return nil
}

func (t *importTx) Rollback() error {
	if t.done {
		return nil
	}

	t.release()

	return nil
}

func (t *importTx) release() {
	t.done = true
	t.staged = nil
	t.s.importMu.Unlock()
}
