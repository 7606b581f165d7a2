package fuelslip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/metrics"
	"github.com/MrJamesThe3rd/fleetfuel/internal/validation"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=fuelslip
type Repository interface {
	// CreateSlip persists a DRAFT slip, allocating a slip number when empty.
	CreateSlip(ctx context.Context, slip *FuelSlip) error
	GetSlip(ctx context.Context, id uuid.UUID) (*FuelSlip, error)
	ListSlips(ctx context.Context, filter ListFilter) ([]*FuelSlip, error)

	// UpdateDraft, DeleteDraft and Finalize only touch slips still in DRAFT.
	// They fail with a business rule violation if the slip was finalized
	// concurrently.
	UpdateDraft(ctx context.Context, slip *FuelSlip, entry audit.Entry) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	Finalize(ctx context.Context, id uuid.UUID, at time.Time, entry audit.Entry) error
	Verify(ctx context.Context, id uuid.UUID, v Verification, entry audit.Entry) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	FindExisting(ctx context.Context, slipNumbers []string) ([]*FuelSlip, error)
	CreateSlips(ctx context.Context, slips []*FuelSlip) error
	Commit() error
	Rollback() error
}

// SourceResolver maps a slip to the fuel source, and so the account, it is
// charged to.
type SourceResolver interface {
	ResolveFuelSource(ctx context.Context, id *uuid.UUID, stationName string) (*account.FuelSource, error)
}

// FleetResolver resolves vehicle and driver identities without provisioning.
type FleetResolver interface {
	ResolveVehicle(ctx context.Context, ref fleet.Ref) (*fleet.Vehicle, error)
	ResolveDriver(ctx context.Context, ref fleet.Ref) (*fleet.Driver, error)
}

type Service struct {
	repo     Repository
	sources  SourceResolver
	fleet    FleetResolver
	validate *validation.Validator
	now      func() time.Time
}

func NewService(repo Repository, sources SourceResolver, fleet FleetResolver) *Service {
	return &Service{
		repo:     repo,
		sources:  sources,
		fleet:    fleet,
		validate: validation.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateParams struct {
	// SlipNumber is optional; one is generated when empty.
	SlipNumber      string          `validate:"omitempty,max=40"`
	TransactionDate time.Time       `validate:"required"`
	FuelSourceID    *uuid.UUID
	StationName     string          `validate:"required,max=200"`
	Vehicle         fleet.Ref
	Driver          fleet.Ref
	TripID          *uuid.UUID
	Quantity        decimal.Decimal `validate:"gt=0,scale=3"`
	UnitPrice       decimal.Decimal `validate:"gt=0,scale=4"`
	Odometer        *int64          `validate:"omitempty,gte=0"`
	PerformedBy     string          `validate:"required"`
}

type UpdateParams struct {
	TransactionDate *time.Time
	StationName     *string
	FuelSourceID    *uuid.UUID
	Vehicle         *fleet.Ref
	Driver          *fleet.Ref
	TripID          *uuid.UUID
	Quantity        *decimal.Decimal
	UnitPrice       *decimal.Decimal
	Odometer        *int64
}

type ListFilter struct {
	AccountID *uuid.UUID
	VehicleID *uuid.UUID
	DriverID  *uuid.UUID
	TripID    *uuid.UUID
	State     *State
	StartDate *time.Time
	// EndDate is inclusive of the whole day.
	EndDate *time.Time
	Limit   int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*FuelSlip, error) {
	slip, err := s.build(ctx, params, audit.ActionCreated, "")
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateSlip(ctx, slip); err != nil {
		return nil, err
	}

	metrics.AddSlipsCreated("manual", 1)

	return slip, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*FuelSlip, error) {
	return s.repo.GetSlip(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*FuelSlip, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	return s.repo.ListSlips(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams, performedBy string) (*FuelSlip, error) {
	current, err := s.repo.GetSlip(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Finalized() {
		logging.FromContext(ctx).Warn("rejected update of finalized slip", "slip_id", id)
		return nil, finalizedErr(current)
	}

	merged := paramsOf(current, performedBy)

	var changed []string

	if params.TransactionDate != nil {
		merged.TransactionDate = *params.TransactionDate
		changed = append(changed, "transaction_date")
	}

	if params.StationName != nil {
		merged.StationName = *params.StationName
		changed = append(changed, "station_name")

		if params.FuelSourceID == nil {
			merged.FuelSourceID = nil
		}
	}

	if params.FuelSourceID != nil {
		merged.FuelSourceID = params.FuelSourceID
		changed = append(changed, "fuel_source")
	}

	if params.Vehicle != nil {
		merged.Vehicle = *params.Vehicle
		changed = append(changed, "vehicle")
	}

	if params.Driver != nil {
		merged.Driver = *params.Driver
		changed = append(changed, "driver")
	}

	if params.TripID != nil {
		merged.TripID = params.TripID
		changed = append(changed, "trip")
	}

	if params.Quantity != nil {
		merged.Quantity = *params.Quantity
		changed = append(changed, "quantity")
	}

	if params.UnitPrice != nil {
		merged.UnitPrice = *params.UnitPrice
		changed = append(changed, "unit_price")
	}

	if params.Odometer != nil {
		merged.Odometer = params.Odometer
		changed = append(changed, "odometer")
	}

	if len(changed) == 0 {
		return current, nil
	}

	next, err := s.build(ctx, merged, audit.ActionUpdated, "")
	if err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.SlipNumber = current.SlipNumber
	next.CreatedAt = current.CreatedAt
	next.AuditTrail = current.AuditTrail
	next.Verification = current.Verification
	next.LastStatusUpdate = current.LastStatusUpdate

	entry := audit.NewEntry(audit.ActionUpdated, performedBy, "changed "+strings.Join(changed, ", "))
	if err := s.repo.UpdateDraft(ctx, next, entry); err != nil {
		return nil, err
	}

	next.AuditTrail = current.AuditTrail.Append(entry)

	return next, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetSlip(ctx, id)
	if err != nil {
		return err
	}

	if current.Finalized() {
		logging.FromContext(ctx).Warn("rejected delete of finalized slip", "slip_id", id)
		return finalizedErr(current)
	}

	return s.repo.DeleteDraft(ctx, id)
}

// Finalize moves a DRAFT slip to FINALIZED. Finalizing twice fails.
func (s *Service) Finalize(ctx context.Context, id uuid.UUID, performedBy string) (*FuelSlip, error) {
	current, err := s.repo.GetSlip(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Finalized() {
		return nil, apperr.BusinessRule("SLIP_ALREADY_FINALIZED", "slip %s is already finalized", current.SlipNumber)
	}

	at := s.now()
	entry := audit.NewEntry(audit.ActionFinalized, performedBy, "")

	if err := s.repo.Finalize(ctx, id, at, entry); err != nil {
		return nil, err
	}

	metrics.AddSlipsFinalized("manual", 1)

	current.State = StateFinalized
	current.LastStatusUpdate = &at
	current.AuditTrail = current.AuditTrail.Append(entry)

	return current, nil
}

// Verify stamps auditor sign-off. It is allowed in any state.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, verifiedBy string) (*FuelSlip, error) {
	verifiedBy = strings.TrimSpace(verifiedBy)
	if verifiedBy == "" {
		return nil, apperr.Validation("VERIFIED_BY_REQUIRED", "verifier is required")
	}

	current, err := s.repo.GetSlip(ctx, id)
	if err != nil {
		return nil, err
	}

	v := Verification{By: verifiedBy, At: s.now()}
	entry := audit.NewEntry(audit.ActionVerified, verifiedBy, "")

	if err := s.repo.Verify(ctx, id, v, entry); err != nil {
		return nil, err
	}

	current.Verification = &v
	current.AuditTrail = current.AuditTrail.Append(entry)

	return current, nil
}

type ImportResult struct {
	Imported   []*FuelSlip
	New        []CreateParams
	Conflicts  []Conflict
	Unresolved []Unresolved
}

// Conflict is an incoming row whose slip number already exists.
type Conflict struct {
	Incoming CreateParams
	Existing *FuelSlip
}

// Unresolved is an incoming row that could not be turned into a slip, for
// example because its vehicle registration is unknown.
type Unresolved struct {
	Row      int
	Incoming CreateParams
	Err      error
}

// ImportBatch creates slips for every row if none conflicts with an existing
// slip number and every row resolves. Otherwise nothing is written and the
// result lists the rows that need attention.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	slips := make([]*FuelSlip, 0, len(params))

	var unresolved []Unresolved

	for i, p := range params {
		slip, err := s.build(ctx, p, audit.ActionImported, "fuel card import")
		if err != nil {
			if errors.Is(err, apperr.ErrPersistence) {
				return nil, err
			}

			unresolved = append(unresolved, Unresolved{Row: i + 1, Incoming: p, Err: err})

			continue
		}

		slips = append(slips, slip)
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	var numbers []string

	for _, p := range params {
		if p.SlipNumber != "" {
			numbers = append(numbers, p.SlipNumber)
		}
	}

	existing, err := itx.FindExisting(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("find existing: %w", err)
	}

	lookup := make(map[string]*FuelSlip, len(existing))
	for _, e := range existing {
		lookup[e.SlipNumber] = e
	}

	seen := make(map[string]bool, len(params))

	var (
		newParams []CreateParams
		conflicts []Conflict
	)

	for _, p := range params {
		if p.SlipNumber != "" {
			if e, found := lookup[p.SlipNumber]; found {
				conflicts = append(conflicts, Conflict{Incoming: p, Existing: e})
				continue
			}

			if seen[p.SlipNumber] {
				conflicts = append(conflicts, Conflict{Incoming: p})
				continue
			}

			seen[p.SlipNumber] = true
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 || len(unresolved) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts, Unresolved: unresolved}, nil
	}

	if err := itx.CreateSlips(ctx, slips); err != nil {
		return nil, fmt.Errorf("create slips: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, apperr.Persistence("commit import", err)
	}

	metrics.AddSlipsCreated("import", len(slips))

	return &ImportResult{Imported: slips}, nil
}

// CreateBatch creates the given slips atomically without conflict checks.
// It is used once the caller has reviewed an ImportBatch result.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*FuelSlip, error) {
	if len(params) == 0 {
		return nil, nil
	}

	slips := make([]*FuelSlip, len(params))

	for i, p := range params {
		slip, err := s.build(ctx, p, audit.ActionImported, "confirmed import")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		slips[i] = slip
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateSlips(ctx, slips); err != nil {
		return nil, fmt.Errorf("create slips: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, apperr.Persistence("commit import", err)
	}

	metrics.AddSlipsCreated("import", len(slips))

	return slips, nil
}

// build validates params, resolves the fuel source and fleet identities and
// returns a DRAFT slip with its total and an initial audit entry.
func (s *Service) build(ctx context.Context, p CreateParams, action, detail string) (*FuelSlip, error) {
	p.StationName = strings.TrimSpace(p.StationName)
	p.SlipNumber = strings.TrimSpace(p.SlipNumber)

	if err := s.validate.Struct(p); err != nil {
		return nil, err
	}

	src, err := s.sources.ResolveFuelSource(ctx, p.FuelSourceID, p.StationName)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.fleet.ResolveVehicle(ctx, p.Vehicle)
	if err != nil {
		return nil, err
	}

	slip := &FuelSlip{
		SlipNumber:      p.SlipNumber,
		TransactionDate: p.TransactionDate,
		FuelSourceID:    src.ID,
		AccountID:       src.AccountID,
		StationName:     p.StationName,
		VehicleID:       vehicle.ID,
		TripID:          p.TripID,
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
		Total:           ComputeTotal(p.Quantity, p.UnitPrice),
		Odometer:        p.Odometer,
		State:           StateDraft,
		AuditTrail:      audit.Trail(nil).Append(audit.NewEntry(action, p.PerformedBy, detail)),
	}

	if !p.Driver.IsZero() {
		driver, err := s.fleet.ResolveDriver(ctx, p.Driver)
		if err != nil {
			return nil, err
		}

		slip.DriverID = &driver.ID
	}

	return slip, nil
}

func paramsOf(slip *FuelSlip, performedBy string) CreateParams {
	p := CreateParams{
		SlipNumber:      slip.SlipNumber,
		TransactionDate: slip.TransactionDate,
		FuelSourceID:    &slip.FuelSourceID,
		StationName:     slip.StationName,
		Vehicle:         fleet.Ref{ID: &slip.VehicleID},
		TripID:          slip.TripID,
		Quantity:        slip.Quantity,
		UnitPrice:       slip.UnitPrice,
		Odometer:        slip.Odometer,
		PerformedBy:     performedBy,
	}

	if slip.DriverID != nil {
		p.Driver = fleet.Ref{ID: slip.DriverID}
	}

	return p
}

func finalizedErr(slip *FuelSlip) error {
	return apperr.BusinessRule("SLIP_FINALIZED", "slip %s is finalized and cannot be changed", slip.SlipNumber)
}
