package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

const slipNumberConstraint = "fuel_slips_slip_number_key"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SelectColumns and FromClause select a full slip for Scan. The slip table is
// aliased s and its fuel source fs.
const (
	SelectColumns = `
	s.id, s.slip_number, s.transaction_date, s.fuel_source_id, fs.account_id, s.station_name,
	s.vehicle_id, s.driver_id, s.trip_id, s.quantity, s.unit_price, s.total_amount,
	s.odometer_reading, s.status, s.verified_by, s.verification_date, s.last_status_update,
	s.account_statement_id, s.audit_trail, s.created_at, s.updated_at
`
	FromClause = ` FROM fuel_slips s JOIN fuel_sources fs ON fs.id = s.fuel_source_id`
)

// Scan reads a slip in SelectColumns order.
func Scan(s Scanner) (*fuelslip.FuelSlip, error) {
	var slip fuelslip.FuelSlip

	var (
		status     string
		verifiedBy sql.NullString
		verifiedAt *time.Time
	)

	if err := s.Scan(
		&slip.ID, &slip.SlipNumber, &slip.TransactionDate, &slip.FuelSourceID, &slip.AccountID, &slip.StationName,
		&slip.VehicleID, &slip.DriverID, &slip.TripID, &slip.Quantity, &slip.UnitPrice, &slip.Total,
		&slip.Odometer, &status, &verifiedBy, &verifiedAt, &slip.LastStatusUpdate,
		&slip.StatementID, &slip.AuditTrail, &slip.CreatedAt, &slip.UpdatedAt,
	); err != nil {
		return nil, err
	}

	slip.State = fuelslip.State(status)

	if verifiedBy.Valid && verifiedAt != nil {
		slip.Verification = &fuelslip.Verification{By: verifiedBy.String, At: *verifiedAt}
	}

	return &slip, nil
}

// ScanAll drains rows with Scan.
func ScanAll(rows *sql.Rows) ([]*fuelslip.FuelSlip, error) {
	defer rows.Close()

	var slips []*fuelslip.FuelSlip

	for rows.Next() {
		slip, err := Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning slip: %w", err)
		}

		slips = append(slips, slip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slips: %w", err)
	}

	return slips, nil
}

// nextSlipNumber bumps the per-period counter inside q's transaction.
func nextSlipNumber(ctx context.Context, q Querier, date time.Time) (string, error) {
	period := fuelslip.NumberPeriod(date)

	query := `
		INSERT INTO slip_counters (period, last_value)
		VALUES ($1, 1)
		ON CONFLICT (period) DO UPDATE SET last_value = slip_counters.last_value + 1
		RETURNING last_value
	`

	var seq int64
	if err := q.QueryRowContext(ctx, query, period).Scan(&seq); err != nil {
		return "", fmt.Errorf("allocating slip number: %w", err)
	}

	return fuelslip.FormatNumber(period, seq), nil
}

func insertSlip(ctx context.Context, q Querier, slip *fuelslip.FuelSlip) error {
	if slip.SlipNumber == "" {
		number, err := nextSlipNumber(ctx, q, slip.TransactionDate)
		if err != nil {
			return apperr.Persistence("creating slip", err)
		}

		slip.SlipNumber = number
	}

	query := `
		INSERT INTO fuel_slips (
			slip_number, transaction_date, fuel_source_id, station_name, vehicle_id, driver_id, trip_id,
			quantity, unit_price, total_amount, odometer_reading, status, audit_trail, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		slip.SlipNumber,
		slip.TransactionDate,
		slip.FuelSourceID,
		slip.StationName,
		slip.VehicleID,
		slip.DriverID,
		slip.TripID,
		slip.Quantity,
		slip.UnitPrice,
		slip.Total,
		slip.Odometer,
		slip.State,
		slip.AuditTrail,
	).Scan(&slip.ID, &slip.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, slipNumberConstraint) {
			return apperr.BusinessRule("DUPLICATE_SLIP_NUMBER", "slip number %s already exists", slip.SlipNumber)
		}

		return apperr.Persistence("creating slip", err)
	}

	return nil
}

// CreateSlip inserts the slip and, when needed, allocates its number in the
// same transaction.
func (s *Store) CreateSlip(ctx context.Context, slip *fuelslip.FuelSlip) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("begin create slip", err)
	}
	defer tx.Rollback()

	if err := insertSlip(ctx, tx, slip); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Persistence("commit create slip", err)
	}

	return nil
}

func (s *Store) GetSlip(ctx context.Context, id uuid.UUID) (*fuelslip.FuelSlip, error) {
	query := `SELECT ` + SelectColumns + FromClause + ` WHERE s.id = $1`

	slip, err := Scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
		}

		return nil, apperr.Persistence("getting slip", err)
	}

	return slip, nil
}

func (s *Store) ListSlips(ctx context.Context, filter fuelslip.ListFilter) ([]*fuelslip.FuelSlip, error) {
	query := `SELECT ` + SelectColumns + FromClause + ` WHERE TRUE`

	var args []any

	argIdx := 1

	add := func(clause string, v any) {
		query += fmt.Sprintf(clause, argIdx)

		args = append(args, v)
		argIdx++
	}

	if filter.AccountID != nil {
		add(" AND fs.account_id = $%d", *filter.AccountID)
	}

	if filter.VehicleID != nil {
		add(" AND s.vehicle_id = $%d", *filter.VehicleID)
	}

	if filter.DriverID != nil {
		add(" AND s.driver_id = $%d", *filter.DriverID)
	}

	if filter.TripID != nil {
		add(" AND s.trip_id = $%d", *filter.TripID)
	}

	if filter.State != nil {
		add(" AND s.status = $%d", string(*filter.State))
	}

	if filter.StartDate != nil {
		add(" AND s.transaction_date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add(" AND s.transaction_date < $%d", filter.EndDate.AddDate(0, 0, 1))
	}

	query += " ORDER BY s.transaction_date ASC, s.slip_number ASC"

	if filter.Limit > 0 {
		add(" LIMIT $%d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("listing slips", err)
	}

	slips, err := ScanAll(rows)
	if err != nil {
		return nil, apperr.Persistence("listing slips", err)
	}

	return slips, nil
}

func (s *Store) UpdateDraft(ctx context.Context, slip *fuelslip.FuelSlip, entry audit.Entry) error {
	entryJSON, err := entry.JSON()
	if err != nil {
		return apperr.Persistence("encoding audit entry", err)
	}

	query := `
		UPDATE fuel_slips
		SET transaction_date = $2, fuel_source_id = $3, station_name = $4, vehicle_id = $5, driver_id = $6,
			trip_id = $7, quantity = $8, unit_price = $9, total_amount = $10, odometer_reading = $11,
			audit_trail = audit_trail || $12::jsonb, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`

	res, err := s.db.ExecContext(ctx, query,
		slip.ID,
		slip.TransactionDate,
		slip.FuelSourceID,
		slip.StationName,
		slip.VehicleID,
		slip.DriverID,
		slip.TripID,
		slip.Quantity,
		slip.UnitPrice,
		slip.Total,
		slip.Odometer,
		string(entryJSON),
	)
	if err != nil {
		return apperr.Persistence("updating slip", err)
	}

	return s.checkGuarded(ctx, res, slip.ID, "SLIP_FINALIZED")
}

func (s *Store) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fuel_slips WHERE id = $1 AND status = 'DRAFT'`, id)
	if err != nil {
		return apperr.Persistence("deleting slip", err)
	}

	return s.checkGuarded(ctx, res, id, "SLIP_FINALIZED")
}

func (s *Store) Finalize(ctx context.Context, id uuid.UUID, at time.Time, entry audit.Entry) error {
	entryJSON, err := entry.JSON()
	if err != nil {
		return apperr.Persistence("encoding audit entry", err)
	}

	query := `
		UPDATE fuel_slips
		SET status = 'FINALIZED', last_status_update = $2, audit_trail = audit_trail || $3::jsonb, updated_at = NOW()
		WHERE id = $1 AND status = 'DRAFT'
	`

	res, err := s.db.ExecContext(ctx, query, id, at, string(entryJSON))
	if err != nil {
		return apperr.Persistence("finalizing slip", err)
	}

	return s.checkGuarded(ctx, res, id, "SLIP_ALREADY_FINALIZED")
}

func (s *Store) Verify(ctx context.Context, id uuid.UUID, v fuelslip.Verification, entry audit.Entry) error {
	entryJSON, err := entry.JSON()
	if err != nil {
		return apperr.Persistence("encoding audit entry", err)
	}

	query := `
		UPDATE fuel_slips
		SET verified_by = $2, verification_date = $3, audit_trail = audit_trail || $4::jsonb, updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, id, v.By, v.At, string(entryJSON))
	if err != nil {
		return apperr.Persistence("verifying slip", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("verifying slip", err)
	}

	if n == 0 {
		return apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
	}

	return nil
}

// checkGuarded turns a DRAFT-guarded write that touched no rows into either
// not found or a business rule violation with code.
func (s *Store) checkGuarded(ctx context.Context, res sql.Result, id uuid.UUID, code string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("reading affected rows", err)
	}

	if n > 0 {
		return nil
	}

	var status string

	err = s.db.QueryRowContext(ctx, `SELECT status FROM fuel_slips WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("SLIP_NOT_FOUND", "slip %s not found", id)
	}

	if err != nil {
		return apperr.Persistence("re-reading slip", err)
	}

	return apperr.BusinessRule(code, "slip %s is %s", id, status)
}

// importLockKey is the advisory lock shared by every import. Slip numbers are
// unique across accounts, so imports serialize globally rather than per period.
func importLockKey() int64 {
	h := fnv.New64a()
	h.Write([]byte("fuel_slips:import"))

	return int64(h.Sum64())
}

func (s *Store) BeginImport(ctx context.Context) (fuelslip.ImportTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Persistence("begin import", err)
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey()); err != nil {
		tx.Rollback()
		return nil, apperr.Persistence("acquiring import lock", err)
	}

	return &importTx{tx: tx}, nil
}

type importTx struct {
	tx *sql.Tx
}

func (t *importTx) FindExisting(ctx context.Context, slipNumbers []string) ([]*fuelslip.FuelSlip, error) {
	if len(slipNumbers) == 0 {
		return nil, nil
	}

	query := `SELECT ` + SelectColumns + FromClause + ` WHERE s.slip_number = ANY($1)`

	rows, err := t.tx.QueryContext(ctx, query, slipNumbers)
	if err != nil {
		return nil, apperr.Persistence("finding existing slips", err)
	}

	slips, err := ScanAll(rows)
	if err != nil {
		return nil, apperr.Persistence("finding existing slips", err)
	}

	return slips, nil
}

func (t *importTx) CreateSlips(ctx context.Context, slips []*fuelslip.FuelSlip) error {
	for _, slip := range slips {
		if err := insertSlip(ctx, t.tx, slip); err != nil {
			return err
		}
	}

	return nil
}

func (t *importTx) Commit() error {
	return t.tx.Commit()
}

func (t *importTx) Rollback() error {
	return t.tx.Rollback()
}
