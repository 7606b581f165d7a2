package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s scanner) (*fleet.Vehicle, error) {
	var v fleet.Vehicle

	var desc sql.NullString

	if err := s.Scan(&v.ID, &v.Registration, &desc, &v.Placeholder, &v.AuditTrail, &v.CreatedAt); err != nil {
		return nil, err
	}

	v.Description = desc.String

	return &v, nil
}

func scanDriver(s scanner) (*fleet.Driver, error) {
	var d fleet.Driver

	if err := s.Scan(&d.ID, &d.Name, &d.Placeholder, &d.AuditTrail, &d.CreatedAt); err != nil {
		return nil, err
	}

	return &d, nil
}

const (
	selectVehicleColumns = `id, registration, description, placeholder, audit_trail, created_at`
	selectDriverColumns  = `id, name, placeholder, audit_trail, created_at`
)

func (s *Store) GetVehicle(ctx context.Context, id uuid.UUID) (*fleet.Vehicle, error) {
	v, err := scanVehicle(s.db.QueryRowContext(ctx, `SELECT `+selectVehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("VEHICLE_NOT_FOUND", "vehicle %s not found", id)
		}

		return nil, apperr.Persistence("getting vehicle", err)
	}

	return v, nil
}

func (s *Store) FindVehicle(ctx context.Context, registration string) (*fleet.Vehicle, error) {
	v, err := scanVehicle(s.db.QueryRowContext(ctx,
		`SELECT `+selectVehicleColumns+` FROM vehicles WHERE registration = $1`, registration))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, apperr.Persistence("finding vehicle", err)
	}

	return v, nil
}

func (s *Store) CreateVehicle(ctx context.Context, v *fleet.Vehicle) error {
	query := `
		INSERT INTO vehicles (registration, description, placeholder, audit_trail, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, v.Registration, v.Description, v.Placeholder, v.AuditTrail).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "vehicles_registration_key") {
			return apperr.BusinessRule("DUPLICATE_VEHICLE", "vehicle %q already exists", v.Registration)
		}

		return apperr.Persistence("creating vehicle", err)
	}

	return nil
}

func (s *Store) GetDriver(ctx context.Context, id uuid.UUID) (*fleet.Driver, error) {
	d, err := scanDriver(s.db.QueryRowContext(ctx, `SELECT `+selectDriverColumns+` FROM drivers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("DRIVER_NOT_FOUND", "driver %s not found", id)
		}

		return nil, apperr.Persistence("getting driver", err)
	}

	return d, nil
}

func (s *Store) FindDriver(ctx context.Context, name string) (*fleet.Driver, error) {
	d, err := scanDriver(s.db.QueryRowContext(ctx,
		`SELECT `+selectDriverColumns+` FROM drivers WHERE LOWER(name) = LOWER($1)`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, apperr.Persistence("finding driver", err)
	}

	return d, nil
}

func (s *Store) CreateDriver(ctx context.Context, d *fleet.Driver) error {
	query := `
		INSERT INTO drivers (name, placeholder, audit_trail, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, d.Name, d.Placeholder, d.AuditTrail).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "drivers_name_lower_key") {
			return apperr.BusinessRule("DUPLICATE_DRIVER", "driver %q already exists", d.Name)
		}

		return apperr.Persistence("creating driver", err)
	}

	return nil
}
