package fleet

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
)

type Repository interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	// FindVehicle returns nil when no vehicle has the registration.
	FindVehicle(ctx context.Context, registration string) (*Vehicle, error)
	CreateVehicle(ctx context.Context, v *Vehicle) error

	GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error)
	// FindDriver returns nil when no driver has the name.
	FindDriver(ctx context.Context, name string) (*Driver, error)
	CreateDriver(ctx context.Context, d *Driver) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeRegistration upper-cases a plate and strips spaces and dashes.
func NormalizeRegistration(reg string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.ToUpper(strings.TrimSpace(reg)))
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func (s *Service) ResolveVehicle(ctx context.Context, ref Ref) (*Vehicle, error) {
	if ref.ID != nil {
		return s.repo.GetVehicle(ctx, *ref.ID)
	}

	reg := NormalizeRegistration(ref.Key)
	if reg == "" {
		return nil, apperr.Validation("VEHICLE_REQUIRED", "vehicle id or registration is required")
	}

	v, err := s.repo.FindVehicle(ctx, reg)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, apperr.NotFound("VEHICLE_NOT_FOUND", "no vehicle with registration %q", reg)
	}

	return v, nil
}

func (s *Service) ResolveDriver(ctx context.Context, ref Ref) (*Driver, error) {
	if ref.ID != nil {
		return s.repo.GetDriver(ctx, *ref.ID)
	}

	name := normalizeName(ref.Key)
	if name == "" {
		return nil, apperr.Validation("DRIVER_REQUIRED", "driver id or name is required")
	}

	d, err := s.repo.FindDriver(ctx, name)
	if err != nil {
		return nil, err
	}

	if d == nil {
		return nil, apperr.NotFound("DRIVER_NOT_FOUND", "no driver named %q", name)
	}

	return d, nil
}

// ProvisionVehicle creates a placeholder vehicle for registration. If one
// already exists it is returned unchanged.
func (s *Service) ProvisionVehicle(ctx context.Context, registration, performedBy string) (*Vehicle, error) {
	existing, err := s.ResolveVehicle(ctx, Ref{Key: registration})
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	reg := NormalizeRegistration(registration)
	v := &Vehicle{
		Registration: reg,
		Placeholder:  true,
		AuditTrail:   audit.Trail(nil).Append(audit.NewEntry(audit.ActionPlaceholderProvisioned, performedBy, "registration "+reg)),
	}

	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// ProvisionDriver creates a placeholder driver for name. If one already
// exists it is returned unchanged.
func (s *Service) ProvisionDriver(ctx context.Context, name, performedBy string) (*Driver, error) {
	existing, err := s.ResolveDriver(ctx, Ref{Key: name})
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	name = normalizeName(name)
	d := &Driver{
		Name:        name,
		Placeholder: true,
		AuditTrail:  audit.Trail(nil).Append(audit.NewEntry(audit.ActionPlaceholderProvisioned, performedBy, "name "+name)),
	}

	if err := s.repo.CreateDriver(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}
