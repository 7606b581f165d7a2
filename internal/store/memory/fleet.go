package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
)

func cloneVehicle(v *fleet.Vehicle) *fleet.Vehicle {
	c := *v
	c.AuditTrail = append(audit.Trail(nil), v.AuditTrail...)

	return &c
}

func cloneDriver(d *fleet.Driver) *fleet.Driver {
	c := *d
	c.AuditTrail = append(audit.Trail(nil), d.AuditTrail...)

	return &c
}

func (s *Store) GetVehicle(_ context.Context, id uuid.UUID) (*fleet.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, apperr.NotFound("VEHICLE_NOT_FOUND", "vehicle %s not found", id)
	}

	return cloneVehicle(v), nil
}

func (s *Store) FindVehicle(_ context.Context, registration string) (*fleet.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vehicles {
		if v.Registration == registration {
			return cloneVehicle(v), nil
		}
	}

	return nil, nil
}

func (s *Store) CreateVehicle(_ context.Context, v *fleet.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.vehicles {
		if existing.Registration == v.Registration {
			return apperr.BusinessRule("DUPLICATE_VEHICLE", "vehicle %q already exists", v.Registration)
		}
	}

	v.ID = uuid.New()
	v.CreatedAt = s.now()
	s.vehicles[v.ID] = cloneVehicle(v)

	return nil
}

func (s *Store) GetDriver(_ context.Context, id uuid.UUID) (*fleet.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drivers[id]
	if !ok {
		return nil, apperr.NotFound("DRIVER_NOT_FOUND", "driver %s not found", id)
	}

	return cloneDriver(d), nil
}

func (s *Store) FindDriver(_ context.Context, name string) (*fleet.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drivers {
		if strings.EqualFold(d.Name, name) {
			return cloneDriver(d), nil
		}
	}

	return nil, nil
}

func (s *Store) CreateDriver(_ context.Context, d *fleet.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.drivers {
		if strings.EqualFold(existing.Name, d.Name) {
			return apperr.BusinessRule("DUPLICATE_DRIVER", "driver %q already exists", d.Name)
		}
	}

	d.ID = uuid.New()
	d.CreatedAt = s.now()
	s.drivers[d.ID] = cloneDriver(d)

	return nil
}
