package fleet_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/store/memory"
)

func TestNormalizeRegistration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "AB12 CDE", want: "AB12CDE"},
		{in: " ab12-cde ", want: "AB12CDE"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fleet.NormalizeRegistration(tt.in))
		})
	}
}

func TestService_ResolveVehicle(t *testing.T) {
	ctx := context.Background()
	svc := fleet.NewService(memory.New())

	t.Run("UnknownRegistrationIsNotProvisioned", func(t *testing.T) {
		_, err := svc.ResolveVehicle(ctx, fleet.Ref{Key: "XY99 ZZZ"})
		require.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "VEHICLE_NOT_FOUND", apperr.CodeOf(err))

		_, err = svc.ResolveVehicle(ctx, fleet.Ref{Key: "XY99 ZZZ"})
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("EmptyRef", func(t *testing.T) {
		_, err := svc.ResolveVehicle(ctx, fleet.Ref{})
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "VEHICLE_REQUIRED", apperr.CodeOf(err))
	})

	t.Run("UnknownID", func(t *testing.T) {
		id := uuid.New()

		_, err := svc.ResolveVehicle(ctx, fleet.Ref{ID: &id})
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("ProvisionedThenResolvedByEitherKey", func(t *testing.T) {
		v, err := svc.ProvisionVehicle(ctx, "ab12-cde", "dispatcher")
		require.NoError(t, err)

		assert.Equal(t, "AB12CDE", v.Registration)
		assert.True(t, v.Placeholder)

		entry, ok := v.AuditTrail.Last()
		require.True(t, ok)
		assert.Equal(t, audit.ActionPlaceholderProvisioned, entry.Action)
		assert.Equal(t, "dispatcher", entry.PerformedBy)

		byKey, err := svc.ResolveVehicle(ctx, fleet.Ref{Key: "AB12 CDE"})
		require.NoError(t, err)
		assert.Equal(t, v.ID, byKey.ID)

		byID, err := svc.ResolveVehicle(ctx, fleet.Ref{ID: &v.ID})
		require.NoError(t, err)
		assert.Equal(t, v.ID, byID.ID)

		again, err := svc.ProvisionVehicle(ctx, "AB12CDE", "someone else")
		require.NoError(t, err)
		assert.Equal(t, v.ID, again.ID)
		assert.Len(t, again.AuditTrail, 1)
	})
}

func TestService_ProvisionDriver(t *testing.T) {
	ctx := context.Background()
	svc := fleet.NewService(memory.New())

	_, err := svc.ResolveDriver(ctx, fleet.Ref{Key: "Jane  Doe"})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "DRIVER_NOT_FOUND", apperr.CodeOf(err))

	d, err := svc.ProvisionDriver(ctx, " Jane  Doe ", "dispatcher")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", d.Name)
	assert.True(t, d.Placeholder)

	got, err := svc.ResolveDriver(ctx, fleet.Ref{Key: "jane doe"})
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}
