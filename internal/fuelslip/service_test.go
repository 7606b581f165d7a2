package fuelslip_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

var (
	testAccountID = uuid.MustParse("8f1d7c52-1d7e-4c8e-9a55-1f2f0f4b6a01")
	testSourceID  = uuid.MustParse("5a8f3c0e-6b8a-4b51-8f5d-0c9c3f1d2e02")
	testVehicleID = uuid.MustParse("c2b7e1a4-3f5d-4e6a-9b8c-7d6e5f4a3b03")
	testDate      = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)
)

type mocks struct {
	repo    *fuelslip.MockRepository
	sources *fuelslip.MockSourceResolver
	fleet   *fuelslip.MockFleetResolver
}

func newService(t *testing.T) (*fuelslip.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:    fuelslip.NewMockRepository(ctrl),
		sources: fuelslip.NewMockSourceResolver(ctrl),
		fleet:   fuelslip.NewMockFleetResolver(ctrl),
	}

	return fuelslip.NewService(m.repo, m.sources, m.fleet), m
}

func (m mocks) expectResolve() {
	m.sources.EXPECT().
		ResolveFuelSource(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&account.FuelSource{ID: testSourceID, AccountID: testAccountID}, nil).
		AnyTimes()
	m.fleet.EXPECT().
		ResolveVehicle(gomock.Any(), gomock.Any()).
		Return(&fleet.Vehicle{ID: testVehicleID, Registration: "AB12CDE"}, nil).
		AnyTimes()
}

func validParams() fuelslip.CreateParams {
	return fuelslip.CreateParams{
		TransactionDate: testDate,
		StationName:     "BP Depot North",
		Vehicle:         fleet.Ref{Key: "AB12 CDE"},
		Quantity:        decimal.RequireFromString("150"),
		UnitPrice:       decimal.RequireFromString("35.90"),
		PerformedBy:     "dispatcher",
	}
}

func draftSlip() *fuelslip.FuelSlip {
	return &fuelslip.FuelSlip{
		ID:              uuid.New(),
		SlipNumber:      "FS-202405-00001",
		TransactionDate: testDate,
		FuelSourceID:    testSourceID,
		AccountID:       testAccountID,
		StationName:     "BP Depot North",
		VehicleID:       testVehicleID,
		Quantity:        decimal.RequireFromString("150"),
		UnitPrice:       decimal.RequireFromString("35.90"),
		Total:           decimal.RequireFromString("5385.00"),
		State:           fuelslip.StateDraft,
		AuditTrail:      audit.Trail{audit.NewEntry(audit.ActionCreated, "dispatcher", "")},
	}
}

func finalizedSlip() *fuelslip.FuelSlip {
	slip := draftSlip()
	slip.State = fuelslip.StateFinalized

	return slip
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    func() fuelslip.CreateParams
		setupMock func(m mocks)
		wantCode  string
		wantKind  error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m mocks) {
				m.expectResolve()
				m.repo.EXPECT().
					CreateSlip(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, slip *fuelslip.FuelSlip) error {
						slip.ID = uuid.New()
						slip.SlipNumber = "FS-202405-00001"
						return nil
					})
			},
		},
		{
			name: "ZeroQuantity",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.Quantity = decimal.Zero
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "QUANTITY_NOT_POSITIVE",
		},
		{
			name: "NegativeUnitPrice",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.UnitPrice = decimal.RequireFromString("-1.00")
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "UNIT_PRICE_NOT_POSITIVE",
		},
		{
			name: "QuantityFinerThanStored",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.Quantity = decimal.RequireFromString("100.0005")
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "QUANTITY_TOO_PRECISE",
		},
		{
			name: "QuantityStoredAsZero",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.Quantity = decimal.RequireFromString("0.0004")
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "QUANTITY_TOO_PRECISE",
		},
		{
			name: "UnitPriceFinerThanStored",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.UnitPrice = decimal.RequireFromString("35.90005")
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "UNIT_PRICE_TOO_PRECISE",
		},
		{
			name: "MissingStation",
			params: func() fuelslip.CreateParams {
				p := validParams()
				p.StationName = "   "
				return p
			},
			wantKind: apperr.ErrValidation,
			wantCode: "STATION_NAME_REQUIRED",
		},
		{
			name:   "UnresolvedSource",
			params: validParams,
			setupMock: func(m mocks) {
				m.sources.EXPECT().
					ResolveFuelSource(gomock.Any(), gomock.Any(), "BP Depot North").
					Return(nil, apperr.Validation("FUEL_SOURCE_UNRESOLVED", "no match"))
			},
			wantKind: apperr.ErrValidation,
			wantCode: "FUEL_SOURCE_UNRESOLVED",
		},
		{
			name:   "UnknownVehicle",
			params: validParams,
			setupMock: func(m mocks) {
				m.sources.EXPECT().
					ResolveFuelSource(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&account.FuelSource{ID: testSourceID, AccountID: testAccountID}, nil)
				m.fleet.EXPECT().
					ResolveVehicle(gomock.Any(), fleet.Ref{Key: "AB12 CDE"}).
					Return(nil, apperr.NotFound("VEHICLE_NOT_FOUND", "unknown"))
			},
			wantKind: apperr.ErrNotFound,
			wantCode: "VEHICLE_NOT_FOUND",
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m mocks) {
				m.expectResolve()
				m.repo.EXPECT().
					CreateSlip(gomock.Any(), gomock.Any()).
					Return(apperr.Persistence("creating slip", errors.New("db error")))
			},
			wantKind: apperr.ErrPersistence,
			wantCode: "PERSISTENCE_FAILURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), tt.params())
			if tt.wantKind != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantKind)
				assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, fuelslip.StateDraft, got.State)
			assert.True(t, decimal.RequireFromString("5385.00").Equal(got.Total))
			assert.Equal(t, testAccountID, got.AccountID)
			assert.Equal(t, testVehicleID, got.VehicleID)
			require.Len(t, got.AuditTrail, 1)
			assert.Equal(t, audit.ActionCreated, got.AuditTrail[0].Action)
			assert.Equal(t, "dispatcher", got.AuditTrail[0].PerformedBy)
		})
	}
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		qty, price, want string
	}{
		{"150", "35.90", "5385.00"},
		{"120", "40.00", "4800.00"},
		{"0.333", "3", "1.00"},
		{"45.678", "1.999", "91.31"},
	}

	for _, tt := range tests {
		got := fuelslip.ComputeTotal(decimal.RequireFromString(tt.qty), decimal.RequireFromString(tt.price))
		assert.Truef(t, decimal.RequireFromString(tt.want).Equal(got), "%s x %s = %s, want %s", tt.qty, tt.price, got, tt.want)
	}
}

func TestService_Update(t *testing.T) {
	t.Run("RecomputesTotal", func(t *testing.T) {
		svc, m := newService(t)
		slip := draftSlip()
		m.expectResolve()

		qty := decimal.RequireFromString("120")
		price := decimal.RequireFromString("40.00")

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)
		m.repo.EXPECT().
			UpdateDraft(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, next *fuelslip.FuelSlip, entry audit.Entry) error {
				assert.Equal(t, slip.ID, next.ID)
				assert.Equal(t, slip.SlipNumber, next.SlipNumber)
				assert.Equal(t, audit.ActionUpdated, entry.Action)
				assert.Contains(t, entry.Detail, "quantity")
				return nil
			})

		got, err := svc.Update(context.Background(), slip.ID, fuelslip.UpdateParams{Quantity: &qty, UnitPrice: &price}, "dispatcher")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("4800.00").Equal(got.Total))
		assert.Len(t, got.AuditTrail, 2)
	})

	t.Run("QuantityFinerThanStoredRejected", func(t *testing.T) {
		svc, m := newService(t)
		slip := draftSlip()
		qty := decimal.RequireFromString("100.0005")

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)

		_, err := svc.Update(context.Background(), slip.ID, fuelslip.UpdateParams{Quantity: &qty}, "dispatcher")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "QUANTITY_TOO_PRECISE", apperr.CodeOf(err))
	})

	t.Run("FinalizedRejected", func(t *testing.T) {
		svc, m := newService(t)
		slip := finalizedSlip()
		qty := decimal.RequireFromString("1")

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)

		_, err := svc.Update(context.Background(), slip.ID, fuelslip.UpdateParams{Quantity: &qty}, "dispatcher")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrBusinessRule)
		assert.Equal(t, "SLIP_FINALIZED", apperr.CodeOf(err))
	})

	t.Run("ZeroQuantityRejected", func(t *testing.T) {
		svc, m := newService(t)
		slip := draftSlip()
		qty := decimal.Zero

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)

		_, err := svc.Update(context.Background(), slip.ID, fuelslip.UpdateParams{Quantity: &qty}, "dispatcher")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("Draft", func(t *testing.T) {
		svc, m := newService(t)
		slip := draftSlip()

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)
		m.repo.EXPECT().DeleteDraft(gomock.Any(), slip.ID).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), slip.ID))
	})

	t.Run("Finalized", func(t *testing.T) {
		svc, m := newService(t)
		slip := finalizedSlip()

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)

		err := svc.Delete(context.Background(), slip.ID)
		assert.ErrorIs(t, err, apperr.ErrBusinessRule)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, m := newService(t)
		id := uuid.New()

		m.repo.EXPECT().GetSlip(gomock.Any(), id).Return(nil, apperr.NotFound("SLIP_NOT_FOUND", "missing"))

		err := svc.Delete(context.Background(), id)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestService_Finalize(t *testing.T) {
	t.Run("Draft", func(t *testing.T) {
		svc, m := newService(t)
		slip := draftSlip()

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)
		m.repo.EXPECT().
			Finalize(gomock.Any(), slip.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, at time.Time, entry audit.Entry) error {
				assert.False(t, at.IsZero())
				assert.Equal(t, audit.ActionFinalized, entry.Action)
				return nil
			})

		got, err := svc.Finalize(context.Background(), slip.ID, "supervisor")
		require.NoError(t, err)
		assert.Equal(t, fuelslip.StateFinalized, got.State)
		assert.NotNil(t, got.LastStatusUpdate)
		last, _ := got.AuditTrail.Last()
		assert.Equal(t, "supervisor", last.PerformedBy)
	})

	t.Run("AlreadyFinalized", func(t *testing.T) {
		svc, m := newService(t)
		slip := finalizedSlip()
		before := slip.Clone()

		m.repo.EXPECT().GetSlip(gomock.Any(), slip.ID).Return(slip, nil)

		_, err := svc.Finalize(context.Background(), slip.ID, "supervisor")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrBusinessRule)
		assert.Equal(t, "SLIP_ALREADY_FINALIZED", apperr.CodeOf(err))
		assert.Equal(t, before, slip)
	})
}

func TestService_Verify(t *testing.T) {
	tests := []struct {
		name string
		slip *fuelslip.FuelSlip
	}{
		{name: "Draft", slip: draftSlip()},
		{name: "Finalized", slip: finalizedSlip()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().GetSlip(gomock.Any(), tt.slip.ID).Return(tt.slip, nil)
			m.repo.EXPECT().Verify(gomock.Any(), tt.slip.ID, gomock.Any(), gomock.Any()).Return(nil)

			got, err := svc.Verify(context.Background(), tt.slip.ID, "auditor")
			require.NoError(t, err)
			require.NotNil(t, got.Verification)
			assert.Equal(t, "auditor", got.Verification.By)
			assert.Equal(t, tt.slip.State, got.State)
		})
	}

	t.Run("MissingVerifier", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Verify(context.Background(), uuid.New(), " ")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "Default", limit: 0, wantLimit: fuelslip.DefaultListLimit},
		{name: "Capped", limit: 10_000, wantLimit: fuelslip.MaxListLimit},
		{name: "Given", limit: 25, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().
				ListSlips(gomock.Any(), fuelslip.ListFilter{Limit: tt.wantLimit}).
				Return([]*fuelslip.FuelSlip{draftSlip()}, nil)

			got, err := svc.List(context.Background(), fuelslip.ListFilter{Limit: tt.limit})
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func importParams() []fuelslip.CreateParams {
	first := validParams()
	first.SlipNumber = "CARD-0001"

	second := validParams()
	second.SlipNumber = "CARD-0002"
	second.Quantity = decimal.RequireFromString("120")
	second.UnitPrice = decimal.RequireFromString("40.00")

	return []fuelslip.CreateParams{first, second}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	svc, m := newService(t)
	itx := fuelslip.NewMockImportTx(gomock.NewController(t))
	m.expectResolve()

	m.repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindExisting(gomock.Any(), []string{"CARD-0001", "CARD-0002"}).Return(nil, nil)
	itx.EXPECT().CreateSlips(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), importParams())
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.Unresolved)
	assert.Equal(t, audit.ActionImported, result.Imported[0].AuditTrail[0].Action)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	svc, m := newService(t)
	itx := fuelslip.NewMockImportTx(gomock.NewController(t))
	m.expectResolve()

	params := importParams()
	existing := draftSlip()
	existing.SlipNumber = "CARD-0001"

	m.repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return([]*fuelslip.FuelSlip{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, params[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
	require.Len(t, result.New, 1)
	assert.Equal(t, "CARD-0002", result.New[0].SlipNumber)
}

func TestService_ImportBatch_Unresolved(t *testing.T) {
	svc, m := newService(t)
	itx := fuelslip.NewMockImportTx(gomock.NewController(t))

	params := importParams()
	params[1].Vehicle = fleet.Ref{Key: "ZZ99 ZZZ"}

	m.sources.EXPECT().
		ResolveFuelSource(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&account.FuelSource{ID: testSourceID, AccountID: testAccountID}, nil).
		Times(2)
	m.fleet.EXPECT().
		ResolveVehicle(gomock.Any(), fleet.Ref{Key: "AB12 CDE"}).
		Return(&fleet.Vehicle{ID: testVehicleID}, nil)
	m.fleet.EXPECT().
		ResolveVehicle(gomock.Any(), fleet.Ref{Key: "ZZ99 ZZZ"}).
		Return(nil, apperr.NotFound("VEHICLE_NOT_FOUND", "unknown"))

	m.repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindExisting(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, 2, result.Unresolved[0].Row)
	assert.ErrorIs(t, result.Unresolved[0].Err, apperr.ErrNotFound)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
}

func TestService_CreateBatch(t *testing.T) {
	svc, m := newService(t)
	itx := fuelslip.NewMockImportTx(gomock.NewController(t))
	m.expectResolve()

	m.repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateSlips(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	got, err := svc.CreateBatch(context.Background(), importParams())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
