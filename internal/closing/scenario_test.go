package closing_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/store/memory"
)

type ledger struct {
	store      *memory.Store
	accounts   *account.Service
	slips      *fuelslip.Service
	closes     *closing.Service
	statements *statement.Service
	account    *account.Account
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	ctx := context.Background()
	store := memory.New()

	l := &ledger{
		store:      store,
		accounts:   account.NewService(store),
		closes:     closing.NewService(store),
		statements: statement.NewService(store),
	}

	fleetSvc := fleet.NewService(store)
	l.slips = fuelslip.NewService(store, l.accounts, fleetSvc)

	acc, err := l.accounts.Create(ctx, account.CreateParams{
		Name:           "BP Fuel Account",
		Type:           account.TypeFuel,
		Currency:       "GBP",
		OpeningBalance: decimal.RequireFromString("50000.00"),
	})
	require.NoError(t, err)

	l.account = acc

	_, err = l.accounts.CreateFuelSource(ctx, account.FuelSourceParams{
		Name:         "BP stations",
		Kind:         account.SourceStation,
		MatchPattern: "BP",
		AccountID:    acc.ID,
	})
	require.NoError(t, err)

	_, err = fleetSvc.ProvisionVehicle(ctx, "AB12 CDE", "dispatcher")
	require.NoError(t, err)

	return l
}

func (l *ledger) slip(t *testing.T, date time.Time, qty, price string) *fuelslip.FuelSlip {
	t.Helper()

	slip, err := l.slips.Create(context.Background(), fuelslip.CreateParams{
		TransactionDate: date,
		StationName:     "BP Depot North",
		Vehicle:         fleet.Ref{Key: "AB12 CDE"},
		Quantity:        decimal.RequireFromString(qty),
		UnitPrice:       decimal.RequireFromString(price),
		PerformedBy:     "dispatcher",
	})
	require.NoError(t, err)

	return slip
}

func (l *ledger) params() closing.CloseParams {
	p := closeParams()
	p.AccountID = l.account.ID

	return p
}

func TestCloseFuelMonth_BPFuelAccount(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	first := l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")
	second := l.slip(t, time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC), "120", "40.00")
	june := l.slip(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "50", "41.00")
	april := l.slip(t, time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC), "10", "39.00")

	earlier := l.slip(t, time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC), "20", "38.00")
	_, err := l.slips.Finalize(ctx, earlier.ID, "dispatcher")
	require.NoError(t, err)

	res, err := l.closes.CloseFuelMonth(ctx, l.params())
	require.NoError(t, err)

	assert.Equal(t, "52365.00", res.Statement.ClosingBalance.StringFixed(2))
	assert.Equal(t, "10185.00", res.Statement.TotalDebits.StringFixed(2))
	assert.Equal(t, "12550.00", res.Statement.TotalCredits.StringFixed(2))
	assert.Equal(t, "10185.00", res.Reconciliation.SlipsTotal.StringFixed(2))
	assert.Equal(t, "2365.00", res.Reconciliation.Variance.StringFixed(2))
	assert.Len(t, res.Finalized, 2)

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		got, err := l.slips.Get(ctx, id)
		require.NoError(t, err)

		assert.True(t, got.Finalized())
		require.NotNil(t, got.StatementID)
		assert.Equal(t, res.Statement.ID, *got.StatementID)

		last, ok := got.AuditTrail.Last()
		require.True(t, ok)
		assert.Equal(t, "Month Close Finalized", last.Action)
	}

	for _, id := range []uuid.UUID{june.ID, april.ID} {
		got, err := l.slips.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Finalized())
		assert.Nil(t, got.StatementID)
	}

	got, err := l.slips.Get(ctx, earlier.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StatementID)

	acc, err := l.accounts.Get(ctx, l.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "52365.00", acc.Balance.StringFixed(2))

	detail, err := l.statements.Detail(ctx, res.Statement.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Statement.ID, detail.Reconciliation.StatementID)
	require.Len(t, detail.Transactions, 3)
	assert.Equal(t, statement.Debit, detail.Transactions[0].Direction)
	assert.Equal(t, statement.Credit, detail.Transactions[2].Direction)

	pending, err := l.statements.Pending(ctx, l.account.ID, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, april.ID, pending[0].SlipID)
	assert.Equal(t, june.ID, pending[1].SlipID)
}

func TestCloseFuelMonth_FinalizedSlipsAreLocked(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	slip := l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")

	_, err := l.closes.CloseFuelMonth(ctx, l.params())
	require.NoError(t, err)

	qty := decimal.NewFromInt(1)
	_, err = l.slips.Update(ctx, slip.ID, fuelslip.UpdateParams{Quantity: &qty}, "dispatcher")
	require.ErrorIs(t, err, apperr.ErrBusinessRule)

	err = l.slips.Delete(ctx, slip.ID)
	require.ErrorIs(t, err, apperr.ErrBusinessRule)

	verified, err := l.slips.Verify(ctx, slip.ID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, "auditor", verified.Verification.By)
	assert.True(t, verified.Finalized())
}

func TestCloseFuelMonth_SecondCloseRejected(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")

	res, err := l.closes.CloseFuelMonth(ctx, l.params())
	require.NoError(t, err)

	before, err := l.statements.Get(ctx, res.Statement.ID)
	require.NoError(t, err)

	l.slip(t, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), "120", "40.00")

	_, err = l.closes.CloseFuelMonth(ctx, l.params())
	require.ErrorIs(t, err, apperr.ErrDuplicatePeriod)
	require.ErrorIs(t, err, apperr.ErrBusinessRule)

	after, err := l.statements.Get(ctx, res.Statement.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	list, err := l.statements.ListByAccount(ctx, l.account.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	pending, err := l.statements.Pending(ctx, l.account.ID, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestCloseFuelMonth_ConcurrentClosesOfOnePeriod(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")
	l.slip(t, time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC), "120", "40.00")

	const callers = 8

	var succeeded, duplicates atomic.Int32

	var g errgroup.Group

	for range callers {
		g.Go(func() error {
			_, err := l.closes.CloseFuelMonth(ctx, l.params())

			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, apperr.ErrDuplicatePeriod):
				duplicates.Add(1)
			default:
				return err
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(callers-1), duplicates.Load())

	list, err := l.statements.ListByAccount(ctx, l.account.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "10185.00", list[0].TotalDebits.StringFixed(2))
}

func TestCloseFuelMonth_DifferentAccountsDoNotContend(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)

	l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")

	shell, err := l.accounts.Create(ctx, account.CreateParams{
		Name:     "Shell Fuel Account",
		Type:     account.TypeFuel,
		Currency: "GBP",
	})
	require.NoError(t, err)

	// An unfinished close holds the BP account.
	held, err := l.store.BeginClose(ctx, l.account.ID)
	require.NoError(t, err)

	t.Run("OtherAccountCloses", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		p := l.params()
		p.AccountID = shell.ID

		res, err := l.closes.CloseFuelMonth(waitCtx, p)
		require.NoError(t, err)
		assert.Equal(t, shell.ID, res.Statement.AccountID)
	})

	t.Run("SameAccountWaits", func(t *testing.T) {
		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := l.closes.CloseFuelMonth(waitCtx, l.params())
		require.ErrorIs(t, err, apperr.ErrPersistence)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	require.NoError(t, held.Rollback())

	res, err := l.closes.CloseFuelMonth(ctx, l.params())
	require.NoError(t, err)
	assert.Len(t, res.Finalized, 1)
}

func TestCloseFuelMonth_FailureRollsBack(t *testing.T) {
	for _, op := range []string{"InsertStatement", "FinalizeSlips", "InsertReconciliation", "UpdateAccountBalance", "Commit"} {
		t.Run(op, func(t *testing.T) {
			ctx := context.Background()
			l := newLedger(t)

			slip := l.slip(t, time.Date(2024, 5, 3, 7, 15, 0, 0, time.UTC), "150", "35.90")

			l.store.FailNext(op, errors.New("connection reset by peer"))

			_, err := l.closes.CloseFuelMonth(ctx, l.params())
			require.ErrorIs(t, err, apperr.ErrPersistence)

			got, err := l.slips.Get(ctx, slip.ID)
			require.NoError(t, err)
			assert.False(t, got.Finalized())
			assert.Len(t, got.AuditTrail, 1)

			list, err := l.statements.ListByAccount(ctx, l.account.ID, 0)
			require.NoError(t, err)
			assert.Empty(t, list)

			acc, err := l.accounts.Get(ctx, l.account.ID)
			require.NoError(t, err)
			assert.Equal(t, "50000.00", acc.Balance.StringFixed(2))

			// A retry after the transient failure succeeds.
			res, err := l.closes.CloseFuelMonth(ctx, l.params())
			require.NoError(t, err)
			assert.Len(t, res.Finalized, 1)
		})
	}
}

func TestCloseFuelMonth_UnknownAccount(t *testing.T) {
	l := newLedger(t)

	p := l.params()
	p.AccountID = uuid.New()

	_, err := l.closes.CloseFuelMonth(context.Background(), p)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", apperr.CodeOf(err))
}
