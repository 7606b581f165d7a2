// Package closing implements the fuel month close.
//
// A close selects every DRAFT slip of an account dated inside the period,
// finalizes them, posts them to the ledger and writes a statement and a
// reconciliation snapshot. All of it happens in one CloseTx: either every
// write commits or none does. The account row is locked for the duration of
// the close, and the duplicate-period check runs under that lock, so two
// concurrent closes of the same account and period cannot both succeed.
// Closes of different accounts do not contend.
package closing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
	"github.com/MrJamesThe3rd/fleetfuel/internal/metrics"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
	"github.com/MrJamesThe3rd/fleetfuel/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=closing
type Repository interface {
	// BeginClose opens the unit of work for a close of accountID.
	BeginClose(ctx context.Context, accountID uuid.UUID) (CloseTx, error)
}

type CloseTx interface {
	// LockAccount loads the account and holds its row lock until the
	// transaction ends.
	LockAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error)
	StatementExists(ctx context.Context, accountID uuid.UUID, periodStart, periodEnd time.Time) (bool, error)
	// ListCandidates returns DRAFT slips of the account dated in [from, to).
	ListCandidates(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*fuelslip.FuelSlip, error)
	InsertStatement(ctx context.Context, st *statement.Statement) error
	// FinalizeSlips finalizes the given DRAFT slips, links them to the
	// statement and appends entry to each audit trail. It returns the
	// number of slips changed.
	FinalizeSlips(ctx context.Context, ids []uuid.UUID, statementID uuid.UUID, at time.Time, entry audit.Entry) (int, error)
	InsertTransactions(ctx context.Context, txs []*statement.Transaction) error
	InsertReconciliation(ctx context.Context, rec *statement.Reconciliation) error
	UpdateAccountBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	validate *validation.Validator
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CloseParams struct {
	AccountID      uuid.UUID       `validate:"required"`
	PeriodStart    time.Time       `validate:"required"`
	PeriodEnd      time.Time       `validate:"required"`
	OpeningBalance decimal.Decimal `validate:"scale=2"`
	PaymentsTotal  decimal.Decimal `validate:"gte=0,scale=2"`
	PerformedBy    string          `validate:"required"`
}

type Result struct {
	Statement      *statement.Statement
	Reconciliation *statement.Reconciliation
	Transactions   []*statement.Transaction
	Finalized      []*fuelslip.FuelSlip
}

// CloseFuelMonth closes the account for [PeriodStart, PeriodEnd], both
// inclusive whole days.
func (s *Service) CloseFuelMonth(ctx context.Context, params CloseParams) (*Result, error) {
	start := time.Now()

	res, err := s.closeFuelMonth(ctx, params)

	logger := logging.FromContext(ctx).With(
		"account_id", params.AccountID,
		"period_start", params.PeriodStart.Format(time.DateOnly),
		"period_end", params.PeriodEnd.Format(time.DateOnly),
	)

	switch {
	case err == nil:
		metrics.ObserveClose(metrics.ResultSuccess, time.Since(start))
		logger.Info("month closed",
			"statement_id", res.Statement.ID,
			"slips", len(res.Finalized),
			"closing_balance", res.Statement.ClosingBalance.StringFixed(fuelslip.CurrencyPlaces),
			"variance", res.Reconciliation.Variance.StringFixed(fuelslip.CurrencyPlaces),
		)
	case errors.Is(err, apperr.ErrDuplicatePeriod):
		metrics.ObserveClose(metrics.ResultDuplicate, time.Since(start))
		logger.Warn("month close rejected", "error", err)
	default:
		metrics.ObserveClose(metrics.ResultError, time.Since(start))
		logger.Error("month close failed", "error", err)
	}

	return res, err
}

func (s *Service) closeFuelMonth(ctx context.Context, p CloseParams) (*Result, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, err
	}

	p.PeriodStart = dateOnly(p.PeriodStart)
	p.PeriodEnd = dateOnly(p.PeriodEnd)

	if p.PeriodStart.After(p.PeriodEnd) {
		return nil, apperr.BusinessRule("INVALID_PERIOD", "period start %s is after period end %s",
			p.PeriodStart.Format(time.DateOnly), p.PeriodEnd.Format(time.DateOnly))
	}

	tx, err := s.repo.BeginClose(ctx, p.AccountID)
	if err != nil {
		return nil, persistence("begin close", err)
	}
	defer tx.Rollback()

	acc, err := tx.LockAccount(ctx, p.AccountID)
	if err != nil {
		return nil, persistence("lock account", err)
	}

	if acc.Type != account.TypeFuel {
		return nil, apperr.BusinessRule("NOT_A_FUEL_ACCOUNT", "account %q is a %s account", acc.Name, acc.Type)
	}

	if err := GuardPeriod(ctx, tx, p.AccountID, p.PeriodStart, p.PeriodEnd); err != nil {
		return nil, err
	}

	candidates, err := tx.ListCandidates(ctx, p.AccountID, p.PeriodStart, p.PeriodEnd.AddDate(0, 0, 1))
	if err != nil {
		return nil, persistence("list candidates", err)
	}

	slipsTotal := decimal.Zero
	for _, slip := range candidates {
		slipsTotal = slipsTotal.Add(slip.Total)
	}

	now := s.now()

	st := &statement.Statement{
		ID:             uuid.New(),
		AccountID:      p.AccountID,
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		StatementDate:  dateOnly(now),
		OpeningBalance: p.OpeningBalance,
		ClosingBalance: ClosingBalance(p.OpeningBalance, p.PaymentsTotal, slipsTotal),
		TotalDebits:    slipsTotal,
		TotalCredits:   p.PaymentsTotal,
		CreatedBy:      p.PerformedBy,
		CreatedAt:      now,
	}

	if err := tx.InsertStatement(ctx, st); err != nil {
		return nil, persistence("insert statement", err)
	}

	ids := make([]uuid.UUID, len(candidates))
	for i, slip := range candidates {
		ids[i] = slip.ID
	}

	entry := audit.NewEntry(audit.ActionMonthCloseFinalized, p.PerformedBy, "statement "+st.ID.String())

	if len(ids) > 0 {
		n, err := tx.FinalizeSlips(ctx, ids, st.ID, now, entry)
		if err != nil {
			return nil, persistence("finalize slips", err)
		}

		if n != len(ids) {
			return nil, apperr.Persistence("finalize slips",
				fmt.Errorf("finalized %d of %d candidate slips", n, len(ids)))
		}
	}

	postings := Postings(candidates, st, p.PaymentsTotal, now)
	if err := tx.InsertTransactions(ctx, postings); err != nil {
		return nil, persistence("post transactions", err)
	}

	rec := &statement.Reconciliation{
		ID:            uuid.New(),
		StatementID:   st.ID,
		AccountID:     acc.ID,
		AccountName:   acc.Name,
		SlipsTotal:    slipsTotal,
		PaymentsTotal: p.PaymentsTotal,
		Variance:      Variance(p.PaymentsTotal, slipsTotal),
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		CreatedBy:     p.PerformedBy,
		CreatedAt:     now,
	}

	if err := tx.InsertReconciliation(ctx, rec); err != nil {
		return nil, persistence("insert reconciliation", err)
	}

	if err := tx.UpdateAccountBalance(ctx, acc.ID, st.ClosingBalance); err != nil {
		return nil, persistence("update account balance", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistence("commit close", err)
	}

	metrics.AddSlipsFinalized("month_close", len(candidates))

	for _, slip := range candidates {
		slip.State = fuelslip.StateFinalized
		slip.StatementID = &st.ID
		slip.LastStatusUpdate = &now
		slip.AuditTrail = slip.AuditTrail.Append(entry)
	}

	return &Result{
		Statement:      st,
		Reconciliation: rec,
		Transactions:   postings,
		Finalized:      candidates,
	}, nil
}

// ClosingBalance is opening + payments - slips.
func ClosingBalance(opening, payments, slips decimal.Decimal) decimal.Decimal {
	return opening.Add(payments).Sub(slips)
}

// Variance is payments - slips.
func Variance(payments, slips decimal.Decimal) decimal.Decimal {
	return payments.Sub(slips)
}

// Postings builds one DEBIT per slip and a CREDIT for the payments total,
// all linked to st.
func Postings(slips []*fuelslip.FuelSlip, st *statement.Statement, payments decimal.Decimal, postedAt time.Time) []*statement.Transaction {
	txs := make([]*statement.Transaction, 0, len(slips)+1)

	for _, slip := range slips {
		txs = append(txs, &statement.Transaction{
			ID:              uuid.New(),
			AccountID:       st.AccountID,
			TransactionDate: slip.TransactionDate,
			PostingDate:     postedAt,
			Amount:          slip.Total,
			Direction:       statement.Debit,
			SourceType:      statement.SourceFuelSlip,
			SourceID:        &slip.ID,
			Reference:       slip.SlipNumber,
			StatementID:     &st.ID,
		})
	}

	if payments.IsPositive() {
		txs = append(txs, &statement.Transaction{
			ID:              uuid.New(),
			AccountID:       st.AccountID,
			TransactionDate: st.PeriodEnd,
			PostingDate:     postedAt,
			Amount:          payments,
			Direction:       statement.Credit,
			SourceType:      statement.SourcePayments,
			Reference:       "payments " + st.PeriodStart.Format(time.DateOnly) + ".." + st.PeriodEnd.Format(time.DateOnly),
			StatementID:     &st.ID,
		})
	}

	return txs
}

// persistence keeps classified errors as they are and wraps anything else as
// a persistence failure.
func persistence(op string, err error) error {
	var appErr *apperr.Error

	var dup *apperr.DuplicatePeriodError

	if errors.As(err, &appErr) || errors.As(err, &dup) {
		return err
	}

	return apperr.Persistence(op, err)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
