package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	slipstore "github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip/store"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

const statementPeriodConstraint = "account_statements_period_key"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// BeginClose opens a READ COMMITTED transaction. Serialization of closes on
// the same account comes from the row lock taken by LockAccount.
func (s *Store) BeginClose(ctx context.Context, _ uuid.UUID) (closing.CloseTx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, apperr.Persistence("begin close", err)
	}

	return &closeTx{tx: tx}, nil
}

type closeTx struct {
	tx *sql.Tx
}

func (t *closeTx) LockAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, name, type, currency, balance, created_at, updated_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var (
		acc account.Account
		typ string
	)

	err := t.tx.QueryRowContext(ctx, query, accountID).
		Scan(&acc.ID, &acc.Name, &typ, &acc.Currency, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ACCOUNT_NOT_FOUND", "account %s not found", accountID)
		}

		return nil, apperr.Persistence("locking account", err)
	}

	acc.Type = account.Type(typ)

	return &acc, nil
}

func (t *closeTx) StatementExists(ctx context.Context, accountID uuid.UUID, periodStart, periodEnd time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM account_statements
			WHERE account_id = $1 AND period_start = $2 AND period_end = $3
		)
	`

	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, accountID, periodStart, periodEnd).Scan(&exists); err != nil {
		return false, apperr.Persistence("checking statement period", err)
	}

	return exists, nil
}

func (t *closeTx) ListCandidates(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]*fuelslip.FuelSlip, error) {
	query := `SELECT ` + slipstore.SelectColumns + slipstore.FromClause + `
		WHERE fs.account_id = $1
			AND s.status = 'DRAFT'
			AND s.transaction_date >= $2
			AND s.transaction_date < $3
		ORDER BY s.transaction_date ASC, s.slip_number ASC
		FOR UPDATE OF s
	`

	rows, err := t.tx.QueryContext(ctx, query, accountID, from, to)
	if err != nil {
		return nil, apperr.Persistence("listing close candidates", err)
	}

	slips, err := slipstore.ScanAll(rows)
	if err != nil {
		return nil, apperr.Persistence("listing close candidates", err)
	}

	return slips, nil
}

func (t *closeTx) InsertStatement(ctx context.Context, st *statement.Statement) error {
	query := `
		INSERT INTO account_statements (
			id, account_id, period_start, period_end, statement_date,
			opening_balance, closing_balance, total_debits, total_credits, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := t.tx.ExecContext(ctx, query,
		st.ID,
		st.AccountID,
		st.PeriodStart,
		st.PeriodEnd,
		st.StatementDate,
		st.OpeningBalance,
		st.ClosingBalance,
		st.TotalDebits,
		st.TotalCredits,
		st.CreatedBy,
		st.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, statementPeriodConstraint) {
			return &apperr.DuplicatePeriodError{AccountID: st.AccountID, PeriodStart: st.PeriodStart, PeriodEnd: st.PeriodEnd}
		}

		return apperr.Persistence("inserting statement", err)
	}

	return nil
}

func (t *closeTx) FinalizeSlips(ctx context.Context, ids []uuid.UUID, statementID uuid.UUID, at time.Time, entry audit.Entry) (int, error) {
	entryJSON, err := entry.JSON()
	if err != nil {
		return 0, apperr.Persistence("encoding audit entry", err)
	}

	query := `
		UPDATE fuel_slips
		SET status = 'FINALIZED', account_statement_id = $2, last_status_update = $3,
			audit_trail = audit_trail || $4::jsonb, updated_at = NOW()
		WHERE id = ANY($1::uuid[]) AND status = 'DRAFT'
	`

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	res, err := t.tx.ExecContext(ctx, query, idStrs, statementID, at, string(entryJSON))
	if err != nil {
		return 0, apperr.Persistence("finalizing slips", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Persistence("finalizing slips", err)
	}

	return int(n), nil
}

func (t *closeTx) InsertTransactions(ctx context.Context, txs []*statement.Transaction) error {
	query := `
		INSERT INTO account_transactions (
			id, account_id, transaction_date, posting_date, amount, direction,
			source_type, source_id, reference, account_statement_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, tx := range txs {
		_, err := t.tx.ExecContext(ctx, query,
			tx.ID,
			tx.AccountID,
			tx.TransactionDate,
			tx.PostingDate,
			tx.Amount,
			tx.Direction,
			tx.SourceType,
			tx.SourceID,
			tx.Reference,
			tx.StatementID,
		)
		if err != nil {
			return apperr.Persistence("posting transaction", err)
		}
	}

	return nil
}

func (t *closeTx) InsertReconciliation(ctx context.Context, rec *statement.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (
			id, account_statement_id, account_id, account_name, slips_total, payments_total, variance,
			period_start, period_end, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := t.tx.ExecContext(ctx, query,
		rec.ID,
		rec.StatementID,
		rec.AccountID,
		rec.AccountName,
		rec.SlipsTotal,
		rec.PaymentsTotal,
		rec.Variance,
		rec.PeriodStart,
		rec.PeriodEnd,
		rec.CreatedBy,
		rec.CreatedAt,
	)
	if err != nil {
		return apperr.Persistence("inserting reconciliation", err)
	}

	return nil
}

func (t *closeTx) UpdateAccountBalance(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`, accountID, balance)
	if err != nil {
		return apperr.Persistence("updating account balance", err)
	}

	return nil
}

func (t *closeTx) Commit() error {
	return t.tx.Commit()
}

func (t *closeTx) Rollback() error {
	return t.tx.Rollback()
}
