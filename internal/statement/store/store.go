package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
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

const selectStatementColumns = `
	id, account_id, period_start, period_end, statement_date, opening_balance, closing_balance,
	total_debits, total_credits, created_by, created_at
`

func scanStatement(s scanner) (*statement.Statement, error) {
	var st statement.Statement

	err := s.Scan(
		&st.ID, &st.AccountID, &st.PeriodStart, &st.PeriodEnd, &st.StatementDate, &st.OpeningBalance, &st.ClosingBalance,
		&st.TotalDebits, &st.TotalCredits, &st.CreatedBy, &st.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + ` FROM account_statements WHERE id = $1`

	st, err := scanStatement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("STATEMENT_NOT_FOUND", "statement %s not found", id)
		}

		return nil, apperr.Persistence("getting statement", err)
	}

	return st, nil
}

func (s *Store) ListStatements(ctx context.Context, accountID uuid.UUID, limit int) ([]*statement.Statement, error) {
	query := `SELECT ` + selectStatementColumns + `
		FROM account_statements
		WHERE account_id = $1
		ORDER BY period_start DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, apperr.Persistence("listing statements", err)
	}
	defer rows.Close()

	var sts []*statement.Statement

	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning statement", err)
		}

		sts = append(sts, st)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating statements", err)
	}

	return sts, nil
}

func (s *Store) GetReconciliation(ctx context.Context, statementID uuid.UUID) (*statement.Reconciliation, error) {
	query := `
		SELECT id, account_statement_id, account_id, account_name, slips_total, payments_total, variance,
			period_start, period_end, created_by, created_at
		FROM reconciliations
		WHERE account_statement_id = $1
	`

	var rec statement.Reconciliation

	err := s.db.QueryRowContext(ctx, query, statementID).Scan(
		&rec.ID, &rec.StatementID, &rec.AccountID, &rec.AccountName, &rec.SlipsTotal, &rec.PaymentsTotal, &rec.Variance,
		&rec.PeriodStart, &rec.PeriodEnd, &rec.CreatedBy, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("RECONCILIATION_NOT_FOUND", "no reconciliation for statement %s", statementID)
		}

		return nil, apperr.Persistence("getting reconciliation", err)
	}

	return &rec, nil
}

func (s *Store) ListTransactions(ctx context.Context, statementID uuid.UUID) ([]*statement.Transaction, error) {
	query := `
		SELECT id, account_id, transaction_date, posting_date, amount, direction, source_type, source_id,
			reference, account_statement_id
		FROM account_transactions
		WHERE account_statement_id = $1
		ORDER BY direction DESC, transaction_date ASC, reference ASC
	`

	rows, err := s.db.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, apperr.Persistence("listing transactions", err)
	}
	defer rows.Close()

	var txs []*statement.Transaction

	for rows.Next() {
		var (
			tx        statement.Transaction
			direction string
			reference sql.NullString
		)

		err := rows.Scan(
			&tx.ID, &tx.AccountID, &tx.TransactionDate, &tx.PostingDate, &tx.Amount, &direction, &tx.SourceType, &tx.SourceID,
			&reference, &tx.StatementID,
		)
		if err != nil {
			return nil, apperr.Persistence("scanning transaction", err)
		}

		tx.Direction = statement.Direction(direction)
		tx.Reference = reference.String
		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating transactions", err)
	}

	return txs, nil
}

func (s *Store) ListPending(ctx context.Context, accountID uuid.UUID, limit int) ([]*statement.Pending, error) {
	query := `
		SELECT s.id, s.slip_number, s.transaction_date, s.station_name, s.total_amount
		FROM fuel_slips s
		JOIN fuel_sources fs ON fs.id = s.fuel_source_id
		WHERE fs.account_id = $1 AND s.status = 'DRAFT'
		ORDER BY s.transaction_date ASC, s.slip_number ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, apperr.Persistence("listing pending slips", err)
	}
	defer rows.Close()

	var pending []*statement.Pending

	for rows.Next() {
		p := statement.Pending{Direction: statement.Debit}

		if err := rows.Scan(&p.SlipID, &p.SlipNumber, &p.TransactionDate, &p.StationName, &p.Amount); err != nil {
			return nil, apperr.Persistence("scanning pending slip", err)
		}

		pending = append(pending, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating pending slips", err)
	}

	return pending, nil
}
