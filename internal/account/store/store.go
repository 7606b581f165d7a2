package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/database"
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

const selectAccountColumns = `id, name, type, currency, balance, created_at, updated_at`

func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account

	var typ string

	if err := s.Scan(&acc.ID, &acc.Name, &typ, &acc.Currency, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}

	acc.Type = account.Type(typ)

	return &acc, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ACCOUNT_NOT_FOUND", "account %s not found", id)
		}

		return nil, apperr.Persistence("getting account", err)
	}

	return acc, nil
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE name = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ACCOUNT_NOT_FOUND", "account %q not found", name)
		}

		return nil, apperr.Persistence("getting account by name", err)
	}

	return acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectAccountColumns+` FROM accounts ORDER BY name`)
	if err != nil {
		return nil, apperr.Persistence("listing accounts", err)
	}
	defer rows.Close()

	var accs []*account.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning account", err)
		}

		accs = append(accs, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating accounts", err)
	}

	return accs, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (name, type, currency, balance, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, acc.Name, acc.Type, acc.Currency, acc.Balance).
		Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "accounts_name_key") {
			return apperr.BusinessRule("DUPLICATE_ACCOUNT_NAME", "account %q already exists", acc.Name)
		}

		return apperr.Persistence("creating account", err)
	}

	return nil
}

const selectSourceColumns = `id, name, kind, match_pattern, account_id, created_at`

func scanSource(s scanner) (*account.FuelSource, error) {
	var src account.FuelSource

	var kind string

	if err := s.Scan(&src.ID, &src.Name, &kind, &src.MatchPattern, &src.AccountID, &src.CreatedAt); err != nil {
		return nil, err
	}

	src.Kind = account.SourceKind(kind)

	return &src, nil
}

func (s *Store) GetFuelSource(ctx context.Context, id uuid.UUID) (*account.FuelSource, error) {
	query := `SELECT ` + selectSourceColumns + ` FROM fuel_sources WHERE id = $1`

	src, err := scanSource(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("FUEL_SOURCE_NOT_FOUND", "fuel source %s not found", id)
		}

		return nil, apperr.Persistence("getting fuel source", err)
	}

	return src, nil
}

func (s *Store) FindFuelSource(ctx context.Context, stationName string) (*account.FuelSource, error) {
	query := `
		SELECT ` + selectSourceColumns + `
		FROM fuel_sources
		WHERE $1 ILIKE '%' || match_pattern || '%'
		ORDER BY LENGTH(match_pattern) DESC, created_at DESC
		LIMIT 1
	`

	src, err := scanSource(s.db.QueryRowContext(ctx, query, stationName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, apperr.Persistence("finding fuel source", err)
	}

	return src, nil
}

func (s *Store) CreateFuelSource(ctx context.Context, src *account.FuelSource) error {
	query := `
		INSERT INTO fuel_sources (name, kind, match_pattern, account_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, src.Name, src.Kind, src.MatchPattern, src.AccountID).
		Scan(&src.ID, &src.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "fuel_sources_match_pattern_key") {
			return apperr.BusinessRule("DUPLICATE_FUEL_SOURCE", "pattern %q is already mapped", src.MatchPattern)
		}

		return apperr.Persistence("creating fuel source", err)
	}

	return nil
}

func (s *Store) ListFuelSources(ctx context.Context, accountID uuid.UUID) ([]*account.FuelSource, error) {
	query := `SELECT ` + selectSourceColumns + ` FROM fuel_sources WHERE account_id = $1 ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, apperr.Persistence("listing fuel sources", err)
	}
	defer rows.Close()

	var srcs []*account.FuelSource

	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, apperr.Persistence("scanning fuel source", err)
		}

		srcs = append(srcs, src)
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterating fuel sources", err)
	}

	return srcs, nil
}
