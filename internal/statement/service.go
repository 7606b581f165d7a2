package statement

import (
	"context"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Repository interface {
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	ListStatements(ctx context.Context, accountID uuid.UUID, limit int) ([]*Statement, error)
	GetReconciliation(ctx context.Context, statementID uuid.UUID) (*Reconciliation, error)
	ListTransactions(ctx context.Context, statementID uuid.UUID) ([]*Transaction, error)
	// ListPending returns DRAFT slips of the account, oldest first.
	ListPending(ctx context.Context, accountID uuid.UUID, limit int) ([]*Pending, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Detail is a statement with its reconciliation and postings.
type Detail struct {
	Statement      *Statement
	Reconciliation *Reconciliation
	Transactions   []*Transaction
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	st, err := s.repo.GetStatement(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := s.repo.GetReconciliation(ctx, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.ListTransactions(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Statement: st, Reconciliation: rec, Transactions: txs}, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]*Statement, error) {
	return s.repo.ListStatements(ctx, accountID, clampLimit(limit))
}

func (s *Service) Reconciliation(ctx context.Context, statementID uuid.UUID) (*Reconciliation, error) {
	return s.repo.GetReconciliation(ctx, statementID)
}

func (s *Service) Transactions(ctx context.Context, statementID uuid.UUID) ([]*Transaction, error) {
	if _, err := s.repo.GetStatement(ctx, statementID); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, statementID)
}

// Pending lists the account's unfinalized slips as prospective debits.
func (s *Service) Pending(ctx context.Context, accountID uuid.UUID, limit int) ([]*Pending, error) {
	return s.repo.ListPending(ctx, accountID, clampLimit(limit))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
