package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

func (s *Store) GetStatement(_ context.Context, id uuid.UUID) (*statement.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.statements[id]
	if !ok {
		return nil, apperr.NotFound("STATEMENT_NOT_FOUND", "statement %s not found", id)
	}

	c := *st

	return &c, nil
}

func (s *Store) ListStatements(_ context.Context, accountID uuid.UUID, limit int) ([]*statement.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*statement.Statement

	for _, st := range s.statements {
		if st.AccountID == accountID {
			c := *st
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (s *Store) GetReconciliation(_ context.Context, statementID uuid.UUID) (*statement.Reconciliation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.recs[statementID]
	if !ok {
		return nil, apperr.NotFound("RECONCILIATION_NOT_FOUND", "no reconciliation for statement %s", statementID)
	}

	c := *rec

	return &c, nil
}

func (s *Store) ListTransactions(_ context.Context, statementID uuid.UUID) ([]*statement.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*statement.Transaction

	for _, tx := range s.transactions {
		if tx.StatementID != nil && *tx.StatementID == statementID {
			c := *tx
			out = append(out, &c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction > out[j].Direction
		}

		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}

		return out[i].Reference < out[j].Reference
	})

	return out, nil
}

func (s *Store) ListPending(_ context.Context, accountID uuid.UUID, limit int) ([]*statement.Pending, error) {
	s.mu.RLock()

	var slips []*fuelslip.FuelSlip

	for _, slip := range s.slips {
		if slip.AccountID == accountID && !slip.Finalized() {
			slips = append(slips, slip.Clone())
		}
	}

	s.mu.RUnlock()

	sortSlips(slips)

	if limit > 0 && len(slips) > limit {
		slips = slips[:limit]
	}

	out := make([]*statement.Pending, len(slips))
	for i, slip := range slips {
		out[i] = &statement.Pending{
			SlipID:          slip.ID,
			SlipNumber:      slip.SlipNumber,
			TransactionDate: slip.TransactionDate,
			StationName:     slip.StationName,
			Amount:          slip.Total,
			Direction:       statement.Debit,
		}
	}

	return out, nil
}
