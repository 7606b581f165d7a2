package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

// BeginClose takes the account lock. It is held until Commit or Rollback, so
// closes of one account run one at a time while other accounts proceed.
func (s *Store) BeginClose(ctx context.Context, accountID uuid.UUID) (closing.CloseTx, error) {
	if err := s.fail("BeginClose"); err != nil {
		return nil, apperr.Persistence("begin close", err)
	}

	lock := s.accountLock(accountID)

	acquired := make(chan struct{})

	go func() {
		lock.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		go func() {
			<-acquired
			lock.Unlock()
		}()

		return nil, apperr.Persistence("begin close", ctx.Err())
	}

	return &closeTx{s: s, lock: lock}, nil
}

type finalizeOp struct {
	ids         []uuid.UUID
	statementID uuid.UUID
	at          time.Time
	entry       audit.Entry
}

type closeTx struct {
	s    *Store
	lock *sync.Mutex
	done bool

	statement    *statement.Statement
	finalize     *finalizeOp
	transactions []*statement.Transaction
	rec          *statement.Reconciliation
	balance      *balanceOp
}

type balanceOp struct {
	accountID uuid.UUID
	balance   decimal.Decimal
}

func (t *closeTx) LockAccount(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	return t.s.GetAccount(ctx, accountID)
}

func (t *closeTx) StatementExists(_ context.Context, accountID uuid.UUID, periodStart, periodEnd time.Time) (bool, error) {
	if err := t.s.fail("StatementExists"); err != nil {
		return false, apperr.Persistence("checking statement period", err)
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	return t.s.periodTakenLocked(accountID, periodStart, periodEnd), nil
}

func (s *Store) periodTakenLocked(accountID uuid.UUID, periodStart, periodEnd time.Time) bool {
	for _, st := range s.statements {
		if st.AccountID == accountID && st.PeriodStart.Equal(periodStart) && st.PeriodEnd.Equal(periodEnd) {
			return true
		}
	}

	return false
}

func (t *closeTx) ListCandidates(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]*fuelslip.FuelSlip, error) {
	if err := t.s.fail("ListCandidates"); err != nil {
		return nil, apperr.Persistence("listing close candidates", err)
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var out []*fuelslip.FuelSlip

	for _, slip := range t.s.slips {
		if slip.AccountID != accountID || slip.Finalized() {
			continue
		}

		if slip.TransactionDate.Before(from) || !slip.TransactionDate.Before(to) {
			continue
		}

		out = append(out, slip.Clone())
	}

	sortSlips(out)

	return out, nil
}

func (t *closeTx) InsertStatement(_ context.Context, st *statement.Statement) error {
	if err := t.s.fail("InsertStatement"); err != nil {
		return apperr.Persistence("inserting statement", err)
	}

	c := *st
	t.statement = &c

	return nil
}

func (t *closeTx) FinalizeSlips(_ context.Context, ids []uuid.UUID, statementID uuid.UUID, at time.Time, entry audit.Entry) (int, error) {
	if err := t.s.fail("FinalizeSlips"); err != nil {
		return 0, apperr.Persistence("finalizing slips", err)
	}

	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	n := 0

	for _, id := range ids {
		if slip, ok := t.s.slips[id]; ok && !slip.Finalized() {
			n++
		}
	}

	t.finalize = &finalizeOp{ids: append([]uuid.UUID(nil), ids...), statementID: statementID, at: at, entry: entry}

	return n, nil
}

func (t *closeTx) InsertTransactions(_ context.Context, txs []*statement.Transaction) error {
	if err := t.s.fail("InsertTransactions"); err != nil {
		return apperr.Persistence("posting transaction", err)
	}

	for _, tx := range txs {
		c := *tx
		t.transactions = append(t.transactions, &c)
	}

	return nil
}

func (t *closeTx) InsertReconciliation(_ context.Context, rec *statement.Reconciliation) error {
	if err := t.s.fail("InsertReconciliation"); err != nil {
		return apperr.Persistence("inserting reconciliation", err)
	}

	c := *rec
	t.rec = &c

	return nil
}

func (t *closeTx) UpdateAccountBalance(_ context.Context, accountID uuid.UUID, balance decimal.Decimal) error {
	if err := t.s.fail("UpdateAccountBalance"); err != nil {
		return apperr.Persistence("updating account balance", err)
	}

	t.balance = &balanceOp{accountID: accountID, balance: balance}

	return nil
}

// Commit checks the unique statement period and that every slip to finalize
// is still DRAFT, then applies all staged writes at once.
func (t *closeTx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already closed")
	}

	defer t.release()

	if err := t.s.fail("Commit"); err != nil {
		return err
	}

	s := t.s

	s.mu.Lock()
	defer s.mu.Unlock()

	if st := t.statement; st != nil && s.periodTakenLocked(st.AccountID, st.PeriodStart, st.PeriodEnd) {
		return &apperr.DuplicatePeriodError{AccountID: st.AccountID, PeriodStart: st.PeriodStart, PeriodEnd: st.PeriodEnd}
	}

	if op := t.finalize; op != nil {
		for _, id := range op.ids {
			slip, ok := s.slips[id]
			if !ok || slip.Finalized() {
				return fmt.Errorf("slip %s changed during close", id)
			}
		}
	}

	if st := t.statement; st != nil {
		s.statements[st.ID] = st
	}

	if op := t.finalize; op != nil {
		for _, id := range op.ids {
			next := s.slips[id].Clone()
			next.State = fuelslip.StateFinalized
			next.StatementID = &op.statementID
			next.LastStatusUpdate = &op.at
			next.AuditTrail = next.AuditTrail.Append(op.entry)
			s.slips[id] = next
		}
	}

	s.transactions = append(s.transactions, t.transactions...)

	if t.rec != nil {
		s.recs[t.rec.StatementID] = t.rec
	}

	if b := t.balance; b != nil {
		if acc, ok := s.accounts[b.accountID]; ok {
			next := cloneAccount(acc)
			next.Balance = b.balance
			next.UpdatedAt = new(s.now())
			s.accounts[b.accountID] = next
		}
	}

	return nil
}

func (t *closeTx) Rollback() error {
	if t.done {
		return nil
	}

	t.release()

	return nil
}

func (t *closeTx) release() {
	t.done = true
	t.statement, t.finalize, t.transactions, t.rec, t.balance = nil, nil, nil, nil, nil
	t.lock.Unlock()
}
