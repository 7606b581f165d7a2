// Package memory is an in-process implementation of every ledger repository.
//
// It keeps the contract of the PostgreSQL stores: close transactions hold a
// per-account lock until Commit or Rollback, writes inside a transaction are
// staged and applied atomically on Commit, and the unique keys (slip number,
// statement period, account name) are enforced. It backs the TUI demo mode
// and the scenario and concurrency tests.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/closing"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

var (
	_ account.Repository   = (*Store)(nil)
	_ fleet.Repository     = (*Store)(nil)
	_ fuelslip.Repository  = (*Store)(nil)
	_ closing.Repository   = (*Store)(nil)
	_ statement.Repository = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	accounts     map[uuid.UUID]*account.Account
	sources      map[uuid.UUID]*account.FuelSource
	vehicles     map[uuid.UUID]*fleet.Vehicle
	drivers      map[uuid.UUID]*fleet.Driver
	slips        map[uuid.UUID]*fuelslip.FuelSlip
	counters     map[string]int64
	statements   map[uuid.UUID]*statement.Statement
	recs         map[uuid.UUID]*statement.Reconciliation // keyed by statement id
	transactions []*statement.Transaction

	lockMu       sync.Mutex
	accountLocks map[uuid.UUID]*sync.Mutex
	importMu     sync.Mutex

	failMu   sync.Mutex
	failures map[string]error

	now func() time.Time
}

func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*account.Account),
		sources:      make(map[uuid.UUID]*account.FuelSource),
		vehicles:     make(map[uuid.UUID]*fleet.Vehicle),
		drivers:      make(map[uuid.UUID]*fleet.Driver),
		slips:        make(map[uuid.UUID]*fuelslip.FuelSlip),
		counters:     make(map[string]int64),
		statements:   make(map[uuid.UUID]*statement.Statement),
		recs:         make(map[uuid.UUID]*statement.Reconciliation),
		accountLocks: make(map[uuid.UUID]*sync.Mutex),
		failures:     make(map[string]error),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// FailNext makes the next call of op return err. op is a repository or
// transaction method name such as "InsertReconciliation" or "Commit".
func (s *Store) FailNext(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	err, ok := s.failures[op]
	if !ok {
		return nil
	}

	delete(s.failures, op)

	return err
}

func (s *Store) accountLock(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	l, ok := s.accountLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[id] = l
	}

	return l
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
