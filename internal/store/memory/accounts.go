package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
)

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	return &c
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (*account.Account, error) {
	if err := s.fail("GetAccount"); err != nil {
		return nil, apperr.Persistence("getting account", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, apperr.NotFound("ACCOUNT_NOT_FOUND", "account %s not found", id)
	}

	return cloneAccount(acc), nil
}

func (s *Store) GetAccountByName(_ context.Context, name string) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, acc := range s.accounts {
		if acc.Name == name {
			return cloneAccount(acc), nil
		}
	}

	return nil, apperr.NotFound("ACCOUNT_NOT_FOUND", "account %q not found", name)
}

func (s *Store) ListAccounts(_ context.Context) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accs := make([]*account.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accs = append(accs, cloneAccount(acc))
	}

	sort.Slice(accs, func(i, j int) bool { return accs[i].Name < accs[j].Name })

	return accs, nil
}

func (s *Store) CreateAccount(_ context.Context, acc *account.Account) error {
	if err := s.fail("CreateAccount"); err != nil {
		return apperr.Persistence("creating account", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Name == acc.Name {
			return apperr.BusinessRule("DUPLICATE_ACCOUNT_NAME", "account %q already exists", acc.Name)
		}
	}

	acc.ID = uuid.New()
	acc.CreatedAt = s.now()
	s.accounts[acc.ID] = cloneAccount(acc)

	return nil
}

func cloneSource(src *account.FuelSource) *account.FuelSource {
	c := *src
	return &c
}

func (s *Store) GetFuelSource(_ context.Context, id uuid.UUID) (*account.FuelSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.sources[id]
	if !ok {
		return nil, apperr.NotFound("FUEL_SOURCE_NOT_FOUND", "fuel source %s not found", id)
	}

	return cloneSource(src), nil
}

func (s *Store) FindFuelSource(_ context.Context, stationName string) (*account.FuelSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *account.FuelSource

	for _, src := range s.sources {
		if !containsFold(stationName, src.MatchPattern) {
			continue
		}

		if best == nil ||
			len(src.MatchPattern) > len(best.MatchPattern) ||
			(len(src.MatchPattern) == len(best.MatchPattern) && src.CreatedAt.After(best.CreatedAt)) {
			best = src
		}
	}

	if best == nil {
		return nil, nil
	}

	return cloneSource(best), nil
}

func (s *Store) CreateFuelSource(_ context.Context, src *account.FuelSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sources {
		if existing.MatchPattern == src.MatchPattern {
			return apperr.BusinessRule("DUPLICATE_FUEL_SOURCE", "pattern %q is already mapped", src.MatchPattern)
		}
	}

	src.ID = uuid.New()
	src.CreatedAt = s.now()
	s.sources[src.ID] = cloneSource(src)

	return nil
}

func (s *Store) ListFuelSources(_ context.Context, accountID uuid.UUID) ([]*account.FuelSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var srcs []*account.FuelSource

	for _, src := range s.sources {
		if src.AccountID == accountID {
			srcs = append(srcs, cloneSource(src))
		}
	}

	sort.Slice(srcs, func(i, j int) bool { return srcs[i].Name < srcs[j].Name })

	return srcs, nil
}
