package account

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/validation"
)

type Repository interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByName(ctx context.Context, name string) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	CreateAccount(ctx context.Context, acc *Account) error

	GetFuelSource(ctx context.Context, id uuid.UUID) (*FuelSource, error)
	// FindFuelSource returns the source with the longest pattern contained in
	// stationName, or nil if none matches.
	FindFuelSource(ctx context.Context, stationName string) (*FuelSource, error)
	CreateFuelSource(ctx context.Context, src *FuelSource) error
	ListFuelSources(ctx context.Context, accountID uuid.UUID) ([]*FuelSource, error)
}

type Service struct {
	repo     Repository
	validate *validation.Validator
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validation.New()}
}

type CreateParams struct {
	Name           string          `validate:"required,max=120"`
	Type           Type            `validate:"required,oneof=FUEL BANK CASH SUPPLIER"`
	Currency       string          `validate:"required,len=3,uppercase"`
	OpeningBalance decimal.Decimal `validate:"scale=2"`
}

type FuelSourceParams struct {
	Name         string     `validate:"required,max=120"`
	Kind         SourceKind `validate:"required,oneof=STATION YARD_TANK CARD"`
	MatchPattern string     `validate:"required,min=2"`
	AccountID    uuid.UUID  `validate:"required"`
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Account, error) {
	return s.repo.GetAccountByName(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	acc := &Account{
		Name:     strings.TrimSpace(params.Name),
		Type:     params.Type,
		Currency: params.Currency,
		Balance:  params.OpeningBalance,
	}
	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// CreateFuelSource maps a new fuel source to an existing account.
func (s *Service) CreateFuelSource(ctx context.Context, params FuelSourceParams) (*FuelSource, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetAccount(ctx, params.AccountID); err != nil {
		return nil, err
	}

	src := &FuelSource{
		Name:         strings.TrimSpace(params.Name),
		Kind:         params.Kind,
		MatchPattern: strings.TrimSpace(params.MatchPattern),
		AccountID:    params.AccountID,
	}
	if err := s.repo.CreateFuelSource(ctx, src); err != nil {
		return nil, err
	}

	return src, nil
}

func (s *Service) ListFuelSources(ctx context.Context, accountID uuid.UUID) ([]*FuelSource, error) {
	return s.repo.ListFuelSources(ctx, accountID)
}

// ResolveFuelSource finds the fuel source for a slip, by id when given and
// otherwise by station name.
func (s *Service) ResolveFuelSource(ctx context.Context, id *uuid.UUID, stationName string) (*FuelSource, error) {
	if id != nil {
		src, err := s.repo.GetFuelSource(ctx, *id)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("FUEL_SOURCE_UNRESOLVED", "fuel source %s does not exist", id)
		}

		return src, err
	}

	stationName = strings.TrimSpace(stationName)
	if stationName == "" {
		return nil, apperr.Validation("FUEL_SOURCE_UNRESOLVED", "no fuel source or station name given")
	}

	src, err := s.repo.FindFuelSource(ctx, stationName)
	if err != nil {
		return nil, err
	}

	if src == nil {
		return nil, apperr.Validation("FUEL_SOURCE_UNRESOLVED", "no fuel source matches station %q", stationName)
	}

	return src, nil
}
