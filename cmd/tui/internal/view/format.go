package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

const dbTimeout = 5 * time.Second

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(fuelslip.CurrencyPlaces)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func parseDecimal(s string) error {
	if _, err := decimal.NewFromString(s); err != nil {
		return fmt.Errorf("enter a number such as 1234.56")
	}

	return nil
}

// fuelAccountSelect builds a select over the FUEL accounts bound to dst.
func fuelAccountSelect(accounts []*account.Account, dst *uuid.UUID) *huh.Select[uuid.UUID] {
	opts := make([]huh.Option[uuid.UUID], 0, len(accounts))

	for _, a := range accounts {
		if a.Type != account.TypeFuel {
			continue
		}

		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s %s)", a.Name, a.Currency, FormatMoney(a.Balance)), a.ID))
	}

	return huh.NewSelect[uuid.UUID]().
		Key("account").
		Title("Fuel Account").
		Options(opts...).
		Value(dst)
}
