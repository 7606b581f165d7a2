package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

var demoVehicles = []string{"AB12 CDE", "KX19 LMN", "YR70 PQA"}

// seed fills an empty ledger with one fuel card account and a month of
// draft slips ending last month.
func seed(ctx context.Context, svc view.Services) error {
	acc, err := svc.Accounts.Create(ctx, account.CreateParams{
		Name:           "BP Fuel Account",
		Type:           account.TypeFuel,
		Currency:       "GBP",
		OpeningBalance: decimal.RequireFromString("50000.00"),
	})
	if err != nil {
		return err
	}

	if _, err := svc.Accounts.CreateFuelSource(ctx, account.FuelSourceParams{
		Name:         "BP",
		Kind:         account.SourceCard,
		MatchPattern: "BP",
		AccountID:    acc.ID,
	}); err != nil {
		return err
	}

	for _, reg := range demoVehicles {
		if _, err := svc.Fleet.ProvisionVehicle(ctx, reg, svc.Operator); err != nil {
			return err
		}
	}

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	params := make([]fuelslip.CreateParams, 0, 12)

	for i := range 12 {
		params = append(params, fuelslip.CreateParams{
			SlipNumber:      fmt.Sprintf("DEMO-%03d", i+1),
			TransactionDate: start.AddDate(0, 0, i*2),
			StationName:     "BP Motorway Services",
			Vehicle:         fleet.Ref{Key: demoVehicles[i%len(demoVehicles)]},
			Quantity:        decimal.NewFromInt(int64(40 + i*3)),
			UnitPrice:       decimal.RequireFromString("1.459"),
			PerformedBy:     svc.Operator,
		})
	}

	_, err = svc.Slips.CreateBatch(ctx, params)

	return err
}
