package validation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/validation"
)

type sample struct {
	StationName string          `validate:"required"`
	Quantity    decimal.Decimal `validate:"gt=0,scale=3"`
	UnitPrice   decimal.Decimal `validate:"gt=0,scale=4"`
}

func TestValidator_Struct(t *testing.T) {
	tests := []struct {
		name     string
		in       sample
		wantCode string
	}{
		{
			name: "Valid",
			in:   sample{StationName: "BP Depot", Quantity: decimal.RequireFromString("10.5"), UnitPrice: decimal.RequireFromString("1.99")},
		},
		{
			name:     "MissingStation",
			in:       sample{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
			wantCode: "STATION_NAME_REQUIRED",
		},
		{
			name:     "ZeroQuantity",
			in:       sample{StationName: "BP", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(1)},
			wantCode: "QUANTITY_NOT_POSITIVE",
		},
		{
			name:     "NegativePrice",
			in:       sample{StationName: "BP", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-2)},
			wantCode: "UNIT_PRICE_NOT_POSITIVE",
		},
		{
			name: "TrailingZerosWithinScale",
			in:   sample{StationName: "BP", Quantity: decimal.RequireFromString("40.500000"), UnitPrice: decimal.RequireFromString("1.45900")},
		},
		{
			name:     "QuantityBeyondColumnScale",
			in:       sample{StationName: "BP", Quantity: decimal.RequireFromString("100.0005"), UnitPrice: decimal.NewFromInt(150)},
			wantCode: "QUANTITY_TOO_PRECISE",
		},
		{
			name:     "QuantityRoundsToZero",
			in:       sample{StationName: "BP", Quantity: decimal.RequireFromString("0.0004"), UnitPrice: decimal.NewFromInt(1)},
			wantCode: "QUANTITY_TOO_PRECISE",
		},
		{
			name:     "UnitPriceBeyondColumnScale",
			in:       sample{StationName: "BP", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("1.45901")},
			wantCode: "UNIT_PRICE_TOO_PRECISE",
		},
	}

	v := validation.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}
}

func TestValidator_ScalePointer(t *testing.T) {
	type patch struct {
		Amount *decimal.Decimal `validate:"omitempty,scale=2"`
	}

	v := validation.New()

	require.NoError(t, v.Struct(patch{}))
	require.NoError(t, v.Struct(patch{Amount: new(decimal.RequireFromString("12.30"))}))

	err := v.Struct(patch{Amount: new(decimal.RequireFromString("12.305"))})
	require.Error(t, err)
	assert.Equal(t, "AMOUNT_TOO_PRECISE", apperr.CodeOf(err))
}
