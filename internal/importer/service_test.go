package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer"
)

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	svc := importer.NewService()

	t.Run("StampsPerformer", func(t *testing.T) {
		csv := "Transaction Date;Registration;Site;Quantity;Unit Price\n03/05/2024;AB12CDE;BP;10;1,80\n"

		params, err := svc.Import(ctx, importer.ProviderFuelCard, strings.NewReader(csv), "dispatcher")
		require.NoError(t, err)
		require.Len(t, params, 1)
		assert.Equal(t, "dispatcher", params[0].PerformedBy)
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		_, err := svc.Import(ctx, "bank", strings.NewReader(""), "dispatcher")
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "UNKNOWN_PROVIDER", apperr.CodeOf(err))
	})

	t.Run("InvalidFile", func(t *testing.T) {
		_, err := svc.Import(ctx, importer.ProviderFuelCard, strings.NewReader("nothing here"), "dispatcher")
		require.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "IMPORT_FILE_INVALID", apperr.CodeOf(err))
	})
}
