package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/importer/fuelcard"
	"github.com/MrJamesThe3rd/fleetfuel/internal/logging"
)

type Service struct {
	importers map[Provider]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Provider]Importer{
			ProviderFuelCard: fuelcard.NewParser(),
		},
	}
}

// Import parses r with the provider's importer and stamps every row with
// performedBy.
func (s *Service) Import(ctx context.Context, provider Provider, r io.Reader, performedBy string) ([]fuelslip.CreateParams, error) {
	importer, ok := s.importers[provider]
	if !ok {
		return nil, apperr.Validation("UNKNOWN_PROVIDER", "unknown provider: %s", provider)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, apperr.Validation("IMPORT_FILE_INVALID", "%v", err)
	}

	for i := range params {
		params[i].PerformedBy = performedBy
	}

	logging.FromContext(ctx).Info("parsed import file", "provider", provider, "rows", len(params))

	return params, nil
}
