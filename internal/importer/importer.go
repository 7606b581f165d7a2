package importer

import (
	"io"

	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

type Provider string

const (
	ProviderFuelCard Provider = "fuelcard"
)

type Importer interface {
	Parse(r io.Reader) ([]fuelslip.CreateParams, error)
}
