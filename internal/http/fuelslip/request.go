package fuelslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

// ParamsDTO is the wire form of fuelslip.CreateParams. Vehicle and driver
// are given either by id or by natural key.
type ParamsDTO struct {
	SlipNumber          string          `json:"slip_number,omitempty"`
	TransactionDate     time.Time       `json:"transaction_date"`
	FuelSourceID        *uuid.UUID      `json:"fuel_source_id,omitempty"`
	StationName         string          `json:"station_name"`
	VehicleID           *uuid.UUID      `json:"vehicle_id,omitempty"`
	VehicleRegistration string          `json:"vehicle_registration,omitempty"`
	DriverID            *uuid.UUID      `json:"driver_id,omitempty"`
	DriverName          string          `json:"driver_name,omitempty"`
	TripID              *uuid.UUID      `json:"trip_id,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Odometer            *int64          `json:"odometer,omitempty"`
}

func (p ParamsDTO) Params(performedBy string) fuelslip.CreateParams {
	return fuelslip.CreateParams{
		SlipNumber:      p.SlipNumber,
		TransactionDate: p.TransactionDate,
		FuelSourceID:    p.FuelSourceID,
		StationName:     p.StationName,
		Vehicle:         fleet.Ref{ID: p.VehicleID, Key: p.VehicleRegistration},
		Driver:          fleet.Ref{ID: p.DriverID, Key: p.DriverName},
		TripID:          p.TripID,
		Quantity:        p.Quantity,
		UnitPrice:       p.UnitPrice,
		Odometer:        p.Odometer,
		PerformedBy:     performedBy,
	}
}

func ToParamsDTO(p fuelslip.CreateParams) ParamsDTO {
	return ParamsDTO{
		SlipNumber:          p.SlipNumber,
		TransactionDate:     p.TransactionDate,
		FuelSourceID:        p.FuelSourceID,
		StationName:         p.StationName,
		VehicleID:           p.Vehicle.ID,
		VehicleRegistration: p.Vehicle.Key,
		DriverID:            p.Driver.ID,
		DriverName:          p.Driver.Key,
		TripID:              p.TripID,
		Quantity:            p.Quantity,
		UnitPrice:           p.UnitPrice,
		Odometer:            p.Odometer,
	}
}

type updateSlipRequest struct {
	TransactionDate     *time.Time       `json:"transaction_date,omitempty"`
	StationName         *string          `json:"station_name,omitempty"`
	FuelSourceID        *uuid.UUID       `json:"fuel_source_id,omitempty"`
	VehicleID           *uuid.UUID       `json:"vehicle_id,omitempty"`
	VehicleRegistration *string          `json:"vehicle_registration,omitempty"`
	DriverID            *uuid.UUID       `json:"driver_id,omitempty"`
	DriverName          *string          `json:"driver_name,omitempty"`
	TripID              *uuid.UUID       `json:"trip_id,omitempty"`
	Quantity            *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	Odometer            *int64           `json:"odometer,omitempty"`
}

func (req updateSlipRequest) params() fuelslip.UpdateParams {
	p := fuelslip.UpdateParams{
		TransactionDate: req.TransactionDate,
		StationName:     req.StationName,
		FuelSourceID:    req.FuelSourceID,
		TripID:          req.TripID,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		Odometer:        req.Odometer,
	}

	if req.VehicleID != nil || req.VehicleRegistration != nil {
		p.Vehicle = &fleet.Ref{ID: req.VehicleID}
		if req.VehicleRegistration != nil {
			p.Vehicle.Key = *req.VehicleRegistration
		}
	}

	if req.DriverID != nil || req.DriverName != nil {
		p.Driver = &fleet.Ref{ID: req.DriverID}
		if req.DriverName != nil {
			p.Driver.Key = *req.DriverName
		}
	}

	return p
}
