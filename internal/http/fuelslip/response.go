package fuelslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/audit"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

type verificationResponse struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

type SlipResponse struct {
	ID               uuid.UUID             `json:"id"`
	SlipNumber       string                `json:"slip_number"`
	TransactionDate  time.Time             `json:"transaction_date"`
	FuelSourceID     uuid.UUID             `json:"fuel_source_id"`
	AccountID        uuid.UUID             `json:"account_id"`
	StationName      string                `json:"station_name"`
	VehicleID        uuid.UUID             `json:"vehicle_id"`
	DriverID         *uuid.UUID            `json:"driver_id,omitempty"`
	TripID           *uuid.UUID            `json:"trip_id,omitempty"`
	Quantity         decimal.Decimal       `json:"quantity"`
	UnitPrice        decimal.Decimal       `json:"unit_price"`
	Total            decimal.Decimal       `json:"total"`
	Odometer         *int64                `json:"odometer,omitempty"`
	Status           fuelslip.State        `json:"status"`
	Verification     *verificationResponse `json:"verification,omitempty"`
	StatementID      *uuid.UUID            `json:"statement_id,omitempty"`
	AuditTrail       []audit.Entry         `json:"audit_trail"`
	LastStatusUpdate *time.Time            `json:"last_status_update,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        *time.Time            `json:"updated_at,omitempty"`
}

func ToResponse(s *fuelslip.FuelSlip) SlipResponse {
	resp := SlipResponse{
		ID:               s.ID,
		SlipNumber:       s.SlipNumber,
		TransactionDate:  s.TransactionDate,
		FuelSourceID:     s.FuelSourceID,
		AccountID:        s.AccountID,
		StationName:      s.StationName,
		VehicleID:        s.VehicleID,
		DriverID:         s.DriverID,
		TripID:           s.TripID,
		Quantity:         s.Quantity,
		UnitPrice:        s.UnitPrice,
		Total:            s.Total,
		Odometer:         s.Odometer,
		Status:           s.State,
		StatementID:      s.StatementID,
		AuditTrail:       []audit.Entry(s.AuditTrail),
		LastStatusUpdate: s.LastStatusUpdate,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if resp.AuditTrail == nil {
		resp.AuditTrail = []audit.Entry{}
	}

	if v := s.Verification; v != nil {
		resp.Verification = &verificationResponse{By: v.By, At: v.At}
	}

	return resp
}

func ToResponseList(slips []*fuelslip.FuelSlip) []SlipResponse {
	resp := make([]SlipResponse, len(slips))
	for i, s := range slips {
		resp[i] = ToResponse(s)
	}

	return resp
}
