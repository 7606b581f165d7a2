package fuelcard

// Profile describes the column layout of a fuel card provider export.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name         string
	DateCol      string
	VehicleCol   string
	SiteCol      string
	QuantityCol  string
	UnitPriceCol string

	// Optional columns; empty when the layout has none.
	DriverCol   string
	ReceiptCol  string
	OdometerCol string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.VehicleCol, p.SiteCol, p.QuantityCol, p.UnitPriceCol}
}

// profiles is the ordered list of layouts to try during auto-detection.
var profiles = []Profile{
	{
		Name:         "itemised",
		DateCol:      "Transaction Date",
		VehicleCol:   "Registration",
		SiteCol:      "Site",
		QuantityCol:  "Quantity",
		UnitPriceCol: "Unit Price",
		DriverCol:    "Driver",
		ReceiptCol:   "Receipt No",
		OdometerCol:  "Mileage",
	},
	{
		Name:         "litres",
		DateCol:      "Date",
		VehicleCol:   "Vehicle Reg",
		SiteCol:      "Site Name",
		QuantityCol:  "Litres",
		UnitPriceCol: "Price Per Litre",
		DriverCol:    "Driver Name",
		ReceiptCol:   "Transaction No",
		OdometerCol:  "Odometer",
	},
}
