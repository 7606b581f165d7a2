// Package fuelcard parses fuel card provider exports into slip parameters.
package fuelcard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/fleetfuel/internal/encoding"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fleet"
	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
)

var dateLayouts = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	time.DateOnly,
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// separators are tried in order until one yields a known header.
var separators = []rune{';', ','}

// Parser reads fuel card CSV exports. It auto-detects the charset, the field
// separator and which provider layout is used by matching column headers
// against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one CreateParams per purchase row. PerformedBy is left empty
// for the caller to fill in.
func (p *Parser) Parse(r io.Reader) ([]fuelslip.CreateParams, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read %s input: %w", charset, err)
	}

	for _, sep := range separators {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
	}

	return nil, fmt.Errorf("no matching fuel card format found: expected columns for %s", profileNames())
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

func profileNames() string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}

	return strings.Join(names, " or ")
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts purchases from data rows using the matched profile.
// headerIdx is the 0-based index of the header row; errors report 1-based line numbers.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerIdx int) ([]fuelslip.CreateParams, error) {
	var out []fuelslip.CreateParams

	for i, row := range rows {
		rowNum := headerIdx + i + 2

		date, ok := parseDate(cellValue(row, cols[p.DateCol]))
		if !ok {
			continue
		}

		site := cellValue(row, cols[p.SiteCol])
		if site == "" {
			return nil, fmt.Errorf("row %d: missing site", rowNum)
		}

		qty, err := parseNumber(cellValue(row, cols[p.QuantityCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: quantity: %w", rowNum, err)
		}

		price, err := parseNumber(cellValue(row, cols[p.UnitPriceCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: unit price: %w", rowNum, err)
		}

		params := fuelslip.CreateParams{
			SlipNumber:      optional(row, cols, p.ReceiptCol),
			TransactionDate: date,
			StationName:     site,
			Vehicle:         fleet.Ref{Key: cellValue(row, cols[p.VehicleCol])},
			Driver:          fleet.Ref{Key: optional(row, cols, p.DriverCol)},
			Quantity:        qty,
			UnitPrice:       price,
		}

		if s := optional(row, cols, p.OdometerCol); s != "" {
			odo, err := strconv.ParseInt(strings.NewReplacer(",", "", ".", "", " ", "").Replace(s), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: odometer %q: %w", rowNum, s, err)
			}

			params.Odometer = &odo
		}

		out = append(out, params)
	}

	return out, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func optional(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok {
		return ""
	}

	return cellValue(row, idx)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
