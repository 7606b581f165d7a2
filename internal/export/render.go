package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/fleetfuel/internal/fuelslip"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

const (
	summarySheet = "summary"
	linesSheet   = "lines"

	// numFmtMoney is the built-in "#,##0.00" format.
	numFmtMoney = 4
)

func money(d decimal.Decimal) string {
	return d.StringFixed(fuelslip.CurrencyPlaces)
}

func period(st *statement.Statement) string {
	return st.PeriodStart.Format(time.DateOnly) + " to " + st.PeriodEnd.Format(time.DateOnly)
}

type summaryRow struct {
	label string
	value any
}

func summaryRows(doc *Document) []summaryRow {
	st, rec := doc.Statement, doc.Reconciliation

	rows := []summaryRow{
		{"Account", doc.AccountName},
		{"Currency", doc.Currency},
		{"Period", period(st)},
		{"Statement date", st.StatementDate.Format(time.DateOnly)},
		{"Opening balance", st.OpeningBalance},
		{"Total debits", st.TotalDebits},
		{"Total credits", st.TotalCredits},
		{"Closing balance", st.ClosingBalance},
	}

	if rec != nil {
		rows = append(rows,
			summaryRow{"Slips total", rec.SlipsTotal},
			summaryRow{"Payments total", rec.PaymentsTotal},
			summaryRow{"Variance", rec.Variance},
		)
	}

	return append(rows, summaryRow{"Closed by", st.CreatedBy})
}

// BuildXLSX renders the statement as a workbook with a summary sheet and a
// sheet of posted lines.
func BuildXLSX(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("naming summary sheet: %w", err)
	}

	if _, err := f.NewSheet(linesSheet); err != nil {
		return nil, fmt.Errorf("adding lines sheet: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("adding money style: %w", err)
	}

	// Amounts are written as their decimal text, so the stored value is
	// exact and never passes through float64.
	setMoney := func(sheet, cell string, d decimal.Decimal) {
		_ = f.SetCellDefault(sheet, cell, money(d))
		_ = f.SetCellStyle(sheet, cell, cell, moneyStyle)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Fuel Account Statement")

	for i, row := range summaryRows(doc) {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+3), row.label)

		cell := fmt.Sprintf("B%d", i+3)
		if d, ok := row.value.(decimal.Decimal); ok {
			setMoney(summarySheet, cell, d)
			continue
		}

		_ = f.SetCellValue(summarySheet, cell, row.value)
	}

	header := []string{"Date", "Reference", "Direction", "Source", "Amount"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(linesSheet, cell, h)
	}

	for i, tx := range doc.Transactions {
		row := i + 2
		_ = f.SetCellValue(linesSheet, fmt.Sprintf("A%d", row), tx.TransactionDate.Format(time.DateOnly))
		_ = f.SetCellValue(linesSheet, fmt.Sprintf("B%d", row), tx.Reference)
		_ = f.SetCellValue(linesSheet, fmt.Sprintf("C%d", row), string(tx.Direction))
		_ = f.SetCellValue(linesSheet, fmt.Sprintf("D%d", row), tx.SourceType)
		setMoney(linesSheet, fmt.Sprintf("E%d", row), tx.Amount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// BuildPDF renders the statement as a single document.
func BuildPDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Fuel Account Statement", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Fuel Account Statement")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)

	for _, row := range summaryRows(doc) {
		value := row.value
		if d, ok := value.(decimal.Decimal); ok {
			value = money(d)
		}

		pdf.CellFormat(50, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprint(value), "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Reference", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Direction", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Source", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)

	for _, tx := range doc.Transactions {
		pdf.CellFormat(30, 6, tx.TransactionDate.Format(time.DateOnly), "1", 0, "C", false, 0, "")
		pdf.CellFormat(55, 6, tx.Reference, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, string(tx.Direction), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, tx.SourceType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, money(tx.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	return buf.Bytes(), nil
}
