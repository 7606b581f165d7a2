package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type stubStatements struct {
	detail *statement.Detail
}

func (s *stubStatements) Detail(_ context.Context, id uuid.UUID) (*statement.Detail, error) {
	if s.detail == nil || s.detail.Statement.ID != id {
		return nil, apperr.NotFound("STATEMENT_NOT_FOUND", "statement %s not found", id)
	}

	return s.detail, nil
}

type stubAccounts struct {
	acc *account.Account
}

func (s *stubAccounts) Get(context.Context, uuid.UUID) (*account.Account, error) {
	return s.acc, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixture() (*Service, uuid.UUID) {
	accID := uuid.New()
	stID := uuid.New()
	slipID := uuid.New()
	closedAt := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	detail := &statement.Detail{
		Statement: &statement.Statement{
			ID:             stID,
			AccountID:      accID,
			PeriodStart:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			PeriodEnd:      time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			StatementDate:  closedAt,
			OpeningBalance: d("50000.00"),
			ClosingBalance: d("52365.00"),
			TotalDebits:    d("10185.00"),
			TotalCredits:   d("12550.00"),
			CreatedBy:      "controller",
			CreatedAt:      closedAt,
		},
		Reconciliation: &statement.Reconciliation{
			StatementID:   stID,
			SlipsTotal:    d("10185.00"),
			PaymentsTotal: d("12550.00"),
			Variance:      d("2365.00"),
		},
		Transactions: []*statement.Transaction{
			{
				TransactionDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
				Amount:          d("5385.00"),
				Direction:       statement.Debit,
				SourceType:      statement.SourceFuelSlip,
				SourceID:        &slipID,
				Reference:       "FS-202405-00001",
			},
			{
				TransactionDate: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
				Amount:          d("12550.00"),
				Direction:       statement.Credit,
				SourceType:      statement.SourcePayments,
				Reference:       "payments 2024-05-01..2024-05-31",
			},
		},
	}

	svc := NewService(
		&stubStatements{detail: detail},
		&stubAccounts{acc: &account.Account{ID: accID, Name: "BP Fuel Account", Currency: "GBP"}},
	)

	return svc, stID
}

func TestService_StatementXLSX(t *testing.T) {
	svc, id := fixture()

	file, err := svc.Statement(context.Background(), id, FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, "statement_BP_Fuel_Account_20240501-20240531.xlsx", file.Name)
	assert.Equal(t, contentTypes[FormatXLSX], file.ContentType)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)

	defer wb.Close()

	name, err := wb.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "BP Fuel Account", name)

	rows, err := wb.GetRows(linesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Reference", "Direction", "Source", "Amount"}, rows[0])
	assert.Equal(t, "FS-202405-00001", rows[1][1])
	assert.Equal(t, "CREDIT", rows[2][2])
	assert.Equal(t, "12,550.00", rows[2][4])

	raw := excelize.Options{RawCellValue: true}

	opening, err := wb.GetCellValue(summarySheet, "B7", raw)
	require.NoError(t, err)
	assert.Equal(t, "50000.00", opening)

	variance, err := wb.GetCellValue(summarySheet, "B13", raw)
	require.NoError(t, err)
	assert.Equal(t, "2365.00", variance)

	amount, err := wb.GetCellValue(linesSheet, "E2", raw)
	require.NoError(t, err)
	assert.Equal(t, "5385.00", amount)

	typ, err := wb.GetCellType(linesSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeUnset, typ)
}

func TestService_StatementPDF(t *testing.T) {
	svc, id := fixture()

	file, err := svc.Statement(context.Background(), id, FormatPDF)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", file.ContentType)
}

func TestService_Bundle(t *testing.T) {
	svc, id := fixture()

	file, err := svc.Bundle(context.Background(), id)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.ElementsMatch(t, []string{
		"statement_BP_Fuel_Account_20240501-20240531.xlsx",
		"statement_BP_Fuel_Account_20240501-20240531.pdf",
		"summary.txt",
	}, names)

	rc, err := zr.Open("summary.txt")
	require.NoError(t, err)

	summary, err := io.ReadAll(rc)
	require.NoError(t, err)

	assert.Contains(t, string(summary), "Opening 50000.00 | Debits 10185.00 | Credits 12550.00 | Closing 52365.00")
	assert.Contains(t, string(summary), "Variance 2365.00")
	assert.Contains(t, string(summary), "* 2024-05-03 | FS-202405-00001 | -5385.00")
	assert.Contains(t, string(summary), "+12550.00")
}

func TestService_Errors(t *testing.T) {
	svc, id := fixture()
	ctx := context.Background()

	_, err := svc.Statement(ctx, uuid.New(), FormatPDF)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Statement(ctx, id, Format("csv"))
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = ParseFormat("docx")
	require.ErrorIs(t, err, apperr.ErrValidation)

	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
}

func TestService_WriteFile(t *testing.T) {
	svc, id := fixture()
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := svc.WriteFile(context.Background(), id, FormatPDF, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "statement_BP_Fuel_Account_20240501-20240531.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestService_Describe(t *testing.T) {
	svc, id := fixture()

	summary, err := svc.Describe(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(summary, "BP Fuel Account (GBP)\nPeriod 2024-05-01 to 2024-05-31\n"))
	assert.Contains(t, summary, "Slips 10185.00 | Payments 12550.00 | Variance 2365.00")

	_, err = svc.Describe(context.Background(), uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
