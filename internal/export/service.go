// Package export renders closed statements as XLSX, PDF or a ZIP bundle of
// both with a plain text summary.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fleetfuel/internal/account"
	"github.com/MrJamesThe3rd/fleetfuel/internal/apperr"
	"github.com/MrJamesThe3rd/fleetfuel/internal/metrics"
	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatZIP  Format = "zip"
)

var contentTypes = map[Format]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
	FormatZIP:  "application/zip",
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentTypes[f]; !ok {
		return "", apperr.Validation("FORMAT_INVALID", "unsupported export format %q", s)
	}

	return f, nil
}

type StatementReader interface {
	Detail(ctx context.Context, id uuid.UUID) (*statement.Detail, error)
}

type AccountReader interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Document is everything a rendered statement shows.
type Document struct {
	*statement.Detail
	AccountName string
	Currency    string
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service handles the export of closed statements.
type Service struct {
	statements StatementReader
	accounts   AccountReader
}

func NewService(statements StatementReader, accounts AccountReader) *Service {
	return &Service{statements: statements, accounts: accounts}
}

// Statement renders statement id in the given format.
func (s *Service) Statement(ctx context.Context, id uuid.UUID, format Format) (*File, error) {
	file, err := s.render(ctx, id, format)
	if err != nil {
		metrics.IncExport(string(format), metrics.ResultError)
		return nil, err
	}

	metrics.IncExport(string(format), metrics.ResultSuccess)

	return file, nil
}

// Bundle zips the XLSX, the PDF and a text summary of statement id.
func (s *Service) Bundle(ctx context.Context, id uuid.UUID) (*File, error) {
	return s.Statement(ctx, id, FormatZIP)
}

// WriteFile renders statement id into outputDir and returns the file path.
func (s *Service) WriteFile(ctx context.Context, id uuid.UUID, format Format, outputDir string) (string, error) {
	file, err := s.Statement(ctx, id, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}

// Describe returns the text summary of statement id.
func (s *Service) Describe(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.document(ctx, id)
	if err != nil {
		return "", err
	}

	return Summary(doc), nil
}

func (s *Service) render(ctx context.Context, id uuid.UUID, format Format) (*File, error) {
	if _, ok := contentTypes[format]; !ok {
		return nil, apperr.Validation("FORMAT_INVALID", "unsupported export format %q", format)
	}

	doc, err := s.document(ctx, id)
	if err != nil {
		return nil, err
	}

	var data []byte

	switch format {
	case FormatXLSX:
		data, err = BuildXLSX(doc)
	case FormatPDF:
		data, err = BuildPDF(doc)
	case FormatZIP:
		data, err = buildZIP(doc)
	}

	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}

	return &File{
		Name:        fileName(doc, format),
		ContentType: contentTypes[format],
		Data:        data,
	}, nil
}

func (s *Service) document(ctx context.Context, id uuid.UUID) (*Document, error) {
	detail, err := s.statements.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	acc, err := s.accounts.Get(ctx, detail.Statement.AccountID)
	if err != nil {
		return nil, err
	}

	return &Document{Detail: detail, AccountName: acc.Name, Currency: acc.Currency}, nil
}

func buildZIP(doc *Document) ([]byte, error) {
	xlsx, err := BuildXLSX(doc)
	if err != nil {
		return nil, err
	}

	pdf, err := BuildPDF(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	entries := []struct {
		name string
		data []byte
	}{
		{fileName(doc, FormatXLSX), xlsx},
		{fileName(doc, FormatPDF), pdf},
		{"summary.txt", []byte(Summary(doc))},
	}

	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: doc.Statement.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", e.name, err)
		}

		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}

	return buf.Bytes(), nil
}

// Summary is a plain text digest of the statement, one posting per line.
func Summary(doc *Document) string {
	st := doc.Statement

	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", doc.AccountName, doc.Currency)
	fmt.Fprintf(&sb, "Period %s\n", period(st))
	fmt.Fprintf(&sb, "Opening %s | Debits %s | Credits %s | Closing %s\n",
		money(st.OpeningBalance), money(st.TotalDebits), money(st.TotalCredits), money(st.ClosingBalance))

	if rec := doc.Reconciliation; rec != nil {
		fmt.Fprintf(&sb, "Slips %s | Payments %s | Variance %s\n",
			money(rec.SlipsTotal), money(rec.PaymentsTotal), money(rec.Variance))
	}

	sb.WriteString("\n")

	for _, tx := range doc.Transactions {
		sign := "-"
		if tx.Direction == statement.Credit {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s\n", tx.TransactionDate.Format(time.DateOnly), tx.Reference, sign, money(tx.Amount))
	}

	return sb.String()
}

// fileName is statement_<account>_<YYYYMMDD>-<YYYYMMDD>.<ext>.
func fileName(doc *Document, format Format) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, doc.AccountName)

	return fmt.Sprintf("statement_%s_%s-%s.%s", safe,
		doc.Statement.PeriodStart.Format("20060102"), doc.Statement.PeriodEnd.Format("20060102"), format)
}
