package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fleetfuel/internal/statement"
)

type StatementResponse struct {
	ID             uuid.UUID       `json:"id"`
	AccountID      uuid.UUID       `json:"account_id"`
	PeriodStart    string          `json:"period_start"`
	PeriodEnd      string          `json:"period_end"`
	StatementDate  string          `json:"statement_date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalDebits    decimal.Decimal `json:"total_debits"`
	TotalCredits   decimal.Decimal `json:"total_credits"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

type ReconciliationResponse struct {
	ID            uuid.UUID       `json:"id"`
	StatementID   uuid.UUID       `json:"statement_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	AccountName   string          `json:"account_name"`
	SlipsTotal    decimal.Decimal `json:"slips_total"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
	Variance      decimal.Decimal `json:"variance"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TransactionResponse struct {
	ID              uuid.UUID           `json:"id"`
	AccountID       uuid.UUID           `json:"account_id"`
	TransactionDate time.Time           `json:"transaction_date"`
	PostingDate     time.Time           `json:"posting_date"`
	Amount          decimal.Decimal     `json:"amount"`
	Direction       statement.Direction `json:"direction"`
	SourceType      string              `json:"source_type"`
	SourceID        *uuid.UUID          `json:"source_id,omitempty"`
	Reference       string              `json:"reference"`
	StatementID     *uuid.UUID          `json:"statement_id,omitempty"`
}

type PendingResponse struct {
	SlipID          uuid.UUID           `json:"slip_id"`
	SlipNumber      string              `json:"slip_number"`
	TransactionDate time.Time           `json:"transaction_date"`
	StationName     string              `json:"station_name"`
	Amount          decimal.Decimal     `json:"amount"`
	Direction       statement.Direction `json:"direction"`
}

type detailResponse struct {
	Statement      StatementResponse       `json:"statement"`
	Reconciliation *ReconciliationResponse `json:"reconciliation"`
}

func ToStatementResponse(st *statement.Statement) StatementResponse {
	return StatementResponse{
		ID:             st.ID,
		AccountID:      st.AccountID,
		PeriodStart:    st.PeriodStart.Format(time.DateOnly),
		PeriodEnd:      st.PeriodEnd.Format(time.DateOnly),
		StatementDate:  st.StatementDate.Format(time.DateOnly),
		OpeningBalance: st.OpeningBalance,
		ClosingBalance: st.ClosingBalance,
		TotalDebits:    st.TotalDebits,
		TotalCredits:   st.TotalCredits,
		CreatedBy:      st.CreatedBy,
		CreatedAt:      st.CreatedAt,
	}
}

func ToStatementList(sts []*statement.Statement) []StatementResponse {
	resp := make([]StatementResponse, len(sts))
	for i, st := range sts {
		resp[i] = ToStatementResponse(st)
	}

	return resp
}

func ToReconciliationResponse(rec *statement.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		ID:            rec.ID,
		StatementID:   rec.StatementID,
		AccountID:     rec.AccountID,
		AccountName:   rec.AccountName,
		SlipsTotal:    rec.SlipsTotal,
		PaymentsTotal: rec.PaymentsTotal,
		Variance:      rec.Variance,
		PeriodStart:   rec.PeriodStart.Format(time.DateOnly),
		PeriodEnd:     rec.PeriodEnd.Format(time.DateOnly),
		CreatedBy:     rec.CreatedBy,
		CreatedAt:     rec.CreatedAt,
	}
}

func ToTransactionList(txs []*statement.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = TransactionResponse{
			ID:              tx.ID,
			AccountID:       tx.AccountID,
			TransactionDate: tx.TransactionDate,
			PostingDate:     tx.PostingDate,
			Amount:          tx.Amount,
			Direction:       tx.Direction,
			SourceType:      tx.SourceType,
			SourceID:        tx.SourceID,
			Reference:       tx.Reference,
			StatementID:     tx.StatementID,
		}
	}

	return resp
}

func ToPendingList(items []*statement.Pending) []PendingResponse {
	resp := make([]PendingResponse, len(items))
	for i, p := range items {
		resp[i] = PendingResponse{
			SlipID:          p.SlipID,
			SlipNumber:      p.SlipNumber,
			TransactionDate: p.TransactionDate,
			StationName:     p.StationName,
			Amount:          p.Amount,
			Direction:       p.Direction,
		}
	}

	return resp
}
