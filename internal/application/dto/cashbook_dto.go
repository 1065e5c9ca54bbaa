package dto

import "github.com/shopspring/decimal"

// CreateCashbookEntryRequest Body für POST /api/cashbook.
type CreateCashbookEntryRequest struct {
	EntryDate       string          `json:"entry_date"` // "2006-01-02"
	Kind            string          `json:"kind"`       // income|expense
	Category        string          `json:"category"`
	CategoryAccount string          `json:"category_account,omitempty"` // Sachkonto; leer = Sammelkonto
	Amount          decimal.Decimal `json:"amount"`
	VatRate         decimal.Decimal `json:"vat_rate"`
	Description     string          `json:"description"`
	DocumentNumber  string          `json:"document_number,omitempty"`
}

// CashbookEntryResponse Eintrag in Antworten.
type CashbookEntryResponse struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	EntryDate       string          `json:"entry_date"`
	Kind            string          `json:"kind"`
	Category        string          `json:"category"`
	CategoryAccount string          `json:"category_account,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	VatRate         decimal.Decimal `json:"vat_rate"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	DocumentNumber  string          `json:"document_number,omitempty"`
	Cancelled       bool            `json:"cancelled"`
}
