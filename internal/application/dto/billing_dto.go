package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest Body für POST /api/customers.
type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code,omitempty"` // leer = "DE"
	VatID       string `json:"vat_id,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// CustomerResponse Kunde in Antworten.
type CustomerResponse struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenant_id"`
	Name        string `json:"name"`
	Street      string `json:"street"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	VatID       string `json:"vat_id,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// CreateInvoiceRequest Body für POST /api/invoices.
// Die Kopfsummen werden serverseitig aus den Positionen berechnet;
// mitgeschickte Summen werden ignoriert.
type CreateInvoiceRequest struct {
	CustomerID   string               `json:"customer_id"`
	Number       string               `json:"number"`
	IssueDate    string               `json:"issue_date"` // "2006-01-02"
	DueDate      string               `json:"due_date,omitempty"`
	PaymentTerms string               `json:"payment_terms,omitempty"`
	Items        []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest eine Rechnungsposition.
type InvoiceItemRequest struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VatRate         decimal.Decimal `json:"vat_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// InvoiceResponse Rechnung mit Positionen für GET /api/invoices/:id.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	TenantID     string                `json:"tenant_id"`
	CustomerID   string                `json:"customer_id"`
	Number       string                `json:"number"`
	IssueDate    string                `json:"issue_date"`
	DueDate      string                `json:"due_date,omitempty"`
	Status       string                `json:"status"`
	Currency     string                `json:"currency"`
	PaymentTerms string                `json:"payment_terms,omitempty"`
	NetTotal     decimal.Decimal       `json:"net_total"`
	VatTotal     decimal.Decimal       `json:"vat_total"`
	GrossTotal   decimal.Decimal       `json:"gross_total"`
	Items        []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse Position in der Antwort, einschließlich des
// errechneten Nettobetrags.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	Position        int             `json:"position"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VatRate         decimal.Decimal `json:"vat_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Net             decimal.Decimal `json:"net"`
}
