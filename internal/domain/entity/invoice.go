package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rechnungsstatus. Für die Exportpfade rein informativ.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusOpen      = "open"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice repräsentiert den Rechnungskopf. Nach der Erstellung ist die
// Rechnung ein unveränderlicher Schnappschuss; die Exportpfade lesen nur.
// Invariante: GrossTotal == NetTotal + VatTotal (Toleranz 0,01 EUR).
type Invoice struct {
	ID           string
	TenantID     string
	CustomerID   string
	Number       string // eindeutig je Mandant, z.B. "RE-2025-0001"
	IssueDate    time.Time
	DueDate      *time.Time // nil = kein Zahlungsziel hinterlegt
	Status       string
	Currency     string // derzeit immer "EUR"
	PaymentTerms string // Freitext, z.B. "Zahlbar innerhalb von 14 Tagen"
	NetTotal     decimal.Decimal
	VatTotal     decimal.Decimal
	GrossTotal   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
