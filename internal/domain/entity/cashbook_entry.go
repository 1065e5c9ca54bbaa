package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Belegarten im Kassenbuch. Das Vorzeichen des Betrags ergibt sich aus
// der Art; Amount ist immer der Absolutbetrag.
const (
	CashbookKindIncome  = "income"
	CashbookKindExpense = "expense"
)

// CashbookEntry repräsentiert einen Kassenbucheintrag. Der DATEV-Export
// liest Einträge nur; Cancelled=true schließt den Eintrag vom Export aus.
type CashbookEntry struct {
	ID              string
	TenantID        string
	EntryDate       time.Time
	Kind            string // income | expense
	Category        string // Anzeigename der Kategorie
	CategoryAccount string // zugehöriges Sachkonto; leer = Sammelkonto 9999
	Amount          decimal.Decimal
	VatRate         decimal.Decimal
	Currency        string
	Description     string
	DocumentNumber  string
	Cancelled       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
