package entity

import "github.com/shopspring/decimal"

// InvoiceItem repräsentiert eine Rechnungsposition.
// DiscountPercent ist ein Positionsrabatt in Prozent (0..100).
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	Position        int    // 1-basiert, bestimmt die Reihenfolge in allen Exporten
	Description     string
	Quantity        decimal.Decimal
	Unit            string // Mengeneinheit, z.B. "Stunde", "Stück"
	UnitPrice       decimal.Decimal
	VatRate         decimal.Decimal // Prozentsatz; üblich 0, 7 oder 19, wird aber nicht validiert
	DiscountPercent decimal.Decimal
}

// Net liefert den Positionsnettobetrag: Menge × Einzelpreis × (1 − Rabatt/100).
// Keine Zwischenrundung; gerundet wird erst bei der Darstellung.
func (it InvoiceItem) Net() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(it.DiscountPercent.Div(decimal.NewFromInt(100)))
	return it.Quantity.Mul(it.UnitPrice).Mul(factor)
}

// Vat liefert den Positionssteuerbetrag: Netto × Steuersatz/100.
func (it InvoiceItem) Vat() decimal.Decimal {
	return it.Net().Mul(it.VatRate.Div(decimal.NewFromInt(100)))
}
