// Package vat bündelt die Umsatzsteuer-Aggregation, die alle Exportpfade
// (PDF, XRechnung, DATEV) teilen: Rechnungspositionen werden einmal
// durchlaufen und je Steuersatz zu (Netto, USt) aufsummiert.
//
// Sämtliche Arithmetik läuft über shopspring/decimal; gerundet wird
// ausschließlich bei der Darstellung (2 Nachkommastellen), nie zwischendurch.
package vat

import (
	"github.com/shopspring/decimal"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Bucket akkumuliert Netto- und Steuerbetrag für genau einen Steuersatz.
type Bucket struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	Vat  decimal.Decimal
}

// Buckets ist die geordnete Abbildung Steuersatz → (Netto, USt).
// Die Reihenfolge ist die des ersten Auftretens eines Satzes, damit
// nachgelagerte Ausgaben (XML-Steueraufschlüsselung, Summenblock im PDF)
// deterministisch iterieren können.
type Buckets struct {
	order  []string
	byRate map[string]*Bucket
}

// NewBuckets erzeugt eine leere Aggregation.
func NewBuckets() *Buckets {
	return &Buckets{byRate: make(map[string]*Bucket)}
}

// FromItems baut die Aggregation aus den Rechnungspositionen in
// Positionsreihenfolge auf.
func FromItems(items []*entity.InvoiceItem) *Buckets {
	b := NewBuckets()
	for _, it := range items {
		b.Add(it.Quantity, it.UnitPrice, it.VatRate, it.DiscountPercent)
	}
	return b
}

// Add verrechnet eine Position: Netto = Menge × Einzelpreis × (1 − Rabatt/100),
// USt = Netto × Satz/100. Der Satz wird unverändert als Schlüssel verwendet,
// auch Sätze außerhalb von {0, 7, 19} — bewusst kein Validieren, kein Normieren.
// Positionen mit Menge oder Preis null erzeugen trotzdem einen Bucket-Eintrag.
func (b *Buckets) Add(quantity, unitPrice, vatRate, discountPercent decimal.Decimal) {
	net := quantity.Mul(unitPrice).Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
	vat := net.Mul(vatRate.Div(hundred))

	key := vatRate.String()
	bucket, ok := b.byRate[key]
	if !ok {
		bucket = &Bucket{Rate: vatRate}
		b.byRate[key] = bucket
		b.order = append(b.order, key)
	}
	bucket.Net = bucket.Net.Add(net)
	bucket.Vat = bucket.Vat.Add(vat)
}

// Slice liefert die Buckets in Reihenfolge des ersten Auftretens.
func (b *Buckets) Slice() []Bucket {
	out := make([]Bucket, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.byRate[key])
	}
	return out
}

// NetTotal ist die Summe aller Bucket-Nettobeträge (= Rechnungsnetto).
func (b *Buckets) NetTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, key := range b.order {
		sum = sum.Add(b.byRate[key].Net)
	}
	return sum
}

// VatTotal ist die Summe aller Bucket-Steuerbeträge (= Rechnungssteuer).
func (b *Buckets) VatTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, key := range b.order {
		sum = sum.Add(b.byRate[key].Vat)
	}
	return sum
}

// GrossTotal ist Netto plus Steuer.
func (b *Buckets) GrossTotal() decimal.Decimal {
	return b.NetTotal().Add(b.VatTotal())
}
