// Package pdf implementiert die Druckansicht der Rechnung als A4-PDF.
//
// Seitenaufbau:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  VERKÄUFER (oben links)        │  RECHNUNG + Nr. + Daten    │
//	│  Anschrift / Steuernummern     │                            │
//	│  ───────────────────────────────────────────────────────    │
//	│  EMPFÄNGER (rechts, versetzt)                               │
//	│  ───────────────────────────────────────────────────────    │
//	│  TABELLE: Beschreibung | Menge | Einheit | Preis | Gesamt   │
//	│  ───────────────────────────────────────────────────────    │
//	│  SUMMEN: Netto / USt. je Satz / Gesamtbetrag                │
//	│  Zahlungsbedingungen                                        │
//	└─────────────────────────────────────────────────────────────┘
//
// Läuft die Positionstabelle über den unteren Seitenrand, beginnt Maroto
// automatisch eine neue Seite; keine Position geht dabei verloren.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/vat"
)

// ── Farbpalette ───────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 45, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoInvoiceRenderer implementiert export.InvoicePDFGenerator mit Maroto v2.
type MarotoInvoiceRenderer struct{}

// NewMarotoInvoiceRenderer erzeugt den Renderer.
func NewMarotoInvoiceRenderer() *MarotoInvoiceRenderer { return &MarotoInvoiceRenderer{} }

// RenderInvoicePDF erzeugt das PDF und liefert dessen Bytes.
func (g *MarotoInvoiceRenderer) RenderInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	seller *entity.Company,
	buyer *entity.Customer,
	items []*entity.InvoiceItem,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(12).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Rechnung "+invoice.Number, true).
		WithAuthor(seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(seller))
	m.AddRows(buyerRow(buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(items) {
		m.AddRows(r)
	}

	for _, r := range footerRows(invoice) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: dokument erzeugen: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Abschnitte ────────────────────────────────────────────────────────────────

// headerRow: Verkäufername (links) und Rechnungsnummer + Daten (rechts).
func headerRow(invoice *entity.Invoice, seller *entity.Company) core.Row {
	issue := invoice.IssueDate.Format("02.01.2006")

	right := []core.Component{
		text.New("RECHNUNG", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(invoice.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
		text.New("Rechnungsdatum: "+issue, props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	}
	if invoice.DueDate != nil {
		right = append(right, text.New("Fällig am: "+invoice.DueDate.Format("02.01.2006"), props.Text{
			Size: 8, Align: align.Right, Top: 18, Color: colorGray,
		}))
	}

	return row.New(22).Add(
		col.New(7).Add(
			text.New(seller.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(right...),
	)
}

// sellerRow: Anschrift und Steuerkennungen des Verkäufers. Fehlende
// optionale Kennungen (Steuernummer, USt-IdNr.) werden schlicht weggelassen.
func sellerRow(seller *entity.Company) core.Row {
	address := fmt.Sprintf("%s, %s %s, %s", seller.Street, seller.Zip, seller.City, seller.CountryCode)

	taxLine := ""
	if seller.TaxNumber != "" {
		taxLine = "Steuernummer: " + seller.TaxNumber
	}
	if seller.VatID != "" {
		if taxLine != "" {
			taxLine += "   |   "
		}
		taxLine += "USt-IdNr.: " + seller.VatID
	}

	components := []core.Component{
		text.New("VERKÄUFER", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(address, props.Text{Size: 8, Top: 6, Color: colorGray}),
	}
	if taxLine != "" {
		components = append(components, text.New(taxLine, props.Text{Size: 8, Top: 10, Color: colorGray}))
	}

	return row.New(14).Add(col.New(12).Add(components...))
}

// buyerRow: Empfängerblock, rechts versetzt wie im Fensterumschlag.
func buyerRow(buyer *entity.Customer) core.Row {
	components := []core.Component{
		text.New("RECHNUNGSEMPFÄNGER", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(buyer.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		text.New(fmt.Sprintf("%s, %s %s", buyer.Street, buyer.Zip, buyer.City), props.Text{
			Size: 8, Top: 12, Color: colorGray,
		}),
	}
	if buyer.VatID != "" {
		components = append(components, text.New("USt-IdNr.: "+buyer.VatID, props.Text{
			Size: 8, Top: 16, Color: colorGray,
		}))
	}

	return row.New(20).Add(
		col.New(5),
		col.New(7).Add(components...),
	)
}

// tableHeaderRow: Kopf der fünfspaltigen Positionstabelle.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Beschreibung", 5, align.Left),
		h("Menge", 1, align.Center),
		h("Einheit", 2, align.Center),
		h("Einzelpreis", 2, align.Right),
		h("Gesamt", 2, align.Right),
	)
}

// tableItemRows: eine Zeile je Rechnungsposition. Jede Zeile rückt den
// Cursor um eine feste Höhe vor; am Seitenende bricht Maroto um.
func tableItemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				it.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatEUR(it.UnitPrice.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatEUR(it.Net().Round(2).StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: Netto, USt. je vorkommendem Steuersatz (Reihenfolge des ersten
// Auftretens), Gesamtbetrag. Die Summen werden aus den Positionen neu
// berechnet, nie aus dem Kopf übernommen.
func totalsRows(items []*entity.InvoiceItem) []core.Row {
	buckets := vat.FromItems(items)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1})
	}

	rows := []core.Row{
		row.New(6).Add(
			col.New(6),
			col.New(3).Add(label("Nettobetrag:")),
			col.New(3).Add(value(formatEUR(buckets.NetTotal().Round(2).StringFixed(2)))),
		),
	}
	for _, bucket := range buckets.Slice() {
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(label(fmt.Sprintf("USt. %s %%:", bucket.Rate.String()))),
			col.New(3).Add(value(formatEUR(bucket.Vat.Round(2).StringFixed(2)))),
		))
	}
	rows = append(rows, row.New(8).Add(
		col.New(6),
		col.New(3).Add(text.New("Gesamtbetrag:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatEUR(buckets.GrossTotal().Round(2).StringFixed(2)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	))
	return rows
}

// footerRows: Zahlungsbedingungen unterhalb des Summenblocks.
func footerRows(invoice *entity.Invoice) []core.Row {
	if invoice.PaymentTerms == "" {
		return nil
	}
	return []core.Row{
		row.New(3),
		row.New(8).Add(col.New(12).Add(
			text.New(invoice.PaymentTerms, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)),
	}
}

// ── Helfer ────────────────────────────────────────────────────────────────────

// formatEUR wandelt einen Dezimalstring "1234.56" in die deutsche
// Darstellung "1.234,56 €" (Tausenderpunkt, Dezimalkomma, Euro-Zeichen).
func formatEUR(fixed string) string {
	intPart := fixed
	fracPart := "00"
	if i := len(fixed) - 3; i >= 0 && fixed[i] == '.' {
		intPart = fixed[:i]
		fracPart = fixed[i+1:]
	}

	negative := false
	if len(intPart) > 0 && intPart[0] == '-' {
		negative = true
		intPart = intPart[1:]
	}

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}

	out := string(buf) + "," + fracPart + " €"
	if negative {
		out = "-" + out
	}
	return out
}
