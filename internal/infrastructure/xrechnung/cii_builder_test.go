package xrechnung_test

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/xrechnung"
)

// ──────────────────────────────────────────────────────────────────────────────
// Referenzrechnung der Fachabnahme: zwei Positionen, zwei Steuersätze.
//
//	"Beratung"  2 × 100,00  19 %            → 200,00 / 38,00
//	"Material"  1 ×  50,00   7 %  −10 %     →  45,00 /  3,15
//	                                 Summe:   245,00 / 41,15 / 286,15
// ──────────────────────────────────────────────────────────────────────────────

func referenceContext() *xrechnung.BuildContext {
	due := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	return &xrechnung.BuildContext{
		Invoice: &entity.Invoice{
			Number:       "RE-2025-0042",
			IssueDate:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			DueDate:      &due,
			Currency:     "EUR",
			PaymentTerms: "Zahlbar innerhalb von 30 Tagen ohne Abzug",
		},
		Seller: &entity.Company{
			Name:        "Musterbau GmbH",
			Street:      "Hauptstraße 1",
			Zip:         "10115",
			City:        "Berlin",
			CountryCode: "DE",
			TaxNumber:   "30/123/45678",
			VatID:       "DE123456789",
		},
		Buyer: &entity.Customer{
			Name:        "Beispiel AG",
			Street:      "Marktplatz 7",
			Zip:         "80331",
			City:        "München",
			CountryCode: "DE",
			VatID:       "DE987654321",
		},
		Items: []*entity.InvoiceItem{
			{
				Position:    1,
				Description: "Beratung",
				Quantity:    decimal.NewFromInt(2),
				Unit:        "Stunde",
				UnitPrice:   decimal.NewFromInt(100),
				VatRate:     decimal.NewFromInt(19),
			},
			{
				Position:        2,
				Description:     "Material",
				Quantity:        decimal.NewFromInt(1),
				Unit:            "Stück",
				UnitPrice:       decimal.NewFromInt(50),
				VatRate:         decimal.NewFromInt(7),
				DiscountPercent: decimal.NewFromInt(10),
			},
		},
	}
}

func buildReference(t *testing.T) []byte {
	t.Helper()
	out, err := xrechnung.NewCIIBuilderService().Build(referenceContext())
	require.NoError(t, err)
	return out
}

func parse(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data), "die Ausgabe muss parsebares XML sein")
	return doc
}

func TestBuild_Determinismus(t *testing.T) {
	first := buildReference(t)
	second := buildReference(t)
	assert.Equal(t, first, second, "gleicher Input muss byte-identisches XML liefern")
}

func TestBuild_StrukturUndKopf(t *testing.T) {
	doc := parse(t, buildReference(t))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "CrossIndustryInvoice", root.Tag)

	guideline := doc.FindElement("//ram:GuidelineSpecifiedDocumentContextParameter/ram:ID")
	require.NotNil(t, guideline)
	assert.Equal(t, xrechnung.GuidelineID, guideline.Text())

	typeCode := doc.FindElement("//rsm:ExchangedDocument/ram:TypeCode")
	require.NotNil(t, typeCode)
	assert.Equal(t, "380", typeCode.Text())

	issue := doc.FindElement("//rsm:ExchangedDocument/ram:IssueDateTime/udt:DateTimeString")
	require.NotNil(t, issue)
	assert.Equal(t, "20250115", issue.Text(), "Ausstellungsdatum im Format JJJJMMTT")
	assert.Equal(t, "102", issue.SelectAttrValue("format", ""))
}

func TestBuild_EinePositionJeZeile(t *testing.T) {
	doc := parse(t, buildReference(t))

	lines := doc.FindElements("//ram:IncludedSupplyChainTradeLineItem")
	require.Len(t, lines, 2, "genau ein Zeilenelement je Rechnungsposition")

	// 1-basierte Positions-IDs in Eingabereihenfolge.
	ids := doc.FindElements("//ram:AssociatedDocumentLineDocument/ram:LineID")
	require.Len(t, ids, 2)
	assert.Equal(t, "1", ids[0].Text())
	assert.Equal(t, "2", ids[1].Text())

	// Mengeneinheit wird großgeschrieben übernommen.
	qty := doc.FindElements("//ram:BilledQuantity")
	require.Len(t, qty, 2)
	assert.Equal(t, "STUNDE", qty[0].SelectAttrValue("unitCode", ""))
	assert.Equal(t, "STÜCK", qty[1].SelectAttrValue("unitCode", ""))
}

func TestBuild_SteueraufschluesselungReferenzwerte(t *testing.T) {
	doc := parse(t, buildReference(t))

	taxes := doc.FindElements("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax")
	require.Len(t, taxes, 2, "zwei Steuersätze ergeben zwei ApplicableTradeTax-Einträge")

	// Bucket 1: 19 % auf 200,00 → 38,00 (Kategorie S)
	assert.Equal(t, "38.00", taxes[0].SelectElement("ram:CalculatedAmount").Text())
	assert.Equal(t, "200.00", taxes[0].SelectElement("ram:BasisAmount").Text())
	assert.Equal(t, "S", taxes[0].SelectElement("ram:CategoryCode").Text())
	assert.Equal(t, "19", taxes[0].SelectElement("ram:RateApplicablePercent").Text())

	// Bucket 2: 7 % auf 45,00 → 3,15
	assert.Equal(t, "3.15", taxes[1].SelectElement("ram:CalculatedAmount").Text())
	assert.Equal(t, "45.00", taxes[1].SelectElement("ram:BasisAmount").Text())
	assert.Equal(t, "7", taxes[1].SelectElement("ram:RateApplicablePercent").Text())

	sum := doc.FindElement("//ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	require.NotNil(t, sum)
	assert.Equal(t, "245.00", sum.SelectElement("ram:LineTotalAmount").Text())
	assert.Equal(t, "41.15", sum.SelectElement("ram:TaxTotalAmount").Text())
	assert.Equal(t, "286.15", sum.SelectElement("ram:GrandTotalAmount").Text())
	assert.Equal(t, "286.15", sum.SelectElement("ram:DuePayableAmount").Text())
}

func TestBuild_NullsatzWirdKategorieZ(t *testing.T) {
	ctx := referenceContext()
	ctx.Items = []*entity.InvoiceItem{{
		Position:    1,
		Description: "Steuerfreie Leistung",
		Quantity:    decimal.NewFromInt(1),
		Unit:        "Stück",
		UnitPrice:   decimal.NewFromInt(100),
		VatRate:     decimal.Zero,
	}}

	doc := parse(t, mustBuild(t, ctx))
	category := doc.FindElement("//ram:ApplicableHeaderTradeSettlement/ram:ApplicableTradeTax/ram:CategoryCode")
	require.NotNil(t, category)
	assert.Equal(t, "Z", category.Text())
}

// TestBuild_EscapingSonderzeichen: eine Beschreibung mit <, & und " muss
// escaped im Dokument landen und das Dokument muss parsebar bleiben.
func TestBuild_EscapingSonderzeichen(t *testing.T) {
	ctx := referenceContext()
	ctx.Items[0].Description = `Wartung & Pflege <Serverraum> "Etage 2"`

	out := mustBuild(t, ctx)
	raw := string(out)
	assert.Contains(t, raw, "Wartung &amp; Pflege &lt;Serverraum&gt;")
	assert.NotContains(t, raw, "<Serverraum>")

	doc := parse(t, out)
	name := doc.FindElement("//ram:SpecifiedTradeProduct/ram:Name")
	require.NotNil(t, name)
	assert.Equal(t, `Wartung & Pflege <Serverraum> "Etage 2"`, name.Text(),
		"nach dem Parsen muss der Originaltext wiederhergestellt sein")
}

func TestBuild_LeitwegNotiz(t *testing.T) {
	ctx := referenceContext()
	ctx.LeitwegID = "04011000-1234512345-06"

	doc := parse(t, mustBuild(t, ctx))
	note := doc.FindElement("//rsm:ExchangedDocument/ram:IncludedNote/ram:Content")
	require.NotNil(t, note)
	assert.Equal(t, "Leitweg-ID: 04011000-1234512345-06", note.Text())

	// Ohne Leitweg-ID keine Notiz.
	doc = parse(t, buildReference(t))
	assert.Nil(t, doc.FindElement("//rsm:ExchangedDocument/ram:IncludedNote"))
}

func TestBuild_VerkaeuferSteuerkennungen(t *testing.T) {
	doc := parse(t, buildReference(t))

	regs := doc.FindElements("//ram:SellerTradeParty/ram:SpecifiedTaxRegistration/ram:ID")
	require.Len(t, regs, 2)
	assert.Equal(t, "VA", regs[0].SelectAttrValue("schemeID", ""))
	assert.Equal(t, "DE123456789", regs[0].Text())
	assert.Equal(t, "FC", regs[1].SelectAttrValue("schemeID", ""))

	// Fehlende Kennungen werden weggelassen, kein Fehler.
	ctx := referenceContext()
	ctx.Seller.TaxNumber = ""
	ctx.Buyer.VatID = ""
	doc = parse(t, mustBuild(t, ctx))
	assert.Len(t, doc.FindElements("//ram:SellerTradeParty/ram:SpecifiedTaxRegistration"), 1)
	assert.Empty(t, doc.FindElements("//ram:BuyerTradeParty/ram:SpecifiedTaxRegistration"))
}

func TestBuild_FehlenderKontext(t *testing.T) {
	svc := xrechnung.NewCIIBuilderService()

	_, err := svc.Build(nil)
	assert.Error(t, err)

	ctx := referenceContext()
	ctx.Seller = nil
	_, err = svc.Build(ctx)
	assert.Error(t, err)
}

func TestBuild_XMLDeklaration(t *testing.T) {
	out := buildReference(t)
	assert.True(t, strings.HasPrefix(string(out), "<?xml version=\"1.0\" encoding=\"UTF-8\"?>"))
}

func mustBuild(t *testing.T, ctx *xrechnung.BuildContext) []byte {
	t.Helper()
	out, err := xrechnung.NewCIIBuilderService().Build(ctx)
	require.NoError(t, err)
	return out
}
