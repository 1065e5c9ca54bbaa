// Package xrechnung erzeugt die E-Rechnung nach dem deutschen
// XRechnung-Standard (EN 16931, Syntax UN/CEFACT Cross Industry Invoice).
//
// Aufbau des Dokuments (feste Reihenfolge, CII D16B):
//
//	<rsm:CrossIndustryInvoice>
//	  <rsm:ExchangedDocumentContext>     Spezifikations-Kennung (Leitfaden)
//	  <rsm:ExchangedDocument>            Rechnungsnummer, Typ 380, Datum, Leitweg-Notiz
//	  <rsm:SupplyChainTradeTransaction>
//	    <ram:IncludedSupplyChainTradeLineItem>  je Position
//	    <ram:ApplicableHeaderTradeAgreement>    Verkäufer + Käufer
//	    <ram:ApplicableHeaderTradeDelivery>     Lieferdatum
//	    <ram:ApplicableHeaderTradeSettlement>   EUR, Steueraufschlüsselung, Summen
//
// Die Ausgabe ist für identische Eingaben byte-identisch: keine Zeitstempel
// außerhalb der Daten, Steuer-Buckets in Reihenfolge ihres ersten Auftretens.
package xrechnung

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/vat"
)

// Offizielle CII-Namespaces (UN/CEFACT D16B) und die XRechnung-3.0-Kennung.
const (
	NsRsm = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NsRam = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NsUdt = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"

	// GuidelineID identifiziert das XRechnung-3.0-Profil (KoSIT).
	GuidelineID = "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0"

	// TypeCodeCommercialInvoice ist der UNTDID-1001-Code für Handelsrechnungen.
	TypeCodeCommercialInvoice = "380"

	// Datumscode 102 = Format JJJJMMTT.
	dateFormat102 = "102"
)

// Steuerkategorien nach UNTDID 5305. Bewusst vereinfachtes Mapping:
// Satz 0 → "Z" (zero rated), alles andere → "S" (standard rate).
// Reverse-Charge, steuerfreie und innergemeinschaftliche Fälle sind
// ausdrücklich nicht abgebildet.
const (
	TaxCategoryStandard  = "S"
	TaxCategoryZeroRated = "Z"
)

// BuildContext trägt alle Eingaben des Generators. Der Kontext wird nicht
// verändert; die Summen werden immer aus den Positionen neu berechnet.
type BuildContext struct {
	Invoice   *entity.Invoice
	Seller    *entity.Company
	Buyer     *entity.Customer
	Items     []*entity.InvoiceItem
	LeitwegID string // optional; leer = keine Leitweg-Notiz
}

// CIIBuilderService baut das XRechnung-XML (unsigniert; XRechnung kennt
// keine Signaturpflicht).
type CIIBuilderService struct{}

// NewCIIBuilderService erzeugt den Service.
func NewCIIBuilderService() *CIIBuilderService {
	return &CIIBuilderService{}
}

// Build erzeugt das vollständige CrossIndustryInvoice-Dokument als []byte.
// Nach dem Serialisieren wird das Ergebnis einmal zurückgeparst; ein nicht
// wohlgeformtes Dokument verlässt diese Funktion nie.
func (s *CIIBuilderService) Build(ctx *BuildContext) ([]byte, error) {
	if ctx == nil || ctx.Invoice == nil || ctx.Seller == nil || ctx.Buyer == nil {
		return nil, fmt.Errorf("xrechnung: invoice, seller oder buyer fehlt im kontext")
	}

	buckets := vat.FromItems(ctx.Items)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossIndustryInvoice")
	root.CreateAttr("xmlns:rsm", NsRsm)
	root.CreateAttr("xmlns:ram", NsRam)
	root.CreateAttr("xmlns:udt", NsUdt)

	s.writeDocumentContext(root)
	s.writeExchangedDocument(root, ctx)

	tx := root.CreateElement("rsm:SupplyChainTradeTransaction")
	for i, item := range ctx.Items {
		s.writeLineItem(tx, i+1, item)
	}
	s.writeTradeAgreement(tx, ctx)
	s.writeTradeDelivery(tx, ctx)
	s.writeTradeSettlement(tx, ctx, buckets)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xrechnung: serialisieren: %w", err)
	}
	if err := checkWellFormed(out); err != nil {
		return nil, fmt.Errorf("xrechnung: erzeugtes dokument nicht wohlgeformt: %w", err)
	}
	return out, nil
}

// writeDocumentContext schreibt die Leitfaden-Kennung (BT-24).
func (s *CIIBuilderService) writeDocumentContext(root *etree.Element) {
	dctx := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := dctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	guideline.CreateElement("ram:ID").SetText(GuidelineID)
}

// writeExchangedDocument schreibt Rechnungsnummer, Typcode, Ausstellungsdatum
// und — falls vorhanden — die Leitweg-ID als Notiz.
func (s *CIIBuilderService) writeExchangedDocument(root *etree.Element, ctx *BuildContext) {
	ed := root.CreateElement("rsm:ExchangedDocument")
	ed.CreateElement("ram:ID").SetText(ctx.Invoice.Number)
	ed.CreateElement("ram:TypeCode").SetText(TypeCodeCommercialInvoice)

	issue := ed.CreateElement("ram:IssueDateTime")
	writeDate102(issue, ctx.Invoice.IssueDate.Format("20060102"))

	if ctx.LeitwegID != "" {
		note := ed.CreateElement("ram:IncludedNote")
		note.CreateElement("ram:Content").SetText("Leitweg-ID: " + ctx.LeitwegID)
	}
}

// writeLineItem schreibt eine Rechnungsposition (BG-25).
func (s *CIIBuilderService) writeLineItem(tx *etree.Element, lineNum int, item *entity.InvoiceItem) {
	line := tx.CreateElement("ram:IncludedSupplyChainTradeLineItem")

	lineDoc := line.CreateElement("ram:AssociatedDocumentLineDocument")
	lineDoc.CreateElement("ram:LineID").SetText(strconv.Itoa(lineNum))

	product := line.CreateElement("ram:SpecifiedTradeProduct")
	product.CreateElement("ram:Name").SetText(item.Description)

	agreement := line.CreateElement("ram:SpecifiedLineTradeAgreement")
	price := agreement.CreateElement("ram:NetPriceProductTradePrice")
	price.CreateElement("ram:ChargeAmount").SetText(formatAmount(item.UnitPrice))

	delivery := line.CreateElement("ram:SpecifiedLineTradeDelivery")
	qty := delivery.CreateElement("ram:BilledQuantity")
	qty.CreateAttr("unitCode", strings.ToUpper(item.Unit))
	qty.SetText(formatQuantity(item.Quantity))

	settlement := line.CreateElement("ram:SpecifiedLineTradeSettlement")
	tax := settlement.CreateElement("ram:ApplicableTradeTax")
	tax.CreateElement("ram:TypeCode").SetText("VAT")
	tax.CreateElement("ram:CategoryCode").SetText(CategoryForRate(item.VatRate))
	tax.CreateElement("ram:RateApplicablePercent").SetText(formatRate(item.VatRate))

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementLineMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(formatAmount(item.Net()))
}

// writeTradeAgreement schreibt Verkäufer- und Käuferpartei.
func (s *CIIBuilderService) writeTradeAgreement(tx *etree.Element, ctx *BuildContext) {
	agreement := tx.CreateElement("ram:ApplicableHeaderTradeAgreement")

	seller := agreement.CreateElement("ram:SellerTradeParty")
	seller.CreateElement("ram:Name").SetText(ctx.Seller.Name)
	writePostalAddress(seller, ctx.Seller.Zip, ctx.Seller.Street, ctx.Seller.City, ctx.Seller.CountryCode)
	// USt-IdNr. (Schema VA) und/oder Steuernummer (Schema FC), sofern vorhanden.
	if ctx.Seller.VatID != "" {
		writeTaxRegistration(seller, "VA", ctx.Seller.VatID)
	}
	if ctx.Seller.TaxNumber != "" {
		writeTaxRegistration(seller, "FC", ctx.Seller.TaxNumber)
	}

	buyer := agreement.CreateElement("ram:BuyerTradeParty")
	buyer.CreateElement("ram:Name").SetText(ctx.Buyer.Name)
	writePostalAddress(buyer, ctx.Buyer.Zip, ctx.Buyer.Street, ctx.Buyer.City, ctx.Buyer.CountryCode)
	if ctx.Buyer.VatID != "" {
		writeTaxRegistration(buyer, "VA", ctx.Buyer.VatID)
	}
}

// writeTradeDelivery schreibt das Lieferdatum; ohne abweichendes Datum gilt
// das Ausstellungsdatum der Rechnung.
func (s *CIIBuilderService) writeTradeDelivery(tx *etree.Element, ctx *BuildContext) {
	delivery := tx.CreateElement("ram:ApplicableHeaderTradeDelivery")
	event := delivery.CreateElement("ram:ActualDeliverySupplyChainEvent")
	occurrence := event.CreateElement("ram:OccurrenceDateTime")
	writeDate102(occurrence, ctx.Invoice.IssueDate.Format("20060102"))
}

// writeTradeSettlement schreibt Währung, Steueraufschlüsselung je Bucket
// (in Reihenfolge des ersten Auftretens), Zahlungsbedingungen und Summenblock.
func (s *CIIBuilderService) writeTradeSettlement(tx *etree.Element, ctx *BuildContext, buckets *vat.Buckets) {
	settlement := tx.CreateElement("ram:ApplicableHeaderTradeSettlement")
	settlement.CreateElement("ram:InvoiceCurrencyCode").SetText("EUR")

	for _, bucket := range buckets.Slice() {
		tax := settlement.CreateElement("ram:ApplicableTradeTax")
		tax.CreateElement("ram:CalculatedAmount").SetText(formatAmount(bucket.Vat))
		tax.CreateElement("ram:TypeCode").SetText("VAT")
		tax.CreateElement("ram:BasisAmount").SetText(formatAmount(bucket.Net))
		tax.CreateElement("ram:CategoryCode").SetText(CategoryForRate(bucket.Rate))
		tax.CreateElement("ram:RateApplicablePercent").SetText(formatRate(bucket.Rate))
	}

	if ctx.Invoice.PaymentTerms != "" || ctx.Invoice.DueDate != nil {
		terms := settlement.CreateElement("ram:SpecifiedTradePaymentTerms")
		if ctx.Invoice.PaymentTerms != "" {
			terms.CreateElement("ram:Description").SetText(ctx.Invoice.PaymentTerms)
		}
		if ctx.Invoice.DueDate != nil {
			due := terms.CreateElement("ram:DueDateDateTime")
			writeDate102(due, ctx.Invoice.DueDate.Format("20060102"))
		}
	}

	net := buckets.NetTotal()
	vatTotal := buckets.VatTotal()
	gross := buckets.GrossTotal()

	sum := settlement.CreateElement("ram:SpecifiedTradeSettlementHeaderMonetarySummation")
	sum.CreateElement("ram:LineTotalAmount").SetText(formatAmount(net))
	sum.CreateElement("ram:TaxBasisTotalAmount").SetText(formatAmount(net))
	taxTotal := sum.CreateElement("ram:TaxTotalAmount")
	taxTotal.CreateAttr("currencyID", "EUR")
	taxTotal.SetText(formatAmount(vatTotal))
	sum.CreateElement("ram:GrandTotalAmount").SetText(formatAmount(gross))
	sum.CreateElement("ram:DuePayableAmount").SetText(formatAmount(gross))
}

// CategoryForRate bildet einen Steuersatz auf die UNTDID-5305-Kategorie ab:
// 0 → "Z", alles andere → "S".
func CategoryForRate(rate decimal.Decimal) string {
	if rate.IsZero() {
		return TaxCategoryZeroRated
	}
	return TaxCategoryStandard
}

// checkWellFormed parst die erzeugten Bytes einmal über den Kanonisierer
// zurück. Schlägt das fehl, wird der Fehler als Render-Fehler gemeldet statt
// ein kaputtes Dokument auszuliefern.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	_, err := c14n.Canonicalize(dec)
	return err
}

func writeDate102(parent *etree.Element, yyyymmdd string) {
	el := parent.CreateElement("udt:DateTimeString")
	el.CreateAttr("format", dateFormat102)
	el.SetText(yyyymmdd)
}

func writePostalAddress(party *etree.Element, zip, street, city, country string) {
	addr := party.CreateElement("ram:PostalTradeAddress")
	addr.CreateElement("ram:PostcodeCode").SetText(zip)
	addr.CreateElement("ram:LineOne").SetText(street)
	addr.CreateElement("ram:CityName").SetText(city)
	addr.CreateElement("ram:CountryID").SetText(country)
}

func writeTaxRegistration(party *etree.Element, schemeID, value string) {
	reg := party.CreateElement("ram:SpecifiedTaxRegistration")
	id := reg.CreateElement("ram:ID")
	id.CreateAttr("schemeID", schemeID)
	id.SetText(value)
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// formatQuantity gibt Mengen ohne erzwungene Nachkommastellen aus.
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}

// formatRate gibt Steuersätze unverändert aus (kein Normieren, vgl. Buckets).
func formatRate(d decimal.Decimal) string {
	return d.String()
}
