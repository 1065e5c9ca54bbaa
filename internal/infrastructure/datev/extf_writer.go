// Package datev rendert Kassenbucheinträge als DATEV-Buchungsstapel im
// EXTF-Format (Formatversion 700, Kategorie 21 "Buchungsstapel").
//
// Dateiaufbau:
//
//	Zeile 1: Formatkennung          "EXTF";"700";"21";"Buchungsstapel"
//	Zeile 2: Metadaten-Spaltennamen  Beraternummer ... Währung
//	Zeile 3: Metadaten-Werte
//	Zeile 4: (leer)
//	Zeile 5: 50 Spaltennamen des Buchungssatzes
//	ab 6:    ein Buchungssatz je Eintrag
//
// Jedes Feld steht in doppelten Anführungszeichen, Trennzeichen ist das
// Semikolon, Zeilenende CRLF. Beträge mit Dezimalkomma, Datumsangaben als
// TTMMJJJJ ohne Trenner. Das DATEV-Importwerkzeug verlangt eine UTF-8-BOM
// am Dateianfang.
package datev

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// ── Kontenrahmen ──────────────────────────────────────────────────────────────

// Scheme benennt den Kontenrahmen des Exports.
type Scheme string

const (
	SchemeSKR03 Scheme = "SKR03"
	SchemeSKR04 Scheme = "SKR04"
)

// CashAccount liefert das Kassenkonto des Kontenrahmens.
func (s Scheme) CashAccount() string {
	if s == SchemeSKR04 {
		return "1600"
	}
	return "1000" // SKR03
}

// Valid meldet, ob der Kontenrahmen einer der beiden unterstützten ist.
func (s Scheme) Valid() bool {
	return s == SchemeSKR03 || s == SchemeSKR04
}

// DefaultCounterAccount greift, wenn die Kategorie eines Eintrags kein
// Sachkonto hinterlegt hat.
const DefaultCounterAccount = "9999"

// maxBuchungstext ist die von DATEV erlaubte Länge des Buchungstexts.
const maxBuchungstext = 60

// ── Parameter ─────────────────────────────────────────────────────────────────

// Params steuert einen Export. Start und End begrenzen den Stapel
// (einschließlich), FiscalYearStartMonth bestimmt den WJ-Beginn.
type Params struct {
	ConsultantNumber     string // Beraternummer
	ClientNumber         string // Mandantennummer
	FiscalYearStartMonth int    // 1..12
	Start                time.Time
	End                  time.Time
	Scheme               Scheme
	IncludeVAT           bool
	Currency             string // leer = "EUR"
}

// ── Buchungssatz ──────────────────────────────────────────────────────────────

// booking ist die gebuchte Form eines Kassenbucheintrags: Soll- und
// Habenkonto sind bereits nach Art des Eintrags aufgelöst.
// Einnahme: Soll = Kasse, Haben = Gegenkonto (Kasse nimmt zu).
// Ausgabe:  Soll = Gegenkonto, Haben = Kasse (Kasse nimmt ab).
type booking struct {
	Amount         decimal.Decimal
	DebitAccount   string
	CreditAccount  string
	VATKey         string
	Date           time.Time
	DocumentNumber string
	Text           string
}

func toBooking(e *entity.CashbookEntry, scheme Scheme, includeVAT bool) booking {
	cash := scheme.CashAccount()
	counter := e.CategoryAccount
	if counter == "" {
		counter = DefaultCounterAccount
	}

	b := booking{
		Amount:         e.Amount.Abs(),
		Date:           e.EntryDate,
		DocumentNumber: e.DocumentNumber,
		Text:           truncateRunes(stripControl(e.Description), maxBuchungstext),
	}
	if e.Kind == entity.CashbookKindIncome {
		b.DebitAccount = cash
		b.CreditAccount = counter
	} else {
		b.DebitAccount = counter
		b.CreditAccount = cash
	}
	if includeVAT {
		b.VATKey = vatKey(e.Kind, e.VatRate)
	}
	return b
}

// vatKey liefert den BU-Schlüssel für Regelsteuersätze. Andere Sätze
// (einschließlich 0) bleiben ohne Schlüssel.
func vatKey(kind string, rate decimal.Decimal) string {
	income := kind == entity.CashbookKindIncome
	switch {
	case rate.Equal(decimal.NewFromInt(19)):
		if income {
			return "3"
		}
		return "9"
	case rate.Equal(decimal.NewFromInt(7)):
		if income {
			return "2"
		}
		return "8"
	default:
		return ""
	}
}

// ── Writer ────────────────────────────────────────────────────────────────────

// columnNames sind die 50 Spalten eines EXTF-Buchungsstapels in
// DATEV-Reihenfolge.
var columnNames = []string{
	"Umsatz (ohne Soll/Haben-Kz)",
	"Soll/Haben-Kennzeichen",
	"WKZ Umsatz",
	"Kurs",
	"Basis-Umsatz",
	"WKZ Basis-Umsatz",
	"Konto",
	"Gegenkonto (ohne BU-Schlüssel)",
	"BU-Schlüssel",
	"Belegdatum",
	"Belegfeld 1",
	"Belegfeld 2",
	"Skonto",
	"Buchungstext",
	"Postensperre",
	"Diverse Adressnummer",
	"Geschäftspartnerbank",
	"Sachverhalt",
	"Zinssperre",
	"Beleglink",
	"Beleginfo - Art 1",
	"Beleginfo - Inhalt 1",
	"Beleginfo - Art 2",
	"Beleginfo - Inhalt 2",
	"Beleginfo - Art 3",
	"Beleginfo - Inhalt 3",
	"Beleginfo - Art 4",
	"Beleginfo - Inhalt 4",
	"Beleginfo - Art 5",
	"Beleginfo - Inhalt 5",
	"Beleginfo - Art 6",
	"Beleginfo - Inhalt 6",
	"Beleginfo - Art 7",
	"Beleginfo - Inhalt 7",
	"Beleginfo - Art 8",
	"Beleginfo - Inhalt 8",
	"KOST1 - Kostenstelle",
	"KOST2 - Kostenstelle",
	"Kost-Menge",
	"EU-Land u. UStID",
	"EU-Steuersatz",
	"Abw. Versteuerungsart",
	"Sachverhalt L+L",
	"Funktionsergänzung L+L",
	"BU 49 Hauptfunktionstyp",
	"BU 49 Hauptfunktionsnummer",
	"BU 49 Funktionsergänzung",
	"Zusatzinformation - Art 1",
	"Zusatzinformation - Inhalt 1",
	"Stück",
}

// metadataNames sind die Spaltennamen der Metadatenzeile.
var metadataNames = []string{
	"Beraternummer",
	"Mandantennummer",
	"WJ-Beginn",
	"Datum von",
	"Datum bis",
	"Bezeichnung",
	"Währung",
}

// utf8BOM steht am Dateianfang; das DATEV-Importwerkzeug verlangt sie.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExtfWriter rendert den fertigen Stapel. Der Writer hält keinen Zustand;
// Write ist eine reine Funktion über Einträgen und Parametern.
type ExtfWriter struct{}

// NewExtfWriter erzeugt den Writer.
func NewExtfWriter() *ExtfWriter { return &ExtfWriter{} }

// Write erzeugt die vollständige Exportdatei einschließlich BOM.
// Die Einträge müssen bereits gefiltert (nicht storniert) und sortiert sein.
func (w *ExtfWriter) Write(entries []*entity.CashbookEntry, p Params) ([]byte, error) {
	if !p.Scheme.Valid() {
		return nil, fmt.Errorf("datev: unbekannter kontenrahmen %q", p.Scheme)
	}
	if p.End.Before(p.Start) {
		return nil, fmt.Errorf("datev: zeitraum endet vor seinem beginn")
	}
	if p.FiscalYearStartMonth < 1 || p.FiscalYearStartMonth > 12 {
		return nil, fmt.Errorf("datev: wj-beginn-monat %d außerhalb 1..12", p.FiscalYearStartMonth)
	}

	currency := p.Currency
	if currency == "" {
		currency = "EUR"
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writeLine(&buf, "EXTF", "700", "21", "Buchungsstapel")
	writeLine(&buf, metadataNames...)
	writeLine(&buf,
		p.ConsultantNumber,
		p.ClientNumber,
		formatDate(fiscalYearStart(p.Start, p.FiscalYearStartMonth)),
		formatDate(p.Start),
		formatDate(p.End),
		fmt.Sprintf("Buchungsstapel %s-%s", formatDate(p.Start), formatDate(p.End)),
		currency,
	)
	buf.WriteString("\r\n")
	writeLine(&buf, columnNames...)

	for _, e := range entries {
		b := toBooking(e, p.Scheme, p.IncludeVAT)
		writeLine(&buf, bookingFields(b, currency)...)
	}

	return buf.Bytes(), nil
}

// bookingFields füllt die 50 Spalten. Nicht belegte Spalten bleiben leer,
// werden aber mitgeschrieben, damit jede Zeile dieselbe Breite hat.
func bookingFields(b booking, currency string) []string {
	fields := make([]string, len(columnNames))
	fields[0] = formatAmount(b.Amount)
	fields[1] = "S" // Konto-Spalte trägt immer das Sollkonto
	fields[2] = currency
	fields[6] = b.DebitAccount
	fields[7] = b.CreditAccount
	fields[8] = b.VATKey
	fields[9] = formatDate(b.Date)
	fields[10] = b.DocumentNumber
	fields[13] = b.Text
	return fields
}

// ── Formatierung ──────────────────────────────────────────────────────────────

// writeLine schreibt eine Zeile: jedes Feld in doppelten Anführungszeichen,
// Semikolon als Trenner, CRLF als Abschluss. encoding/csv kommt hier nicht
// infrage, weil es leere Felder nie quotet, DATEV das aber verlangt.
func writeLine(buf *bytes.Buffer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteString("\r\n")
}

// formatAmount rendert den Betrag mit Dezimalkomma und zwei Nachkommastellen.
func formatAmount(d decimal.Decimal) string {
	return strings.Replace(d.Round(2).StringFixed(2), ".", ",", 1)
}

// formatDate rendert TTMMJJJJ ohne Trenner.
func formatDate(t time.Time) string {
	return t.Format("02012006")
}

// fiscalYearStart liefert den Beginn des Wirtschaftsjahres, in das der
// Stapelbeginn fällt.
func fiscalYearStart(start time.Time, month int) time.Time {
	year := start.Year()
	if int(start.Month()) < month {
		year--
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// truncateRunes kürzt auf n Zeichen (nicht Bytes, Umlaute zählen einfach).
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// stripControl ersetzt Zeilenumbrüche durch Leerzeichen und entfernt übrige
// Steuerzeichen. Der Import liest zeilenweise, ein CR/LF im Buchungstext
// würde den Satz zerreißen.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < ' ':
			return -1
		default:
			return r
		}
	}, s)
}
