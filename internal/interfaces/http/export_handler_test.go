package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnungbest/rechnung-api/internal/application/export"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/datev"
	infraxr "github.com/rechnungbest/rechnung-api/internal/infrastructure/xrechnung"
	apphttp "github.com/rechnungbest/rechnung-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes (nur Lesepfade; die Exporte schreiben nie)
// ──────────────────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	byID  map[string]*entity.Invoice
	items []*entity.InvoiceItem
}

func (s *stubInvoiceRepo) Create(context.Context, *entity.Invoice) error         { return nil }
func (s *stubInvoiceRepo) CreateItem(context.Context, *entity.InvoiceItem) error { return nil }
func (s *stubInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return s.byID[id], nil
}
func (s *stubInvoiceRepo) GetItemsByInvoiceID(context.Context, string) ([]*entity.InvoiceItem, error) {
	return s.items, nil
}
func (s *stubInvoiceRepo) ListByTenant(context.Context, string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}

type stubCompanyRepo struct{ company *entity.Company }

func (s *stubCompanyRepo) Create(context.Context, *entity.Company) error { return nil }
func (s *stubCompanyRepo) GetByID(context.Context, string) (*entity.Company, error) {
	return s.company, nil
}

type stubCustomerRepo struct{ customer *entity.Customer }

func (s *stubCustomerRepo) Create(context.Context, *entity.Customer) error { return nil }
func (s *stubCustomerRepo) GetByID(context.Context, string) (*entity.Customer, error) {
	return s.customer, nil
}
func (s *stubCustomerRepo) ListByTenant(context.Context, string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}

type stubCashbookRepo struct{ entries []*entity.CashbookEntry }

func (s *stubCashbookRepo) Create(context.Context, *entity.CashbookEntry) error { return nil }
func (s *stubCashbookRepo) GetByID(context.Context, string) (*entity.CashbookEntry, error) {
	return nil, nil
}
func (s *stubCashbookRepo) ListByTenant(context.Context, string, int, int) ([]*entity.CashbookEntry, error) {
	return nil, nil
}
func (s *stubCashbookRepo) ListRange(context.Context, string, time.Time, time.Time) ([]*entity.CashbookEntry, error) {
	return s.entries, nil
}
func (s *stubCashbookRepo) Cancel(context.Context, string) error { return nil }

type stubPDFGenerator struct{}

func (stubPDFGenerator) RenderInvoicePDF(context.Context, *entity.Invoice, *entity.Company, *entity.Customer, []*entity.InvoiceItem) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, pdf, _ []byte) ([]byte, error) { return pdf, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Aufbau
// ──────────────────────────────────────────────────────────────────────────────

func buildExportApp() *fiber.App {
	invRepo := &stubInvoiceRepo{
		byID: map[string]*entity.Invoice{
			"inv-own": {ID: "inv-own", TenantID: testTenantID, Number: "RE-2025-0042",
				IssueDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), Currency: "EUR"},
			"inv-foreign": {ID: "inv-foreign", TenantID: "anderer-mandant", Number: "RE-2025-0001",
				IssueDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), Currency: "EUR"},
		},
		items: []*entity.InvoiceItem{{
			Position: 1, Description: "Beratung", Quantity: decimal.NewFromInt(2),
			Unit: "Stunde", UnitPrice: decimal.NewFromInt(100), VatRate: decimal.NewFromInt(19),
		}},
	}
	compRepo := &stubCompanyRepo{company: &entity.Company{
		ID: testTenantID, Name: "Musterbau GmbH", Street: "Bauhofstraße 12",
		Zip: "80331", City: "München", CountryCode: "DE",
	}}
	custRepo := &stubCustomerRepo{customer: &entity.Customer{
		ID: "cust-1", TenantID: testTenantID, Name: "Beispiel AG",
		Street: "Industrieweg 9", Zip: "70565", City: "Stuttgart", CountryCode: "DE",
	}}
	cashRepo := &stubCashbookRepo{entries: []*entity.CashbookEntry{{
		TenantID: testTenantID, EntryDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Kind: entity.CashbookKindIncome, CategoryAccount: "8400",
		Amount: decimal.RequireFromString("119.00"), VatRate: decimal.NewFromInt(19),
		Description: "Barverkauf", DocumentNumber: "KB-1",
	}}}

	builder := infraxr.NewCIIBuilderService()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		PDFUC:       export.NewPDFUseCase(invRepo, compRepo, custRepo, stubPDFGenerator{}),
		XRechnungUC: export.NewXRechnungUseCase(invRepo, compRepo, custRepo, builder, ""),
		ZUGFeRDUC:   export.NewZUGFeRDUseCase(invRepo, compRepo, custRepo, stubPDFGenerator{}, builder, stubEmbedder{}),
		DATEVUC: export.NewDATEVUseCase(cashRepo, datev.NewExtfWriter(), export.DATEVConfig{
			ConsultantNumber: "12345", ClientNumber: "67890", FiscalYearStartMonth: 1,
		}),
		JWTSecret: testJWTSecret,
	})
	return app
}

func getWithToken(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", validToken(t))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestExportPDF_Download(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/invoices/inv-own/pdf")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-RE-2025-0042.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestExportPDF_OhneToken401(t *testing.T) {
	app := buildExportApp()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/inv-own/pdf", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExportPDF_FremdeRechnungWie404(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/invoices/inv-foreign/pdf")
	defer resp.Body.Close()

	// Fremde Rechnungen sehen für den Aufrufer wie nicht existente aus.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportPDF_Unbekannt404(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/invoices/inv-nope/pdf")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportXRechnung_Download(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/invoices/inv-own/xrechnung?leitweg=04011000-1234-56")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="xrechnung-RE-2025-0042.xml"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "CrossIndustryInvoice")
	assert.Contains(t, string(body), "Leitweg-ID: 04011000-1234-56")
}

func TestExportZUGFeRD_Download(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/invoices/inv-own/zugferd")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="zugferd-RE-2025-0042.pdf"`, resp.Header.Get("Content-Disposition"))
}

func TestExportDATEV_Download(t *testing.T) {
	app := buildExportApp()
	resp := getWithToken(t, app, "/api/exports/datev?start=2025-01-01&end=2025-03-31&skr=SKR03&vat=true")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="DATEV_Export_2025-01-01_2025-03-31_SKR03.csv"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "\xEF\xBB\xBF"), "Antwort muss mit UTF-8-BOM beginnen")
	assert.Contains(t, string(body), `"EXTF";"700";"21";"Buchungsstapel"`)
}

func TestExportDATEV_ParameterFehler400(t *testing.T) {
	app := buildExportApp()

	for _, path := range []string{
		"/api/exports/datev",                                        // ohne Zeitraum
		"/api/exports/datev?start=01.01.2025&end=2025-03-31",        // falsches Datumsformat
		"/api/exports/datev?start=2025-01-01&end=2025-03-31&skr=X9", // unbekannter Kontenrahmen
	} {
		resp := getWithToken(t, app, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		resp.Body.Close()
	}
}
