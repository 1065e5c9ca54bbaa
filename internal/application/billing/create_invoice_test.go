package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

// recordingInvoiceRepo zeichnet auf, was der Anwendungsfall schreibt.
type recordingInvoiceRepo struct {
	created      *entity.Invoice
	createdItems []*entity.InvoiceItem
	createErr    error
	itemErr      error
}

func (r *recordingInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = inv
	return nil
}

func (r *recordingInvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	if r.itemErr != nil {
		return r.itemErr
	}
	r.createdItems = append(r.createdItems, item)
	return nil
}

func (r *recordingInvoiceRepo) GetByID(context.Context, string) (*entity.Invoice, error) {
	return r.created, nil
}

func (r *recordingInvoiceRepo) GetItemsByInvoiceID(context.Context, string) ([]*entity.InvoiceItem, error) {
	return r.createdItems, nil
}

func (r *recordingInvoiceRepo) ListByTenant(context.Context, string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}

// passthroughTxRunner reicht den Repo-Fake direkt durch; bei einem Fehler
// aus fn verwirft er die Aufzeichnung, wie es ein Rollback täte.
type passthroughTxRunner struct {
	repo *recordingInvoiceRepo
}

func (r *passthroughTxRunner) RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	if err := fn(r.repo); err != nil {
		r.repo.created = nil
		r.repo.createdItems = nil
		return err
	}
	return nil
}

type staticCustomerRepo struct{ customer *entity.Customer }

func (f *staticCustomerRepo) Create(context.Context, *entity.Customer) error { return nil }
func (f *staticCustomerRepo) GetByID(context.Context, string) (*entity.Customer, error) {
	return f.customer, nil
}
func (f *staticCustomerRepo) ListByTenant(context.Context, string, int, int) ([]*entity.Customer, error) {
	return nil, nil
}

// ── Fixtures ──────────────────────────────────────────────────────────────────

func ownCustomer() *entity.Customer {
	return &entity.Customer{ID: "cust-1", TenantID: "tenant-1", Name: "Muster GmbH"}
}

// validRequest ist die Referenzrechnung aus der Fachabnahme:
//
//	2 × 100,00 zu 19 %          → 200,00 / 38,00
//	1 ×  50,00 zu  7 %, −10 %   →  45,00 /  3,15
//	Netto 245,00 / USt 41,15 / Brutto 286,15
func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: "cust-1",
		Number:     "RE-2025-0042",
		IssueDate:  "2025-01-15",
		DueDate:    "2025-01-29",
		Items: []dto.InvoiceItemRequest{
			{Description: "Beratung", Quantity: decimal.NewFromInt(2), Unit: "Stunde", UnitPrice: decimal.NewFromInt(100), VatRate: decimal.NewFromInt(19)},
			{Description: "Material", Quantity: decimal.NewFromInt(1), Unit: "Stück", UnitPrice: decimal.NewFromInt(50), VatRate: decimal.NewFromInt(7), DiscountPercent: decimal.NewFromInt(10)},
		},
	}
}

func newCreateUseCase(repo *recordingInvoiceRepo, customer *entity.Customer) *CreateInvoiceUseCase {
	return NewCreateInvoiceUseCase(
		&passthroughTxRunner{repo: repo},
		&staticCustomerRepo{customer: customer},
		repo,
	)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateInvoice_TotalsFromItems(t *testing.T) {
	repo := &recordingInvoiceRepo{}
	uc := newCreateUseCase(repo, ownCustomer())

	resp, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "245.00", resp.NetTotal.StringFixed(2))
	assert.Equal(t, "41.15", resp.VatTotal.StringFixed(2))
	assert.Equal(t, "286.15", resp.GrossTotal.StringFixed(2))

	// Kopf und Positionssumme stimmen konstruktionsbedingt überein.
	require.NotNil(t, repo.created)
	sum := decimal.Zero
	for _, item := range repo.createdItems {
		sum = sum.Add(item.Net())
	}
	assert.True(t, repo.created.NetTotal.Sub(sum.Round(2)).Abs().LessThanOrEqual(decimal.RequireFromString("0.01")),
		"Kopfsumme weicht von der Positionssumme ab")
}

func TestCreateInvoice_ItemsGetSequentialPositions(t *testing.T) {
	repo := &recordingInvoiceRepo{}
	uc := newCreateUseCase(repo, ownCustomer())

	_, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
	require.NoError(t, err)

	require.Len(t, repo.createdItems, 2)
	for i, item := range repo.createdItems {
		assert.Equal(t, i+1, item.Position)
		assert.Equal(t, repo.created.ID, item.InvoiceID)
		assert.NotEmpty(t, item.ID)
	}
}

func TestCreateInvoice_HeaderFields(t *testing.T) {
	repo := &recordingInvoiceRepo{}
	uc := newCreateUseCase(repo, ownCustomer())

	resp, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, "RE-2025-0042", resp.Number)
	assert.Equal(t, entity.InvoiceStatusOpen, resp.Status)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, "2025-01-15", resp.IssueDate)
	assert.Equal(t, "2025-01-29", resp.DueDate)
}

func TestCreateInvoice_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
	}{
		{"ohne Positionen", func(r *dto.CreateInvoiceRequest) { r.Items = nil }},
		{"ohne Nummer", func(r *dto.CreateInvoiceRequest) { r.Number = "" }},
		{"ungültiges Datum", func(r *dto.CreateInvoiceRequest) { r.IssueDate = "15.01.2025" }},
		{"Zahlungsziel vor Rechnungsdatum", func(r *dto.CreateInvoiceRequest) { r.DueDate = "2025-01-01" }},
		{"Menge null", func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero }},
		{"negativer Preis", func(r *dto.CreateInvoiceRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-1) }},
		{"negativer Steuersatz", func(r *dto.CreateInvoiceRequest) { r.Items[0].VatRate = decimal.NewFromInt(-19) }},
		{"Rabatt über 100", func(r *dto.CreateInvoiceRequest) { r.Items[0].DiscountPercent = decimal.NewFromInt(101) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &recordingInvoiceRepo{}
			uc := newCreateUseCase(repo, ownCustomer())

			req := validRequest()
			tc.mutate(&req)
			_, err := uc.CreateInvoice(context.Background(), "tenant-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, repo.created, "bei Validierungsfehlern darf nichts geschrieben werden")
		})
	}
}

func TestCreateInvoice_CustomerChecks(t *testing.T) {
	t.Run("unbekannter Kunde", func(t *testing.T) {
		repo := &recordingInvoiceRepo{}
		uc := newCreateUseCase(repo, nil)

		_, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Kunde eines anderen Mandanten", func(t *testing.T) {
		foreign := ownCustomer()
		foreign.TenantID = "tenant-2"
		repo := &recordingInvoiceRepo{}
		uc := newCreateUseCase(repo, foreign)

		_, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Nil(t, repo.created)
	})
}

func TestCreateInvoice_WriteErrorRollsBack(t *testing.T) {
	repo := &recordingInvoiceRepo{itemErr: errors.New("constraint verletzt")}
	uc := newCreateUseCase(repo, ownCustomer())

	_, err := uc.CreateInvoice(context.Background(), "tenant-1", validRequest())
	require.Error(t, err)
	assert.Nil(t, repo.created, "nach Rollback darf kein Kopf übrig bleiben")
	assert.Empty(t, repo.createdItems)
}

func TestGetInvoice_ForeignTenant(t *testing.T) {
	repo := &recordingInvoiceRepo{created: &entity.Invoice{
		ID:        "inv-1",
		TenantID:  "tenant-2",
		Number:    "RE-2025-0001",
		IssueDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}}
	uc := newCreateUseCase(repo, ownCustomer())

	_, err := uc.GetInvoice(context.Background(), "tenant-1", "inv-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
