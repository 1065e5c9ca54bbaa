package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
	"github.com/rechnungbest/rechnung-api/internal/domain/vat"
)

// CreateInvoiceUseCase legt Rechnungskopf und Positionen in einer
// Transaktion an. Die Kopfsummen werden aus den Positionen berechnet,
// damit Kopf und Positionssumme konstruktionsbedingt übereinstimmen.
type CreateInvoiceUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCreateInvoiceUseCase baut den Anwendungsfall.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CreateInvoice validiert die Eingabe, berechnet die Summen und persistiert
// Kopf plus Positionen gemeinsam.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, tenantID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || in.Number == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	issueDate, err := time.Parse("2006-01-02", in.IssueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		if d.Before(issueDate) {
			return nil, domain.ErrInvalidInput
		}
		dueDate = &d
	}

	// Kunde muss existieren und zum Mandanten gehören.
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}

	for i := range in.Items {
		item := &in.Items[i]
		if item.Description == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) || item.VatRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		hundred := decimal.NewFromInt(100)
		if item.DiscountPercent.LessThan(decimal.Zero) || item.DiscountPercent.GreaterThan(hundred) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	invoiceID := uuid.New().String()

	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	for i, it := range in.Items {
		items = append(items, &entity.InvoiceItem{
			ID:              uuid.New().String(),
			InvoiceID:       invoiceID,
			Position:        i + 1,
			Description:     it.Description,
			Quantity:        it.Quantity,
			Unit:            it.Unit,
			UnitPrice:       it.UnitPrice,
			VatRate:         it.VatRate,
			DiscountPercent: it.DiscountPercent,
		})
	}

	// Summen immer aus den Positionen, nie aus der Eingabe.
	buckets := vat.FromItems(items)
	inv := &entity.Invoice{
		ID:           invoiceID,
		TenantID:     tenantID,
		CustomerID:   in.CustomerID,
		Number:       in.Number,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Status:       entity.InvoiceStatusOpen,
		Currency:     "EUR",
		PaymentTerms: in.PaymentTerms,
		NetTotal:     buckets.NetTotal().Round(2),
		VatTotal:     buckets.VatTotal().Round(2),
		GrossTotal:   buckets.GrossTotal().Round(2),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, items), nil
}

// GetInvoice liefert Rechnung plus Positionen für den Mandanten.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, tenantID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// ListInvoices liefert die Rechnungen des Mandanten ohne Positionen.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, tenantID string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv, nil))
	}
	return result, nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		CustomerID:   inv.CustomerID,
		Number:       inv.Number,
		IssueDate:    inv.IssueDate.Format("2006-01-02"),
		Status:       inv.Status,
		Currency:     inv.Currency,
		PaymentTerms: inv.PaymentTerms,
		NetTotal:     inv.NetTotal,
		VatTotal:     inv.VatTotal,
		GrossTotal:   inv.GrossTotal,
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format("2006-01-02")
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			Position:        it.Position,
			Description:     it.Description,
			Quantity:        it.Quantity,
			Unit:            it.Unit,
			UnitPrice:       it.UnitPrice,
			VatRate:         it.VatRate,
			DiscountPercent: it.DiscountPercent,
			Net:             it.Net().Round(2),
		})
	}
	return resp
}
