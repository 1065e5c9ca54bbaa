package repository

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// InvoiceRepository definiert den Persistenz-Port für Rechnungen und Positionen.
// Die Exportpfade sind strikt lesend; Schreiben passiert nur beim Anlegen.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetItemsByInvoiceID liefert die Positionen sortiert nach Position.
	GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Invoice, error)
}
