package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo Implementierung über PostgreSQL (nutzbar mit Pool oder Tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persistiert einen Rechnungskopf.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, customer_id, number, issue_date, due_date,
			status, currency, payment_terms, net_total, vat_total, gross_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.TenantID, inv.CustomerID, inv.Number, inv.IssueDate, inv.DueDate,
		inv.Status, inv.Currency, inv.PaymentTerms, inv.NetTotal, inv.VatTotal, inv.GrossTotal,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate // Nummer je Mandant eindeutig
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persistiert eine Rechnungsposition.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit,
			unit_price, vat_rate, discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.InvoiceID, item.Position, item.Description, item.Quantity, item.Unit,
		item.UnitPrice, item.VatRate, item.DiscountPercent,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID holt eine Rechnung anhand der ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT id, tenant_id, customer_id, number, issue_date, due_date,
			status, currency, COALESCE(payment_terms, ''), net_total, vat_total, gross_total,
			created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.TenantID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.DueDate,
		&inv.Status, &inv.Currency, &inv.PaymentTerms, &inv.NetTotal, &inv.VatTotal, &inv.GrossTotal,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetItemsByInvoiceID liefert die Positionen einer Rechnung, sortiert.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit,
			unit_price, vat_rate, discount_percent
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.Position, &it.Description, &it.Quantity, &it.Unit,
			&it.UnitPrice, &it.VatRate, &it.DiscountPercent,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByTenant listet die Rechnungen des Mandanten mit Paginierung.
func (r *InvoiceRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT id, tenant_id, customer_id, number, issue_date, due_date,
			status, currency, COALESCE(payment_terms, ''), net_total, vat_total, gross_total,
			created_at, updated_at
		FROM invoices WHERE tenant_id = $1
		ORDER BY issue_date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.TenantID, &inv.CustomerID, &inv.Number, &inv.IssueDate, &inv.DueDate,
			&inv.Status, &inv.Currency, &inv.PaymentTerms, &inv.NetTotal, &inv.VatTotal, &inv.GrossTotal,
			&inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
