package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

var _ repository.CashbookRepository = (*CashbookRepo)(nil)

// CashbookRepo Implementierung über PostgreSQL (nutzbar mit Pool oder Tx).
type CashbookRepo struct {
	q Querier
}

// NewCashbookRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewCashbookRepository(q Querier) *CashbookRepo {
	return &CashbookRepo{q: q}
}

const cashbookColumns = `id, tenant_id, entry_date, kind, category,
	COALESCE(category_account, ''), amount, vat_rate, currency, description,
	COALESCE(document_number, ''), cancelled, created_at, updated_at`

// Create persistiert einen Kassenbucheintrag.
func (r *CashbookRepo) Create(ctx context.Context, e *entity.CashbookEntry) error {
	query := `
		INSERT INTO cashbook_entries (id, tenant_id, entry_date, kind, category,
			category_account, amount, vat_rate, currency, description,
			document_number, cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.TenantID, e.EntryDate, e.Kind, e.Category,
		nullIfEmpty(e.CategoryAccount), e.Amount, e.VatRate, e.Currency, e.Description,
		nullIfEmpty(e.DocumentNumber), e.Cancelled, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cashbook entry: %w", err)
	}
	return nil
}

// GetByID holt einen Eintrag anhand der ID.
func (r *CashbookRepo) GetByID(ctx context.Context, id string) (*entity.CashbookEntry, error) {
	query := `SELECT ` + cashbookColumns + ` FROM cashbook_entries WHERE id = $1`
	e, err := scanCashbookEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cashbook entry: %w", err)
	}
	return e, nil
}

// ListByTenant listet die Einträge des Mandanten mit Paginierung,
// einschließlich stornierter.
func (r *CashbookRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.CashbookEntry, error) {
	query := `SELECT ` + cashbookColumns + `
		FROM cashbook_entries WHERE tenant_id = $1
		ORDER BY entry_date DESC, document_number DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, tenantID, limit, offset)
}

// ListRange liefert alle nicht stornierten Einträge im Zeitraum [start, end],
// sortiert nach Belegdatum, dann Belegnummer. Die Sortierung ist Teil des
// DATEV-Kontrakts und gehört deshalb in die Query, nicht in den Aufrufer.
func (r *CashbookRepo) ListRange(ctx context.Context, tenantID string, start, end time.Time) ([]*entity.CashbookEntry, error) {
	query := `SELECT ` + cashbookColumns + `
		FROM cashbook_entries
		WHERE tenant_id = $1 AND cancelled = FALSE AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, document_number`
	return r.list(ctx, query, tenantID, start, end)
}

// Cancel markiert einen Eintrag als storniert.
func (r *CashbookRepo) Cancel(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE cashbook_entries SET cancelled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel cashbook entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CashbookRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CashbookEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cashbook entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashbookEntry
	for rows.Next() {
		e, err := scanCashbookEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cashbook entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

type pgxScanner interface {
	Scan(dest ...any) error
}

func scanCashbookEntry(row pgxScanner) (*entity.CashbookEntry, error) {
	var e entity.CashbookEntry
	err := row.Scan(
		&e.ID, &e.TenantID, &e.EntryDate, &e.Kind, &e.Category,
		&e.CategoryAccount, &e.Amount, &e.VatRate, &e.Currency, &e.Description,
		&e.DocumentNumber, &e.Cancelled, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
