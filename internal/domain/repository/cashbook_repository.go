package repository

import (
	"context"
	"time"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// CashbookRepository definiert den Persistenz-Port für Kassenbucheinträge.
type CashbookRepository interface {
	Create(ctx context.Context, entry *entity.CashbookEntry) error
	GetByID(ctx context.Context, id string) (*entity.CashbookEntry, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.CashbookEntry, error)
	// ListRange liefert alle nicht stornierten Einträge im Zeitraum [start, end],
	// sortiert nach Belegdatum, dann Belegnummer (für den DATEV-Export).
	ListRange(ctx context.Context, tenantID string, start, end time.Time) ([]*entity.CashbookEntry, error)
	// Cancel markiert einen Eintrag als storniert (Einträge werden nie gelöscht).
	Cancel(ctx context.Context, id string) error
}
