package billing

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// BillingTxRunner führt eine Funktion innerhalb einer Transaktion aus, die
// Rechnungskopf und Positionen gemeinsam schreibt. Liefert fn einen Fehler,
// rollt der Runner alles zurück: es gibt nie einen Kopf ohne Positionen.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}
