// Package export bündelt die drei Exportpfade der Rechnung (PDF, XRechnung,
// ZUGFeRD) und den DATEV-Export des Kassenbuchs. Alle Pfade sind strikt
// lesend: sie verändern nie Rechnungen, Positionen oder Kassenbucheinträge.
package export

import (
	"context"
	"fmt"

	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// PDFUseCase erzeugt die Druckansicht (PDF) einer Rechnung.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase baut den Anwendungsfall mit allen Abhängigkeiten.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF lädt alle Daten der Rechnung und rendert das PDF.
//
// Liefert:
//   - (pdfBytes, filename, nil)  im Erfolgsfall.
//   - domain.ErrNotFound         wenn die Rechnung nicht existiert.
//   - domain.ErrForbidden        wenn die Rechnung einem anderen Mandanten gehört.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	tenantID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, seller, buyer, items, err := loadInvoiceBundle(ctx, uc.invoiceRepo, uc.companyRepo, uc.customerRepo, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.RenderInvoicePDF(ctx, inv, seller, buyer, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: rendern fehlgeschlagen: %w", err)
	}

	filename = fmt.Sprintf("invoice-%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}

// loadInvoiceBundle lädt Rechnung, Verkäufer, Käufer und Positionen in
// dieser Reihenfolge; die Mandantenprüfung passiert vor allen weiteren Reads.
func loadInvoiceBundle(
	ctx context.Context,
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	tenantID, invoiceID string,
) (*entity.Invoice, *entity.Company, *entity.Customer, []*entity.InvoiceItem, error) {
	// ── 1. Rechnung laden und Mandanten prüfen ────────────────────────────────
	inv, err := invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("export: rechnung laden: %w", err)
	}
	if inv == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}
	if inv.TenantID != tenantID {
		return nil, nil, nil, nil, domain.ErrForbidden
	}

	// ── 2. Verkäufer (Mandant) laden ──────────────────────────────────────────
	seller, err := companyRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("export: mandant laden: %w", err)
	}
	if seller == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}

	// ── 3. Käufer laden ───────────────────────────────────────────────────────
	buyer, err := customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("export: kunde laden: %w", err)
	}
	if buyer == nil {
		return nil, nil, nil, nil, domain.ErrNotFound
	}

	// ── 4. Positionen laden ───────────────────────────────────────────────────
	items, err := invoiceRepo.GetItemsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("export: positionen laden: %w", err)
	}

	return inv, seller, buyer, items, nil
}
