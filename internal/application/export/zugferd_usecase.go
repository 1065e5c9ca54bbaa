package export

import (
	"context"
	"fmt"

	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
	infraxr "github.com/rechnungbest/rechnung-api/internal/infrastructure/xrechnung"
)

// ZUGFeRDUseCase erzeugt das Hybridformat: Rechnungs-PDF mit eingebetteter
// XRechnung-XML. Beide Teile entstehen aus demselben Datensatz, also sind
// die sichtbaren Beträge und die maschinenlesbaren stets identisch.
type ZUGFeRDUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
	builder      *infraxr.CIIBuilderService
	embedder     ZUGFeRDEmbedder
}

// NewZUGFeRDUseCase baut den Anwendungsfall.
func NewZUGFeRDUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
	builder *infraxr.CIIBuilderService,
	embedder ZUGFeRDEmbedder,
) *ZUGFeRDUseCase {
	return &ZUGFeRDUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		generator:    generator,
		builder:      builder,
		embedder:     embedder,
	}
}

// DownloadZUGFeRD lädt die Rechnung einmal, rendert PDF und XML daraus und
// bettet die XML in das PDF ein.
func (uc *ZUGFeRDUseCase) DownloadZUGFeRD(
	ctx context.Context,
	tenantID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, seller, buyer, items, err := loadInvoiceBundle(ctx, uc.invoiceRepo, uc.companyRepo, uc.customerRepo, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := uc.generator.RenderInvoicePDF(ctx, inv, seller, buyer, items)
	if err != nil {
		return nil, "", fmt.Errorf("zugferd: pdf rendern: %w", err)
	}

	xml, err := uc.builder.Build(&infraxr.BuildContext{
		Invoice: inv,
		Seller:  seller,
		Buyer:   buyer,
		Items:   items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("zugferd: xml bauen: %w", err)
	}

	pdfBytes, err = uc.embedder.Embed(ctx, pdf, xml)
	if err != nil {
		return nil, "", fmt.Errorf("zugferd: einbetten: %w", err)
	}

	filename = fmt.Sprintf("zugferd-%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}
