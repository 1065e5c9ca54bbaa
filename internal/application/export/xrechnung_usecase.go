package export

import (
	"context"
	"fmt"

	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
	infraxr "github.com/rechnungbest/rechnung-api/internal/infrastructure/xrechnung"
)

// XRechnungUseCase erzeugt die XRechnung-XML einer Rechnung.
type XRechnungUseCase struct {
	invoiceRepo    repository.InvoiceRepository
	companyRepo    repository.CompanyRepository
	customerRepo   repository.CustomerRepository
	builder        *infraxr.CIIBuilderService
	defaultLeitweg string
}

// NewXRechnungUseCase baut den Anwendungsfall. defaultLeitweg greift, wenn
// der Aufrufer keine Leitweg-ID mitgibt (darf leer sein).
func NewXRechnungUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	builder *infraxr.CIIBuilderService,
	defaultLeitweg string,
) *XRechnungUseCase {
	return &XRechnungUseCase{
		invoiceRepo:    invoiceRepo,
		companyRepo:    companyRepo,
		customerRepo:   customerRepo,
		builder:        builder,
		defaultLeitweg: defaultLeitweg,
	}
}

// DownloadXRechnung lädt alle Daten der Rechnung und baut das XML.
// Fehlerverhalten wie bei DownloadInvoicePDF.
func (uc *XRechnungUseCase) DownloadXRechnung(
	ctx context.Context,
	tenantID, invoiceID, leitwegID string,
) (xmlBytes []byte, filename string, err error) {
	inv, seller, buyer, items, err := loadInvoiceBundle(ctx, uc.invoiceRepo, uc.companyRepo, uc.customerRepo, tenantID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	if leitwegID == "" {
		leitwegID = uc.defaultLeitweg
	}

	xmlBytes, err = uc.builder.Build(&infraxr.BuildContext{
		Invoice:   inv,
		Seller:    seller,
		Buyer:     buyer,
		Items:     items,
		LeitwegID: leitwegID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("xrechnung: aufbau fehlgeschlagen: %w", err)
	}

	filename = fmt.Sprintf("xrechnung-%s.xml", inv.Number)
	return xmlBytes, filename, nil
}
