package export

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// InvoicePDFGenerator erzeugt die Druckansicht einer Rechnung.
// Implementiert von infrastructure/pdf.
type InvoicePDFGenerator interface {
	RenderInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		seller *entity.Company,
		buyer *entity.Customer,
		items []*entity.InvoiceItem,
	) ([]byte, error)
}

// ZUGFeRDEmbedder bettet die XRechnung-XML in ein Rechnungs-PDF ein.
// Implementiert von infrastructure/zugferd.
type ZUGFeRDEmbedder interface {
	Embed(ctx context.Context, pdf []byte, xml []byte) ([]byte, error)
}
