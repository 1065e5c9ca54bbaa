package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/application/export"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/datev"
)

// ExportHandler bedient die Download-Endpunkte: Rechnungs-PDF, XRechnung,
// ZUGFeRD und DATEV-Buchungsstapel. Alle Endpunkte sind strikt lesend.
type ExportHandler struct {
	pdfUC       *export.PDFUseCase
	xrechnungUC *export.XRechnungUseCase
	zugferdUC   *export.ZUGFeRDUseCase
	datevUC     *export.DATEVUseCase
}

// NewExportHandler baut den Handler.
func NewExportHandler(
	pdfUC *export.PDFUseCase,
	xrechnungUC *export.XRechnungUseCase,
	zugferdUC *export.ZUGFeRDUseCase,
	datevUC *export.DATEVUseCase,
) *ExportHandler {
	return &ExportHandler{pdfUC: pdfUC, xrechnungUC: xrechnungUC, zugferdUC: zugferdUC, datevUC: datevUC}
}

// InvoicePDF liefert die Druckansicht als Download.
// GET /api/invoices/:id/pdf
func (h *ExportHandler) InvoicePDF(c *fiber.Ctx) error {
	tenantID, invoiceID, ok := exportParams(c)
	if !ok {
		return nil
	}
	pdf, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), tenantID, invoiceID)
	if err != nil {
		return exportError(c, err)
	}
	return sendAttachment(c, pdf, filename, "application/pdf")
}

// XRechnung liefert die XRechnung-XML als Download. Die Leitweg-ID kommt
// optional als Query-Parameter.
// GET /api/invoices/:id/xrechnung?leitweg=...
func (h *ExportHandler) XRechnung(c *fiber.Ctx) error {
	tenantID, invoiceID, ok := exportParams(c)
	if !ok {
		return nil
	}
	xml, filename, err := h.xrechnungUC.DownloadXRechnung(c.Context(), tenantID, invoiceID, c.Query("leitweg"))
	if err != nil {
		return exportError(c, err)
	}
	return sendAttachment(c, xml, filename, "application/xml")
}

// ZUGFeRD liefert das Hybrid-PDF mit eingebetteter XML als Download.
// GET /api/invoices/:id/zugferd
func (h *ExportHandler) ZUGFeRD(c *fiber.Ctx) error {
	tenantID, invoiceID, ok := exportParams(c)
	if !ok {
		return nil
	}
	pdf, filename, err := h.zugferdUC.DownloadZUGFeRD(c.Context(), tenantID, invoiceID)
	if err != nil {
		return exportError(c, err)
	}
	return sendAttachment(c, pdf, filename, "application/pdf")
}

// DATEV liefert den Buchungsstapel des Kassenbuchs als CSV-Download.
// GET /api/exports/datev?start=2025-01-01&end=2025-03-31&skr=SKR03&vat=true
func (h *ExportHandler) DATEV(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Token ungültig"})
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start muss YYYY-MM-DD sein"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end muss YYYY-MM-DD sein"})
	}
	scheme := datev.Scheme(c.Query("skr", string(datev.SchemeSKR03)))
	includeVAT := c.QueryBool("vat", true)

	csv, filename, err := h.datevUC.ExportCashbook(c.Context(), export.DATEVParams{
		TenantID:   tenantID,
		Start:      start,
		End:        end,
		Scheme:     scheme,
		IncludeVAT: includeVAT,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ungültige Exportparameter"})
		}
		return exportError(c, err)
	}
	return sendAttachment(c, csv, filename, "text/csv; charset=utf-8")
}

// ── Helfer ────────────────────────────────────────────────────────────────────

// exportParams liest Mandant und Rechnungs-ID. Bei ok=false ist die
// Fehlerantwort bereits geschrieben.
func exportParams(c *fiber.Ctx) (tenantID, invoiceID string, ok bool) {
	tenantID = GetTenantID(c)
	if tenantID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Token ungültig"})
		return "", "", false
	}
	invoiceID = c.Params("id")
	if invoiceID == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id erforderlich"})
		return "", "", false
	}
	return tenantID, invoiceID, true
}

// exportError bildet Domänenfehler auf HTTP ab. ErrForbidden wird hier
// bewusst wie ErrNotFound behandelt: Download-URLs sollen nicht verraten,
// ob eine fremde Rechnung existiert.
func exportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Ressource nicht gefunden"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func sendAttachment(c *fiber.Ctx, body []byte, filename, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}
