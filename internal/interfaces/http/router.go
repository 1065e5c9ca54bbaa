package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rechnungbest/rechnung-api/internal/application/auth"
	"github.com/rechnungbest/rechnung-api/internal/application/billing"
	"github.com/rechnungbest/rechnung-api/internal/application/export"
)

// RouterDeps Abhängigkeiten des Routers.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CustomerUC    *billing.CustomerUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	CashbookUC    *billing.CashbookUseCase
	PDFUC         *export.PDFUseCase
	XRechnungUC   *export.XRechnungUseCase
	ZUGFeRDUC     *export.ZUGFeRDUseCase
	DATEVUC       *export.DATEVUseCase
	JWTSecret     string
}

// Router registriert die Routen der API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (öffentlich)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Geschützte Routen (Bearer-Token erforderlich)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Kunden
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Rechnungen + Dokumentexporte je Rechnung
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice)
	exportHandler := NewExportHandler(deps.PDFUC, deps.XRechnungUC, deps.ZUGFeRDUC, deps.DATEVUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", exportHandler.InvoicePDF)
	invoices.Get("/:id/xrechnung", exportHandler.XRechnung)
	invoices.Get("/:id/zugferd", exportHandler.ZUGFeRD)

	// Kassenbuch
	cashbook := protected.Group("/cashbook")
	cashbookHandler := NewCashbookHandler(deps.CashbookUC)
	cashbook.Post("/", cashbookHandler.Create)
	cashbook.Get("/", cashbookHandler.List)
	cashbook.Post("/:id/cancel", cashbookHandler.Cancel)

	// DATEV-Export des Kassenbuchs
	exports := protected.Group("/exports")
	exports.Get("/datev", exportHandler.DATEV)
}
