package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rechnungbest/rechnung-api/internal/application/auth"
	"github.com/rechnungbest/rechnung-api/internal/application/billing"
	"github.com/rechnungbest/rechnung-api/internal/application/export"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/datev"
	infrapdf "github.com/rechnungbest/rechnung-api/internal/infrastructure/pdf"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/postgres"
	infraxr "github.com/rechnungbest/rechnung-api/internal/infrastructure/xrechnung"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/zugferd"
	httpRouter "github.com/rechnungbest/rechnung-api/internal/interfaces/http"
	"github.com/rechnungbest/rechnung-api/pkg/config"
	"github.com/rechnungbest/rechnung-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("konfiguration laden: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("anwendung startet")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("verbindung zu PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	cashbookRepo := postgres.NewCashbookRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(txRunner, userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	customerUC := billing.NewCustomerUseCase(customerRepo)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, customerRepo, invoiceRepo)
	cashbookUC := billing.NewCashbookUseCase(cashbookRepo)

	// Exportpfade: PDF, XRechnung, ZUGFeRD, DATEV
	pdfGenerator := infrapdf.NewMarotoInvoiceRenderer()
	ciiBuilder := infraxr.NewCIIBuilderService()
	embedder := zugferd.NewPdfcpuEmbedder()

	pdfUC := export.NewPDFUseCase(invoiceRepo, companyRepo, customerRepo, pdfGenerator)
	xrechnungUC := export.NewXRechnungUseCase(invoiceRepo, companyRepo, customerRepo, ciiBuilder, cfg.Export.DefaultLeitwegID)
	zugferdUC := export.NewZUGFeRDUseCase(invoiceRepo, companyRepo, customerRepo, pdfGenerator, ciiBuilder, embedder)
	datevUC := export.NewDATEVUseCase(cashbookRepo, datev.NewExtfWriter(), export.DATEVConfig{
		ConsultantNumber:     cfg.Export.DatevConsultantNumber,
		ClientNumber:         cfg.Export.DatevClientNumber,
		FiscalYearStartMonth: cfg.Export.FiscalYearStartMonth,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // PDF-Rendering braucht Luft
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger-UI lokal: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "rechnung.best API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CustomerUC:    customerUC,
		CreateInvoice: createInvoiceUC,
		CashbookUC:    cashbookUC,
		PDFUC:         pdfUC,
		XRechnungUC:   xrechnungUC,
		ZUGFeRDUC:     zugferdUC,
		DATEVUC:       datevUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP-Server beendet")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown-signal empfangen, server wird beendet...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server-shutdown")
	}

	log.Info().Msg("anwendung gestoppt")
}
