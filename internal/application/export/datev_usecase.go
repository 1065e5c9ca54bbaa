package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
	"github.com/rechnungbest/rechnung-api/internal/infrastructure/datev"
)

// fetchTimeout begrenzt den Kassenbuch-Read; ein hängender Export blockiert
// sonst den HTTP-Worker auf unbestimmte Zeit.
const fetchTimeout = 30 * time.Second

// DATEVConfig trägt die mandantenübergreifenden Stammdaten des Exports.
type DATEVConfig struct {
	ConsultantNumber     string
	ClientNumber         string
	FiscalYearStartMonth int
}

// DATEVParams beschreibt einen einzelnen Exportlauf.
type DATEVParams struct {
	TenantID   string
	Start      time.Time
	End        time.Time
	Scheme     datev.Scheme
	IncludeVAT bool
}

// DATEVUseCase exportiert das Kassenbuch als Buchungsstapel.
type DATEVUseCase struct {
	cashbookRepo repository.CashbookRepository
	writer       *datev.ExtfWriter
	cfg          DATEVConfig
}

// NewDATEVUseCase baut den Anwendungsfall.
func NewDATEVUseCase(cashbookRepo repository.CashbookRepository, writer *datev.ExtfWriter, cfg DATEVConfig) *DATEVUseCase {
	return &DATEVUseCase{cashbookRepo: cashbookRepo, writer: writer, cfg: cfg}
}

// ExportCashbook liest die Einträge des Zeitraums und rendert den Stapel.
// Schlägt der Read fehl, schlägt der gesamte Export fehl; Teil-Dateien
// gibt es nicht.
func (uc *DATEVUseCase) ExportCashbook(ctx context.Context, p DATEVParams) (csvBytes []byte, filename string, err error) {
	if !p.Scheme.Valid() {
		return nil, "", fmt.Errorf("%w: kontenrahmen %q", domain.ErrInvalidInput, p.Scheme)
	}
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return nil, "", fmt.Errorf("%w: ungültiger zeitraum", domain.ErrInvalidInput)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	entries, err := uc.cashbookRepo.ListRange(fetchCtx, p.TenantID, p.Start, p.End)
	if err != nil {
		return nil, "", fmt.Errorf("datev: einträge laden: %w", err)
	}

	csvBytes, err = uc.writer.Write(entries, datev.Params{
		ConsultantNumber:     uc.cfg.ConsultantNumber,
		ClientNumber:         uc.cfg.ClientNumber,
		FiscalYearStartMonth: uc.cfg.FiscalYearStartMonth,
		Start:                p.Start,
		End:                  p.End,
		Scheme:               p.Scheme,
		IncludeVAT:           p.IncludeVAT,
	})
	if err != nil {
		return nil, "", err
	}

	filename = fmt.Sprintf("DATEV_Export_%s_%s_%s.csv",
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"), p.Scheme)
	return csvBytes, filename, nil
}
