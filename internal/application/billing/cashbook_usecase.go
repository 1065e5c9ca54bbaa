package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// CashbookUseCase verwaltet Kassenbucheinträge. Einträge werden nie
// gelöscht oder geändert; Korrekturen laufen über die Stornierung.
type CashbookUseCase struct {
	cashbookRepo repository.CashbookRepository
}

// NewCashbookUseCase baut den Anwendungsfall.
func NewCashbookUseCase(cashbookRepo repository.CashbookRepository) *CashbookUseCase {
	return &CashbookUseCase{cashbookRepo: cashbookRepo}
}

// CreateEntry legt einen Kassenbucheintrag an. Amount wird als
// Absolutbetrag gespeichert; das Vorzeichen ergibt sich aus Kind.
func (uc *CashbookUseCase) CreateEntry(ctx context.Context, tenantID string, in dto.CreateCashbookEntryRequest) (*dto.CashbookEntryResponse, error) {
	if in.Kind != entity.CashbookKindIncome && in.Kind != entity.CashbookKindExpense {
		return nil, domain.ErrInvalidInput
	}
	if in.Category == "" || in.Description == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Amount.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.VatRate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	entryDate, err := time.Parse("2006-01-02", in.EntryDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	entry := &entity.CashbookEntry{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		EntryDate:       entryDate,
		Kind:            in.Kind,
		Category:        in.Category,
		CategoryAccount: in.CategoryAccount,
		Amount:          in.Amount.Abs(),
		VatRate:         in.VatRate,
		Currency:        "EUR",
		Description:     in.Description,
		DocumentNumber:  in.DocumentNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.cashbookRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return toCashbookResponse(entry), nil
}

// ListEntries liefert die Einträge des Mandanten seitenweise, auch stornierte.
func (uc *CashbookUseCase) ListEntries(ctx context.Context, tenantID string, page dto.PageRequest) ([]*dto.CashbookEntryResponse, error) {
	page.DefaultPage()
	entries, err := uc.cashbookRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CashbookEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, toCashbookResponse(e))
	}
	return result, nil
}

// CancelEntry storniert einen Eintrag des Mandanten. Stornierte Einträge
// bleiben sichtbar, fallen aber aus dem DATEV-Export heraus.
func (uc *CashbookUseCase) CancelEntry(ctx context.Context, tenantID, entryID string) error {
	entry, err := uc.cashbookRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if entry.TenantID != tenantID {
		return domain.ErrForbidden
	}
	if entry.Cancelled {
		return domain.ErrConflict
	}
	return uc.cashbookRepo.Cancel(ctx, entryID)
}

func toCashbookResponse(e *entity.CashbookEntry) *dto.CashbookEntryResponse {
	return &dto.CashbookEntryResponse{
		ID:              e.ID,
		TenantID:        e.TenantID,
		EntryDate:       e.EntryDate.Format("2006-01-02"),
		Kind:            e.Kind,
		Category:        e.Category,
		CategoryAccount: e.CategoryAccount,
		Amount:          e.Amount,
		VatRate:         e.VatRate,
		Currency:        e.Currency,
		Description:     e.Description,
		DocumentNumber:  e.DocumentNumber,
		Cancelled:       e.Cancelled,
	}
}
