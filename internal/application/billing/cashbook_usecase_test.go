package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// recordingCashbookRepo zeichnet Create- und Cancel-Aufrufe auf.
type recordingCashbookRepo struct {
	created     *entity.CashbookEntry
	stored      *entity.CashbookEntry
	cancelledID string
}

func (r *recordingCashbookRepo) Create(_ context.Context, e *entity.CashbookEntry) error {
	r.created = e
	return nil
}

func (r *recordingCashbookRepo) GetByID(context.Context, string) (*entity.CashbookEntry, error) {
	return r.stored, nil
}

func (r *recordingCashbookRepo) ListByTenant(context.Context, string, int, int) ([]*entity.CashbookEntry, error) {
	return nil, nil
}

func (r *recordingCashbookRepo) ListRange(context.Context, string, time.Time, time.Time) ([]*entity.CashbookEntry, error) {
	return nil, nil
}

func (r *recordingCashbookRepo) Cancel(_ context.Context, id string) error {
	r.cancelledID = id
	return nil
}

func validEntryRequest() dto.CreateCashbookEntryRequest {
	return dto.CreateCashbookEntryRequest{
		EntryDate:   "2025-03-10",
		Kind:        entity.CashbookKindExpense,
		Category:    "Büromaterial",
		Amount:      decimal.RequireFromString("23.80"),
		VatRate:     decimal.NewFromInt(19),
		Description: "Druckerpapier",
	}
}

func TestCreateEntry_StoresAbsoluteAmount(t *testing.T) {
	repo := &recordingCashbookRepo{}
	uc := NewCashbookUseCase(repo)

	in := validEntryRequest()
	in.Amount = decimal.RequireFromString("-23.80") // Clients schicken Ausgaben gern negativ

	resp, err := uc.CreateEntry(context.Background(), "tenant-1", in)
	require.NoError(t, err)

	assert.Equal(t, "23.80", resp.Amount.StringFixed(2))
	assert.Equal(t, "23.80", repo.created.Amount.StringFixed(2))
	assert.Equal(t, "EUR", repo.created.Currency)
	assert.False(t, repo.created.Cancelled)
}

func TestCreateEntry_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateCashbookEntryRequest)
	}{
		{"unbekannte Art", func(r *dto.CreateCashbookEntryRequest) { r.Kind = "transfer" }},
		{"ohne Kategorie", func(r *dto.CreateCashbookEntryRequest) { r.Category = "" }},
		{"ohne Text", func(r *dto.CreateCashbookEntryRequest) { r.Description = "" }},
		{"Betrag null", func(r *dto.CreateCashbookEntryRequest) { r.Amount = decimal.Zero }},
		{"negativer Steuersatz", func(r *dto.CreateCashbookEntryRequest) { r.VatRate = decimal.NewFromInt(-7) }},
		{"ungültiges Datum", func(r *dto.CreateCashbookEntryRequest) { r.EntryDate = "10.03.2025" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &recordingCashbookRepo{}
			uc := NewCashbookUseCase(repo)

			in := validEntryRequest()
			tc.mutate(&in)
			_, err := uc.CreateEntry(context.Background(), "tenant-1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Nil(t, repo.created)
		})
	}
}

func TestCancelEntry(t *testing.T) {
	stored := &entity.CashbookEntry{ID: "entry-1", TenantID: "tenant-1"}

	t.Run("storniert", func(t *testing.T) {
		repo := &recordingCashbookRepo{stored: stored}
		uc := NewCashbookUseCase(repo)

		require.NoError(t, uc.CancelEntry(context.Background(), "tenant-1", "entry-1"))
		assert.Equal(t, "entry-1", repo.cancelledID)
	})

	t.Run("unbekannter Eintrag", func(t *testing.T) {
		repo := &recordingCashbookRepo{}
		uc := NewCashbookUseCase(repo)

		err := uc.CancelEntry(context.Background(), "tenant-1", "entry-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("fremder Mandant", func(t *testing.T) {
		repo := &recordingCashbookRepo{stored: stored}
		uc := NewCashbookUseCase(repo)

		err := uc.CancelEntry(context.Background(), "tenant-2", "entry-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, repo.cancelledID)
	})

	t.Run("bereits storniert", func(t *testing.T) {
		already := &entity.CashbookEntry{ID: "entry-1", TenantID: "tenant-1", Cancelled: true}
		repo := &recordingCashbookRepo{stored: already}
		uc := NewCashbookUseCase(repo)

		err := uc.CancelEntry(context.Background(), "tenant-1", "entry-1")
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, repo.cancelledID)
	})
}
