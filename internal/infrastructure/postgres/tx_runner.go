package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rechnungbest/rechnung-api/internal/application/auth"
	"github.com/rechnungbest/rechnung-api/internal/application/billing"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

var (
	_ billing.BillingTxRunner   = (*TxRunner)(nil)
	_ auth.RegistrationTxRunner = (*TxRunner)(nil)
)

// TxRunner führt Callbacks innerhalb einer PostgreSQL-Transaktion aus.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner baut den Runner mit dem Pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling startet eine Transaktion, reicht ein transaktionsgebundenes
// Rechnungs-Repository an fn und macht Commit bzw. Rollback.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRegistration startet eine Transaktion, reicht transaktionsgebundene
// Benutzer- und Mandanten-Repositories an fn und macht Commit bzw. Rollback.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewUserRepository(tx), NewCompanyRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
