package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo Implementierung über PostgreSQL (nutzbar mit Pool oder Tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository baut den Adapter. Pool oder Tx übergeben (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, COALESCE(street, ''), COALESCE(zip, ''), COALESCE(city, ''),
	country_code, COALESCE(tax_number, ''), COALESCE(vat_id, ''),
	COALESCE(email, ''), COALESCE(phone, ''), status, created_at, updated_at`

// Create persistiert einen Mandanten.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, street, zip, city, country_code,
			tax_number, vat_id, email, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.Street), nullIfEmpty(c.Zip), nullIfEmpty(c.City), c.CountryCode,
		nullIfEmpty(c.TaxNumber), nullIfEmpty(c.VatID), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID holt einen Mandanten anhand der ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Street, &c.Zip, &c.City, &c.CountryCode,
		&c.TaxNumber, &c.VatID, &c.Email, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}
