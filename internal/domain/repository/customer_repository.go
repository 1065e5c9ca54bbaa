package repository

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// CustomerRepository definiert den Persistenz-Port für Kunden.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Customer, error)
}
