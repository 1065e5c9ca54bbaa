package repository

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// CompanyRepository definiert den Persistenz-Port für Mandanten.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
