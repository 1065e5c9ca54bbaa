package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// CustomerUseCase verwaltet die Kunden eines Mandanten.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerUseCase baut den Anwendungsfall.
func NewCustomerUseCase(customerRepo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo}
}

// CreateCustomer legt einen Kunden für den Mandanten an.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, tenantID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" || in.Street == "" || in.Zip == "" || in.City == "" {
		return nil, domain.ErrInvalidInput
	}
	country := in.CountryCode
	if country == "" {
		country = "DE"
	}

	now := time.Now()
	customer := &entity.Customer{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Name:        in.Name,
		Street:      in.Street,
		Zip:         in.Zip,
		City:        in.City,
		CountryCode: country,
		VatID:       in.VatID,
		TaxID:       in.TaxID,
		Email:       in.Email,
		Phone:       in.Phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetCustomer liefert einen Kunden des Mandanten.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, tenantID, customerID string) (*dto.CustomerResponse, error) {
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// ListCustomers liefert die Kunden des Mandanten seitenweise.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, tenantID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	customers, err := uc.customerRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, toCustomerResponse(c))
	}
	return result, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Name:        c.Name,
		Street:      c.Street,
		Zip:         c.Zip,
		City:        c.City,
		CountryCode: c.CountryCode,
		VatID:       c.VatID,
		TaxID:       c.TaxID,
		Email:       c.Email,
		Phone:       c.Phone,
	}
}
