package entity

import "time"

// Customer repräsentiert einen Kunden des Mandanten (Käuferpartei).
// VatID und TaxID sind optional; fehlende Kennungen werden in den
// Dokumenten schlicht weggelassen.
type Customer struct {
	ID          string
	TenantID    string
	Name        string
	Street      string
	Zip         string
	City        string
	CountryCode string
	VatID       string
	TaxID       string
	Email       string
	Phone       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
