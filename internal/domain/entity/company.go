package entity

import "time"

// Company repräsentiert einen Mandanten des Systems und zugleich die
// Verkäuferpartei aller Exporte (multi-tenant, Fokus Deutschland).
type Company struct {
	ID          string
	Name        string
	Street      string
	Zip         string
	City        string
	CountryCode string // ISO 3166-1 alpha-2, z.B. "DE"
	TaxNumber   string // Steuernummer (Schema "FC" in der XRechnung)
	VatID       string // USt-IdNr., z.B. "DE123456789" (Schema "VA")
	Email       string
	Phone       string
	Status      string // active, suspended, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
