package entity

import "time"

// User repräsentiert einen Benutzer des Systems (gehört zu einem Mandanten).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string // bcrypt-Hash, niemals Klartext nach dem Persistieren
	Name         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
