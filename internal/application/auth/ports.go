package auth

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
)

// RegistrationTxRunner führt eine Funktion innerhalb einer Transaktion aus,
// die Mandant und ersten Benutzer gemeinsam anlegt. Liefert fn einen Fehler,
// rollt der Runner alles zurück: es gibt nie einen Mandanten ohne Benutzer.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) error) error
}
