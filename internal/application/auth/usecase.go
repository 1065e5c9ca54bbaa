package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rechnungbest/rechnung-api/internal/application/dto"
	"github.com/rechnungbest/rechnung-api/internal/domain"
	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
	"github.com/rechnungbest/rechnung-api/internal/domain/repository"
	"github.com/rechnungbest/rechnung-api/pkg/jwt"
)

// JWTConfig Konfiguration für die Token-Ausstellung.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase Anwendungsfälle der Authentifizierung: Registrierung und Login.
type AuthUseCase struct {
	txRunner RegistrationTxRunner
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase baut den Auth-Anwendungsfall.
func NewAuthUseCase(txRunner RegistrationTxRunner, userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{txRunner: txRunner, userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register legt Mandant und Benutzer in einer Transaktion an: Passwort wird
// mit bcrypt gehasht, der Benutzer wird sofort eingeloggt (Token in der
// Antwort). Schlägt das Anlegen des Benutzers fehl, bleibt auch kein
// verwaister Mandant zurück. Liefert ErrEmailAlreadyExists, wenn die E-Mail
// schon vergeben ist.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.CompanyName == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, _ := uc.userRepo.GetByEmail(ctx, in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:          uuid.New().String(),
		Name:        in.CompanyName,
		CountryCode: "DE",
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     company.ID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Email,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.RunRegistration(ctx, func(userRepo repository.UserRepository, companyRepo repository.CompanyRepository) error {
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, UserID: user.ID, TenantID: user.TenantID, Email: user.Email}, nil
}

// Login prüft E-Mail/Passwort, stellt ein JWT aus und liefert den Kontext
// des Benutzers zurück.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, UserID: user.ID, TenantID: user.TenantID, Email: user.Email}, nil
}
