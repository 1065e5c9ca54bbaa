package repository

import (
	"context"

	"github.com/rechnungbest/rechnung-api/internal/domain/entity"
)

// UserRepository definiert den Persistenz-Port für User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
