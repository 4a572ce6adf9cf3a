package ports

import (
	"context"

	"github.com/abhiya492/ecommerce-api/internal/core/domain"
)

// UserRepository defines the interface for account persistence. Emails are
// unique and compared case-insensitively (normalised to lower case before
// storage).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// MarkVerified clears the pending verification code and flags the
	// account as verified.
	MarkVerified(ctx context.Context, id string) error
	UpdateCart(ctx context.Context, id string, items []domain.CartItem) error
	Count(ctx context.Context) (int64, error)
}
