package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// UserRepository provides access to user accounts
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[User], error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository provides access to user shipping addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Address, error)
	Save(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearDefault unsets the default flag on all of a user's addresses
	ClearDefault(ctx context.Context, userID uuid.UUID) error
}
