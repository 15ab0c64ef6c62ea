package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/shared"
)

// UserService handles profile and account management.
type UserService struct {
	users identity.UserRepository
}

// NewUserService creates a user service
func NewUserService(users identity.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*UserResponse], error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*UserResponse, len(users.Items))
	for i := range users.Items {
		items[i] = ToUserResponse(&users.Items[i])
	}
	page := shared.NewPaginated(items, users.Total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateProfile applies partial profile changes.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Deactivate disables an account. Deactivated users cannot log in.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deactivate()
	return s.users.Save(ctx, user)
}
