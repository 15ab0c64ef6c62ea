package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/shared"
)

// AddressService manages a user's shipping addresses.
type AddressService struct {
	addresses identity.AddressRepository
}

// NewAddressService creates an address service
func NewAddressService(addresses identity.AddressRepository) *AddressService {
	return &AddressService{addresses: addresses}
}

// Create adds a new address to the user's address book. The first
// address becomes the default automatically.
func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	addr, err := identity.NewAddress(userID, req.FullName, req.Phone, req.Line1, req.City, req.PostalCode, req.Country)
	if err != nil {
		return nil, err
	}
	addr.Label = req.Label
	addr.Line2 = req.Line2
	addr.State = req.State

	existing, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.IsDefault || len(existing) == 0 {
		if err := s.addresses.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
		addr.IsDefault = true
	}

	if err := s.addresses.Save(ctx, addr); err != nil {
		return nil, err
	}
	return ToAddressResponse(addr), nil
}

// List returns all of a user's addresses
func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]*AddressResponse, error) {
	addrs, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*AddressResponse, len(addrs))
	for i := range addrs {
		out[i] = ToAddressResponse(&addrs[i])
	}
	return out, nil
}

// Update replaces an address's fields. Users can only touch their own
// addresses.
func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req AddressRequest) (*AddressResponse, error) {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	addr.Label = req.Label
	addr.FullName = req.FullName
	addr.Phone = req.Phone
	addr.Line1 = req.Line1
	addr.Line2 = req.Line2
	addr.City = req.City
	addr.State = req.State
	addr.PostalCode = req.PostalCode
	addr.Country = req.Country

	if req.IsDefault && !addr.IsDefault {
		if err := s.addresses.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
		addr.IsDefault = true
	}

	if err := s.addresses.Save(ctx, addr); err != nil {
		return nil, err
	}
	return ToAddressResponse(addr), nil
}

// SetDefault marks one address as the user's default
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if err := s.addresses.ClearDefault(ctx, userID); err != nil {
		return err
	}
	addr.IsDefault = true
	return s.addresses.Save(ctx, addr)
}

// Delete removes an address from the user's address book
func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.addresses.Delete(ctx, addr.ID)
}

func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*identity.Address, error) {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !addr.BelongsTo(userID) {
		return nil, shared.ErrForbidden
	}
	return addr, nil
}
