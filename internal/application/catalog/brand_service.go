package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
)

// BrandService handles brand administration
type BrandService struct {
	brands catalog.BrandRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brands catalog.BrandRepository) *BrandService {
	return &BrandService{brands: brands}
}

// Create creates a brand
func (s *BrandService) Create(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	brand, err := catalog.NewBrand(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	brand.Description = req.Description
	brand.LogoURL = req.LogoURL
	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// Update updates a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req BrandRequest) (*BrandResponse, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Update(req.Name, req.Description, req.LogoURL); err != nil {
		return nil, err
	}
	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List returns all brands
func (s *BrandService) List(ctx context.Context, filter shared.Filter) ([]BrandResponse, error) {
	brands, err := s.brands.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]BrandResponse, 0, len(brands))
	for i := range brands {
		out = append(out, ToBrandResponse(&brands[i]))
	}
	return out, nil
}

// Delete removes a brand
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.brands.Delete(ctx, id)
}
