package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VariantInput represents a variant in a product create or update request.
// On update the submitted set replaces the stored set entirely.
type VariantInput struct {
	SKU                string           `json:"sku" binding:"required,max=100"`
	Color              string           `json:"color"`
	Size               string           `json:"size"`
	AdditionalVariance string           `json:"additional_variance"`
	Price              *decimal.Decimal `json:"price"`
	PriceAdjustment    decimal.Decimal  `json:"price_adjustment"`
	StockQuantity      int              `json:"stock_quantity" binding:"min=0"`
	ImageURL           string           `json:"image_url"`
	ReorderThreshold   *int             `json:"reorder_threshold"`
}

// CreateProductRequest represents a request to create a product with variants
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Slug        string          `json:"slug" binding:"max=255"`
	Description string          `json:"description"`
	Summary     string          `json:"summary" binding:"max=255"`
	MainImage   string          `json:"main_image"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	IsFeatured  bool            `json:"is_featured"`
	Variants    []VariantInput  `json:"variants" binding:"required,min=1,dive"`
	Images      []string        `json:"images"`
}

// UpdateProductRequest represents a full product update; the variant set
// submitted here replaces the stored set.
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description"`
	Summary     string          `json:"summary" binding:"max=255"`
	MainImage   string          `json:"main_image"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	BrandID     *uuid.UUID      `json:"brand_id"`
	BasePrice   decimal.Decimal `json:"base_price" binding:"required"`
	IsFeatured  bool            `json:"is_featured"`
	IsActive    *bool           `json:"is_active"`
	Variants    []VariantInput  `json:"variants" binding:"required,min=1,dive"`
}

// ProductListFilter represents storefront and admin list options
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	BrandID    *uuid.UUID `form:"brand_id"`
	Featured   *bool      `form:"featured"`
	Sort       string     `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc popular"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID                 uuid.UUID        `json:"id"`
	SKU                string           `json:"sku"`
	Color              string           `json:"color,omitempty"`
	Size               string           `json:"size,omitempty"`
	AdditionalVariance string           `json:"additional_variance,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	PriceAdjustment    decimal.Decimal  `json:"price_adjustment"`
	EffectivePrice     decimal.Decimal  `json:"effective_price"`
	StockQuantity      int              `json:"stock_quantity"`
	ImageURL           string           `json:"image_url,omitempty"`
	IsActive           bool             `json:"is_active"`
}

// ProductResponse represents a full product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	MainImage   string            `json:"main_image,omitempty"`
	CategoryID  *uuid.UUID        `json:"category_id,omitempty"`
	BrandID     *uuid.UUID        `json:"brand_id,omitempty"`
	BasePrice   decimal.Decimal   `json:"base_price"`
	IsFeatured  bool              `json:"is_featured"`
	IsActive    bool              `json:"is_active"`
	TotalStock  int               `json:"total_stock"`
	Variants    []VariantResponse `json:"variants"`
	Images      []string          `json:"images,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CategoryRequest represents a category create or update request
type CategoryRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Slug        string     `json:"slug" binding:"max=120"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BrandRequest represents a brand create or update request
type BrandRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=120"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToVariantResponse converts a variant given its product's base price
func ToVariantResponse(v *catalog.Variant, basePrice decimal.Decimal) VariantResponse {
	resp := VariantResponse{
		ID:                 v.ID,
		SKU:                v.SKU,
		Color:              v.Color,
		Size:               v.Size,
		AdditionalVariance: v.AdditionalVariance,
		PriceAdjustment:    v.PriceAdjustment,
		EffectivePrice:     v.EffectivePrice(basePrice),
		StockQuantity:      v.StockQuantity,
		ImageURL:           v.ImageURL,
		IsActive:           v.IsActive,
	}
	if v.Price.Valid {
		p := v.Price.Decimal
		resp.Price = &p
	}
	return resp
}

// ToProductResponse converts a product aggregate to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, ToVariantResponse(&p.Variants[i], p.BasePrice))
	}
	images := make([]string, 0, len(p.Images))
	for i := range p.Images {
		images = append(images, p.Images[i].ImageURL)
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Summary:     p.Summary,
		MainImage:   p.MainImage,
		CategoryID:  p.CategoryID,
		BrandID:     p.BrandID,
		BasePrice:   p.BasePrice,
		IsFeatured:  p.IsFeatured,
		IsActive:    p.IsActive,
		TotalStock:  p.TotalStock(),
		Variants:    variants,
		Images:      images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToCategoryResponse converts a category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
	}
}

// ToBrandResponse converts a brand to a response DTO
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		CreatedAt:   b.CreatedAt,
	}
}

// ToFilter converts the product list filter to a repository filter
func (f ProductListFilter) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	filter.Search = f.Search
	if f.Sort != "" {
		filter.OrderBy = f.Sort
	} else {
		filter.OrderBy = catalog.SortNewest
	}
	if f.CategoryID != nil {
		filter.Filters["category_id"] = *f.CategoryID
	}
	if f.BrandID != nil {
		filter.Filters["brand_id"] = *f.BrandID
	}
	if f.Featured != nil {
		filter.Filters["is_featured"] = *f.Featured
	}
	return filter
}
