package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product list sort orders accepted by the read path
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
)

// ProductSummary is a list-view projection joining category/brand names and
// the aggregated variant stock.
type ProductSummary struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Summary      string          `json:"summary"`
	MainImage    string          `json:"main_image"`
	BasePrice    decimal.Decimal `json:"base_price"`
	IsFeatured   bool            `json:"is_featured"`
	IsActive     bool            `json:"is_active"`
	CategoryName string          `json:"category_name"`
	BrandName    string          `json:"brand_name"`
	TotalStock   int             `json:"total_stock"`
}

// ProductRepository persists products with their variants and images
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	// List returns summary rows; filter.Filters recognizes category_id,
	// brand_id and is_featured, OrderBy accepts the Sort* constants.
	List(ctx context.Context, filter shared.Filter) ([]ProductSummary, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantRepository persists product variants
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	// FindByIDsForUpdate loads the given variants under a row-level lock so
	// concurrent checkouts serialize on the variants they share. Must be
	// called inside a transaction.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]Variant, error)
	// ReplaceForProduct deletes the product's variant set and inserts the
	// given one. It never merges with existing rows.
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, variants []Variant) error
	// AdjustStock applies a signed change to a variant's stock and reports
	// whether any row was affected.
	AdjustStock(ctx context.Context, id uuid.UUID, change int) (bool, error)
	Save(ctx context.Context, variant *Variant) error
	FindBelowThreshold(ctx context.Context, filter shared.Filter) ([]Variant, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandRepository persists brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindBySlug(ctx context.Context, slug string) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}
