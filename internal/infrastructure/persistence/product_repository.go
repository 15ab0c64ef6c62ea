package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its variants and images loaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Images").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug finds a product by its URL slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Images").
		First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// soldQuantitySubquery ranks products by units sold across all orders
const soldQuantitySubquery = `(SELECT COALESCE(SUM(oi.quantity), 0)
	FROM order_items oi
	JOIN product_variants pv ON pv.id = oi.variant_id
	WHERE pv.product_id = products.id)`

// List returns summary rows joined with category and brand names and the
// aggregated variant stock
func (r *GormProductRepository) List(ctx context.Context, filter shared.Filter) ([]catalog.ProductSummary, error) {
	var summaries []catalog.ProductSummary

	query := r.applyFilter(r.summaryQuery(ctx), filter)

	switch filter.OrderBy {
	case catalog.SortPriceAsc:
		query = query.Order("products.base_price ASC")
	case catalog.SortPriceDesc:
		query = query.Order("products.base_price DESC")
	case catalog.SortPopular:
		query = query.Order(soldQuantitySubquery + " DESC")
	default:
		query = query.Order("products.created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product together with its images. Variants are
// managed separately through the variant repository.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Omit("Variants").
		Save(product).Error
}

// Delete removes a product; variants and images cascade
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select(`products.id, products.name, products.slug, products.summary,
			products.main_image, products.base_price, products.is_featured, products.is_active,
			COALESCE(categories.name, '') AS category_name,
			COALESCE(brands.name, '') AS brand_name,
			COALESCE((SELECT SUM(pv.stock_quantity) FROM product_variants pv WHERE pv.product_id = products.id), 0) AS total_stock`).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN brands ON brands.id = products.brand_id")
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("products.category_id = ?", value)
		case "brand_id":
			query = query.Where("products.brand_id = ?", value)
		case "is_featured":
			query = query.Where("products.is_featured = ?", value)
		case "is_active":
			query = query.Where("products.is_active = ?", value)
		case "search":
			if s, ok := value.(string); ok && s != "" {
				pattern := "%" + s + "%"
				query = query.Where("products.name ILIKE ? OR products.summary ILIKE ?", pattern, pattern)
			}
		}
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
