package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiylo/backend/internal/domain/order"
	"github.com/kiylo/backend/internal/domain/shared"
)

// GormCouponRepository implements order.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by its ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Coupon, error) {
	var coupon order.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its code, case-insensitively
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*order.Coupon, error) {
	var coupon order.Coupon
	if err := r.db.WithContext(ctx).
		First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCodeForUpdate loads a coupon under a row-level lock
func (r *GormCouponRepository) FindByCodeForUpdate(ctx context.Context, code string) (*order.Coupon, error) {
	var coupon order.Coupon
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&coupon, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// List returns a page of coupons
func (r *GormCouponRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[order.Coupon], error) {
	query := r.db.WithContext(ctx).Model(&order.Coupon{})
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CouponSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var coupons []order.Coupon
	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(coupons, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, c *order.Coupon) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a coupon
func (r *GormCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&order.Coupon{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCouponRepository implements CouponRepository
var _ order.CouponRepository = (*GormCouponRepository)(nil)
