package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultReorderThreshold flags a variant as low stock when its quantity
// drops to this level or below, unless the variant overrides it.
const DefaultReorderThreshold = 5

// Variant is a purchasable color/size combination of a product. It carries
// the committed stock quantity; the stock invariant (never negative through
// the sales path) is enforced here and by the checkout transaction.
type Variant struct {
	shared.BaseEntity
	ProductID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	SKU                string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Color              string              `gorm:"type:varchar(50)"`
	Size               string              `gorm:"type:varchar(50)"`
	AdditionalVariance string              `gorm:"type:varchar(100)"`
	Price              decimal.NullDecimal `gorm:"type:decimal(10,2)"` // absolute override; NULL means base + adjustment
	PriceAdjustment    decimal.Decimal     `gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity      int                 `gorm:"not null;default:0"`
	ImageURL           string              `gorm:"type:varchar(255)"`
	ReorderThreshold   int                 `gorm:"not null;default:5"`
	IsActive           bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// NewVariant creates a new variant for a product
func NewVariant(productID uuid.UUID, sku string) (*Variant, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	return &Variant{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		SKU:              strings.ToUpper(sku),
		ReorderThreshold: DefaultReorderThreshold,
		IsActive:         true,
	}, nil
}

// EffectivePrice resolves the unit price for this variant given the owning
// product's base price: an absolute override wins, otherwise base plus the
// variant's adjustment.
func (v *Variant) EffectivePrice(basePrice decimal.Decimal) decimal.Decimal {
	if v.Price.Valid {
		return v.Price.Decimal
	}
	return basePrice.Add(v.PriceAdjustment)
}

// HasStock reports whether the requested quantity is currently available
func (v *Variant) HasStock(quantity int) bool {
	return v.StockQuantity >= quantity
}

// Decrement reduces committed stock by the purchased quantity. The quantity
// must be positive and must not cross zero.
func (v *Variant) Decrement(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if v.StockQuantity < quantity {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock for variant %s: have %d, want %d", v.SKU, v.StockQuantity, quantity)
	}
	v.StockQuantity -= quantity
	v.Touch()
	return nil
}

// IsBelowThreshold reports whether the variant needs a restock
func (v *Variant) IsBelowThreshold() bool {
	return v.StockQuantity <= v.ReorderThreshold
}

func validateSKU(sku string) error {
	if strings.TrimSpace(sku) == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	return nil
}
