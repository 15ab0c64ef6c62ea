package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Product is the aggregate root for catalog entries. A product owns its
// variants and gallery images; the aggregate StockQuantity is a denormalized
// sum of variant stock maintained by the read path, not a source of truth.
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(255);not null"`
	Slug          string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description   string          `gorm:"type:text"`
	Summary       string          `gorm:"type:varchar(255)"`
	MainImage     string          `gorm:"type:varchar(255)"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity int             `gorm:"not null;default:0"`
	IsFeatured    bool            `gorm:"not null;default:false"`
	IsActive      bool            `gorm:"not null;default:true"`

	Variants []Variant      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductImage is a gallery image owned by a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL  string    `gorm:"type:varchar(255);not null"`
	IsMain    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProduct creates a new product
func NewProduct(name, slug string, basePrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Base price cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       strings.ToLower(slug),
		BasePrice:  basePrice,
		IsActive:   true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, summary string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.Summary = summary
	p.Touch()
	return nil
}

// SetBasePrice updates the product's base price
func (p *Product) SetBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Base price cannot be negative")
	}
	p.BasePrice = price
	p.Touch()
	return nil
}

// SetCategory assigns the product to a category (nil clears it)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// SetBrand assigns the product to a brand (nil clears it)
func (p *Product) SetBrand(brandID *uuid.UUID) {
	p.BrandID = brandID
	p.Touch()
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.Touch()
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
}

// Deactivate soft-scopes the product out of the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// AddImage appends a gallery image
func (p *Product) AddImage(imageURL string, isMain bool) *ProductImage {
	img := ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		ImageURL:   imageURL,
		IsMain:     isMain,
	}
	p.Images = append(p.Images, img)
	return &p.Images[len(p.Images)-1]
}

// TotalStock sums stock across the product's loaded variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.StockQuantity
	}
	return total
}

// ValidateSlug checks that a slug is URL-safe
func ValidateSlug(slug string) error {
	slug = strings.ToLower(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 255 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 255 characters")
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, digits and hyphens")
	}
	return nil
}

// Slugify derives a URL-safe slug from an arbitrary name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}
