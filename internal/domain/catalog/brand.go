package catalog

import (
	"strings"

	"github.com/kiylo/backend/internal/domain/shared"
)

// Brand identifies a product manufacturer or label
type Brand struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	LogoURL     string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand
func NewBrand(name, slug string) (*Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return &Brand{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       strings.ToLower(slug),
	}, nil
}

// Update updates the brand's information
func (b *Brand) Update(name, description, logoURL string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	b.Name = name
	b.Description = description
	b.LogoURL = logoURL
	b.Touch()
	return nil
}
