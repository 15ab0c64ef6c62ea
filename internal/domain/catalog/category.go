package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// Category groups products; categories may nest one level via ParentID
type Category struct {
	shared.BaseEntity
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug        string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string     `gorm:"type:text"`
	ImageURL    string     `gorm:"type:varchar(255)"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       strings.ToLower(slug),
	}, nil
}

// Update updates the category's information
func (c *Category) Update(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.Description = description
	c.Touch()
	return nil
}

// SetParent nests this category under another (nil makes it a root)
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.Touch()
	return nil
}
