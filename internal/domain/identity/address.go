package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// Address is a shipping address owned by a user
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Label      string    `gorm:"type:varchar(50)"`
	FullName   string    `gorm:"type:varchar(200);not null"`
	Phone      string    `gorm:"type:varchar(30);not null"`
	Line1      string    `gorm:"type:varchar(255);not null"`
	Line2      string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(100);not null"`
	State      string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20);not null"`
	Country    string    `gorm:"type:varchar(100);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates an address for the given user
func NewAddress(userID uuid.UUID, fullName, phone, line1, city, postalCode, country string) (*Address, error) {
	for field, value := range map[string]string{
		"full name":   fullName,
		"phone":       phone,
		"line1":       line1,
		"city":        city,
		"postal code": postalCode,
		"country":     country,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, shared.NewDomainErrorf("INVALID_INPUT", "Address %s is required", field)
		}
	}
	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		FullName:   fullName,
		Phone:      phone,
		Line1:      line1,
		City:       city,
		PostalCode: postalCode,
		Country:    country,
	}, nil
}

// BelongsTo reports whether the address is owned by the user
func (a *Address) BelongsTo(userID uuid.UUID) bool {
	return a.UserID == userID
}
