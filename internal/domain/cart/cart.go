package cart

import (
	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// Owner identifies who a cart belongs to: exactly one of UserID or GuestID
// is set. Guests are tracked by an opaque token minted by the client layer.
type Owner struct {
	UserID  *uuid.UUID
	GuestID string
}

// UserOwner returns an owner for an authenticated user
func UserOwner(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

// GuestOwner returns an owner for an anonymous guest token
func GuestOwner(guestID string) Owner {
	return Owner{GuestID: guestID}
}

// Valid reports whether exactly one owner identity is present
func (o Owner) Valid() bool {
	return (o.UserID != nil) != (o.GuestID != "")
}

// Cart accumulates items for a user or guest. It is created lazily on the
// first add and survives checkout with its items removed.
type Cart struct {
	shared.BaseEntity
	UserID  *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	GuestID *string    `gorm:"type:varchar(100);uniqueIndex"`

	Items []Item `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// Item is a single variant line in a cart
type Item struct {
	shared.BaseEntity
	CartID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_variant,unique"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_variant,unique"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for the given owner
func NewCart(owner Owner) (*Cart, error) {
	if !owner.Valid() {
		return nil, shared.NewDomainError("INVALID_OWNER", "Cart must belong to exactly one user or guest")
	}
	c := &Cart{BaseEntity: shared.NewBaseEntity()}
	if owner.UserID != nil {
		c.UserID = owner.UserID
	} else {
		guestID := owner.GuestID
		c.GuestID = &guestID
	}
	return c, nil
}

// AddItem merges a variant into the cart: an existing line for the same
// variant has its quantity incremented, otherwise a new line is appended.
func (c *Cart) AddItem(variantID uuid.UUID, quantity int) (*Item, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items[i].Quantity += quantity
			c.Items[i].Touch()
			return &c.Items[i], nil
		}
	}
	c.Items = append(c.Items, Item{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		VariantID:  variantID,
		Quantity:   quantity,
	})
	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem drops the line for the given variant, reporting whether one existed
func (c *Cart) RemoveItem(variantID uuid.UUID) bool {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
