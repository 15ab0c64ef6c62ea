package inventory

import (
	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/shared"
)

// ChangeType classifies a stock movement
type ChangeType string

const (
	ChangeRestock    ChangeType = "restock"
	ChangeSale       ChangeType = "sale"
	ChangeReturn     ChangeType = "return"
	ChangeAdjustment ChangeType = "adjustment"
)

// ParseChangeType validates a change type string
func ParseChangeType(s string) (ChangeType, error) {
	switch ChangeType(s) {
	case ChangeRestock, ChangeSale, ChangeReturn, ChangeAdjustment:
		return ChangeType(s), nil
	}
	return "", shared.NewDomainErrorf("INVALID_INPUT", "Invalid inventory change type %q", s)
}

// LedgerEntry is one append-only row in the inventory movement history.
// Entries are never updated or deleted.
type LedgerEntry struct {
	shared.BaseEntity
	VariantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Change      int        `gorm:"not null"`
	ChangeType  ChangeType `gorm:"type:varchar(20);not null"`
	Reference   *uuid.UUID `gorm:"type:uuid"`
	Note        string     `gorm:"type:text"`
	RecordedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "inventory"
}

// NewSaleEntry records a stock decrement caused by an order. Change is
// stored negative; reference points at the order.
func NewSaleEntry(variantID, orderID uuid.UUID, quantity int) (*LedgerEntry, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be at least 1")
	}
	ref := orderID
	return &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		Change:     -quantity,
		ChangeType: ChangeSale,
		Reference:  &ref,
	}, nil
}

// NewAdjustmentEntry records a manual stock movement. A positive change
// with no order context is a restock, a negative one an adjustment,
// unless the caller names the type explicitly.
func NewAdjustmentEntry(variantID uuid.UUID, change int, changeType ChangeType, note string, recordedBy *uuid.UUID) (*LedgerEntry, error) {
	if change == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock change cannot be zero")
	}
	if changeType == "" {
		if change > 0 {
			changeType = ChangeRestock
		} else {
			changeType = ChangeAdjustment
		}
	}
	return &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		Change:     change,
		ChangeType: changeType,
		Note:       note,
		RecordedBy: recordedBy,
	}, nil
}
