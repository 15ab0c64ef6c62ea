package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiylo/backend/internal/domain/catalog"
	"github.com/kiylo/backend/internal/domain/inventory"
)

// AdjustStockRequest represents a manual stock movement for a variant
type AdjustStockRequest struct {
	Change     int    `json:"change" binding:"required"`
	ChangeType string `json:"change_type" binding:"omitempty,oneof=restock sale return adjustment"`
	Note       string `json:"note"`
}

// AdjustStockResponse reports the variant's stock after the adjustment
type AdjustStockResponse struct {
	VariantID     uuid.UUID `json:"variant_id"`
	SKU           string    `json:"sku"`
	Change        int       `json:"change"`
	StockQuantity int       `json:"stock_quantity"`
	LedgerEntryID uuid.UUID `json:"ledger_entry_id"`
}

// LedgerEntryResponse represents an inventory movement in API responses
type LedgerEntryResponse struct {
	ID         uuid.UUID  `json:"id"`
	VariantID  uuid.UUID  `json:"variant_id"`
	Change     int        `json:"change"`
	ChangeType string     `json:"change_type"`
	Reference  *uuid.UUID `json:"reference,omitempty"`
	Note       string     `json:"note,omitempty"`
	RecordedBy *uuid.UUID `json:"recorded_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LowStockVariantResponse represents a variant at or below its reorder threshold
type LowStockVariantResponse struct {
	VariantID        uuid.UUID `json:"variant_id"`
	ProductID        uuid.UUID `json:"product_id"`
	SKU              string    `json:"sku"`
	StockQuantity    int       `json:"stock_quantity"`
	ReorderThreshold int       `json:"reorder_threshold"`
}

// HistoryFilter represents filter options for ledger queries
type HistoryFilter struct {
	ChangeType string `form:"change_type" binding:"omitempty,oneof=restock sale return adjustment"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLedgerEntryResponse converts a ledger entry to a response DTO
func ToLedgerEntryResponse(e *inventory.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:         e.ID,
		VariantID:  e.VariantID,
		Change:     e.Change,
		ChangeType: string(e.ChangeType),
		Reference:  e.Reference,
		Note:       e.Note,
		RecordedBy: e.RecordedBy,
		CreatedAt:  e.CreatedAt,
	}
}

// ToLowStockVariantResponse converts a variant to a low stock report row
func ToLowStockVariantResponse(v *catalog.Variant) LowStockVariantResponse {
	return LowStockVariantResponse{
		VariantID:        v.ID,
		ProductID:        v.ProductID,
		SKU:              v.SKU,
		StockQuantity:    v.StockQuantity,
		ReorderThreshold: v.ReorderThreshold,
	}
}
