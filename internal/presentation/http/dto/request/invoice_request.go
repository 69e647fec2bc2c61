package request

import "github.com/google/uuid"

// PriceOverrideRequest patches one receipt item's unit price before bundling
type PriceOverrideRequest struct {
	ReceiptItemID uuid.UUID `json:"receipt_item_id" binding:"required"`
	UnitPrice     float64   `json:"unit_price" binding:"min=0"`
}

// InvoicePreviewRequest selects the receipts to bundle. Explicit IDs win
// over a target amount, which wins over the include-paid listing.
type InvoicePreviewRequest struct {
	ReceiptIDs     []uuid.UUID            `json:"receipt_ids"`
	TargetAmount   *float64               `json:"target_amount" binding:"omitempty,gt=0"`
	IncludePaid    bool                   `json:"include_paid"`
	PriceOverrides []PriceOverrideRequest `json:"price_overrides" binding:"omitempty,dive"`
	Print          bool                   `json:"print"`
}
