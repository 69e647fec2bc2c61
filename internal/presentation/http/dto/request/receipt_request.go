package request

import "github.com/google/uuid"

// ReceiptItemRequest represents one line of a receipt mutation
type ReceiptItemRequest struct {
	ProductID       uuid.UUID `json:"product_id" binding:"required"`
	Quantity        float64   `json:"quantity" binding:"required,gt=0"`
	UnitPrice       *float64  `json:"unit_price" binding:"omitempty,min=0"`
	DisplayQuantity *float64  `json:"display_quantity" binding:"omitempty,gt=0"`
	DisplayUnit     *string   `json:"display_unit" binding:"omitempty,max=50"`
}

// CreateReceiptRequest represents a receipt creation request. Type is
// "NORMAL" or "TVA"; omitted, it falls back to the customer's locked type
// or the supplied number's prefix.
type CreateReceiptRequest struct {
	ReceiptNo  string               `json:"receipt_no" binding:"omitempty,max=50"`
	Type       *string              `json:"type" binding:"omitempty,oneof=NORMAL TVA normal tva"`
	CustomerID *uuid.UUID           `json:"customer_id"`
	WalkInName *string              `json:"walk_in_name" binding:"omitempty,max=255"`
	JobSiteID  *uuid.UUID           `json:"job_site_id"`
	AmountPaid *float64             `json:"amount_paid" binding:"omitempty,min=0"`
	IsPaid     bool                 `json:"is_paid"`
	Tehmil     bool                 `json:"tehmil"`
	Tenzil     bool                 `json:"tenzil"`
	Items      []ReceiptItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateReceiptRequest represents a receipt update request. Omitted fields
// are left untouched; a non-null items array replaces the whole item set.
type UpdateReceiptRequest struct {
	WalkInName *string               `json:"walk_in_name" binding:"omitempty,max=255"`
	JobSiteID  *uuid.UUID            `json:"job_site_id"`
	AmountPaid *float64              `json:"amount_paid" binding:"omitempty,min=0"`
	IsPaid     *bool                 `json:"is_paid"`
	Tehmil     *bool                 `json:"tehmil"`
	Tenzil     *bool                 `json:"tenzil"`
	Items      *[]ReceiptItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// OverrideReceiptNumberRequest represents an admin number override
type OverrideReceiptNumberRequest struct {
	ReceiptNo string `json:"receipt_no" binding:"required,max=50"`
}

// ReceiptFilterRequest represents receipt list filter parameters
type ReceiptFilterRequest struct {
	Search     string `form:"search"`
	Type       string `form:"type" binding:"omitempty,oneof=NORMAL TVA normal tva"`
	CustomerID string `form:"customer_id"`
	Unpaid     bool   `form:"unpaid"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
