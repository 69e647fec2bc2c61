package request

import "github.com/google/uuid"

// PaymentAllocationRequest assigns part of a payment to one receipt
type PaymentAllocationRequest struct {
	ReceiptID uuid.UUID `json:"receipt_id" binding:"required"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentRequest represents a payment creation request. Type is one
// of RECEIPT, CUSTOMER_PAYMENT, SUPPLIER_PAYMENT or EXPENSE.
type CreatePaymentRequest struct {
	Type        string                     `json:"type" binding:"required"`
	Amount      float64                    `json:"amount" binding:"required,gt=0"`
	ReceiptID   *uuid.UUID                 `json:"receipt_id"`
	CustomerID  *uuid.UUID                 `json:"customer_id"`
	SupplierRef *string                    `json:"supplier_ref" binding:"omitempty,max=255"`
	Notes       *string                    `json:"notes"`
	Allocations []PaymentAllocationRequest `json:"allocations" binding:"omitempty,dive"`
}

// PaymentFilterRequest represents payment list filter parameters
type PaymentFilterRequest struct {
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
