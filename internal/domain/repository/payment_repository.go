package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// PaymentRepository defines the interface for payment and allocation data
// operations. Allocation rows live here because they are payment-owned.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	List(ctx context.Context, params *pagination.PaginationParams, customerID *uuid.UUID) ([]entity.Payment, int64, error)
	// SumDirectForReceipt sums receipt-counting payments tagged directly with the receipt
	SumDirectForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error)
	// DetachFromReceipt clears receipt_id on payments linked to the receipt,
	// preserving the payment rows themselves
	DetachFromReceipt(ctx context.Context, receiptID uuid.UUID) error

	// Allocations
	CreateAllocation(ctx context.Context, alloc *entity.ReceiptPayment) error
	SumAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error)
	DeleteAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) error
	// ListAllAllocations returns every allocation row; used by the orphan sweep
	ListAllAllocations(ctx context.Context) ([]entity.ReceiptPayment, error)
	// Exists checks are used by the orphan sweep without loading full rows
	PaymentExists(ctx context.Context, id uuid.UUID) (bool, error)
}
