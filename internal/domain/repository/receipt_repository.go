package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// ReceiptRepository defines the interface for receipt data operations.
// Items and their composite usage records are managed through the same
// repository because their lifecycles are owned by the receipt.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	// GetWithItems retrieves a receipt with items, usage records and customer preloaded
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByNumber(ctx context.Context, receiptNo string) (*entity.Receipt, error)
	// LatestByPrefix returns the most recently created receipt whose number
	// starts with prefix (withPrefix) or explicitly does not (withPrefix=false).
	// Matching is case-insensitive. Returns nil when no such receipt exists.
	LatestByPrefix(ctx context.Context, prefix string, withPrefix bool) (*entity.Receipt, error)
	Update(ctx context.Context, receipt *entity.Receipt) error
	UpdateNumber(ctx context.Context, id uuid.UUID, receiptNo string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// ListByCustomer returns the customer's receipts oldest-first, items preloaded
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Receipt, error)
	// ListAll returns every receipt; used by the reconciliation sweep
	ListAll(ctx context.Context) ([]entity.Receipt, error)

	// Items
	CreateItems(ctx context.Context, items []entity.ReceiptItem) error
	CountItems(ctx context.Context, receiptID uuid.UUID) (int64, error)
	GetItems(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*entity.ReceiptItem, error)
	UpdateItem(ctx context.Context, item *entity.ReceiptItem) error
	DeleteItems(ctx context.Context, receiptID uuid.UUID) error

	// Composite usage records
	CreateItemComponents(ctx context.Context, components []entity.ReceiptItemComponent) error
	DeleteItemComponents(ctx context.Context, itemID uuid.UUID) error
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       *enum.ReceiptType
	CustomerID *uuid.UUID
	Unpaid     bool
	StartDate  *time.Time
	EndDate    *time.Time
}
