package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
)

// StockMovementRepository defines the interface for the append-only stock
// movement audit trail
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.StockMovement, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.StockMovement, error)
	// SumByProduct returns the signed sum of all movements for a product
	SumByProduct(ctx context.Context, productID uuid.UUID) (float64, error)
}

// AuditLogRepository defines the interface for the append-only audit sink
type AuditLogRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
}
