package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products (with components) in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// GetByName matches the product name case-insensitively
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error)
	// ReplaceComponents swaps a composite product's recipe for the given set
	ReplaceComponents(ctx context.Context, productID uuid.UUID, components []entity.ProductComponent) error
	// AdjustStock applies a signed delta to the product's stock quantity
	AdjustStock(ctx context.Context, productID uuid.UUID, delta float64) error
}
