package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
)

// StockMovement is an append-only signed quantity change against a product.
// A product's stock quantity is conceptually the running sum of its movements.
type StockMovement struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  float64           `gorm:"not null" json:"quantity"`
	Kind      enum.MovementKind `gorm:"default:0;index" json:"kind"`
	ReceiptID *uuid.UUID        `gorm:"type:uuid;index" json:"receipt_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`

	// Relationships
	Product Product  `gorm:"foreignKey:ProductID" json:"-"`
	Receipt *Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock movement
func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockMovement model
func (StockMovement) TableName() string {
	return "stock_movements"
}
