package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a construction material in the catalog. A composite
// product carries a recipe of non-composite components and has no stock of
// its own; a manufactured product carries raw-material ratios consumed by
// the production pathway, not at receipt time.
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name           string         `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Unit           string         `gorm:"size:50;not null" json:"unit"`
	UnitPrice      *float64       `json:"unit_price,omitempty"`
	IsComposite    bool           `gorm:"default:false" json:"is_composite"`
	IsManufactured bool           `gorm:"default:false" json:"is_manufactured"`
	StockQty       float64        `gorm:"default:0" json:"stock_qty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Components []ProductComponent `gorm:"foreignKey:ProductID" json:"components,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ProductComponent declares one component of a composite product's recipe:
// a receipt line for Q units of the parent consumes Ratio*Q of the component.
type ProductComponent struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ComponentProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"component_product_id"`
	Ratio              float64   `gorm:"not null" json:"ratio"`
	Position           int       `gorm:"default:0" json:"position"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relationships
	Product          Product  `gorm:"foreignKey:ProductID" json:"-"`
	ComponentProduct *Product `gorm:"foreignKey:ComponentProductID" json:"component_product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product component
func (pc *ProductComponent) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductComponent model
func (ProductComponent) TableName() string {
	return "product_components"
}
