package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
)

// Receipt represents a sales receipt. Exactly one of CustomerID or
// WalkInName is set. Receipt numbers are unique and sequence-governed per
// type; TVA numbers carry the reserved prefix.
type Receipt struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo  string           `gorm:"size:50;not null;uniqueIndex" json:"receipt_no"`
	Type       enum.ReceiptType `gorm:"default:0;index" json:"type"`
	CustomerID *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	WalkInName *string          `gorm:"size:255" json:"walk_in_name,omitempty"`
	JobSiteID  *uuid.UUID       `gorm:"type:uuid;index" json:"job_site_id,omitempty"`
	Total      float64          `gorm:"default:0" json:"total"`
	AmountPaid float64          `gorm:"default:0" json:"amount_paid"`
	IsPaid     bool             `gorm:"default:false" json:"is_paid"`
	Tehmil     bool             `gorm:"default:false" json:"tehmil"`
	Tenzil     bool             `gorm:"default:false" json:"tenzil"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	JobSite  *JobSite      `gorm:"foreignKey:JobSiteID" json:"job_site,omitempty"`
	Items    []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// Outstanding returns the unpaid remainder of the receipt total
func (r *Receipt) Outstanding() float64 {
	out := r.Total - r.AmountPaid
	if out < 0 {
		return 0
	}
	return out
}

// ReceiptItem is a line item on a receipt. A nil UnitPrice means the line
// is still awaiting pricing and contributes 0 to the pre-tax sum.
// DisplayQuantity/DisplayUnit are presentation-only and have no ledger effect.
type ReceiptItem struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID       uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity        float64   `gorm:"not null" json:"quantity"`
	UnitPrice       *float64  `json:"unit_price,omitempty"`
	Subtotal        *float64  `json:"subtotal,omitempty"`
	DisplayQuantity *float64  `json:"display_quantity,omitempty"`
	DisplayUnit     *string   `gorm:"size:50" json:"display_unit,omitempty"`
	Position        int       `gorm:"default:0" json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relationships
	Receipt    Receipt                `gorm:"foreignKey:ReceiptID" json:"-"`
	Product    *Product               `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Components []ReceiptItemComponent `gorm:"foreignKey:ReceiptItemID" json:"components,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt item
func (ri *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// Priced reports whether the line has a unit price assigned
func (ri *ReceiptItem) Priced() bool {
	return ri.UnitPrice != nil
}

// ReceiptItemComponent records the exact component quantity consumed when a
// composite item was posted, so the posting can be reversed literally rather
// than recomputed from the product's current recipe.
type ReceiptItemComponent struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_item_id"`
	ComponentProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"component_product_id"`
	Quantity           float64   `gorm:"not null" json:"quantity"`
	CreatedAt          time.Time `json:"created_at"`

	// Relationships
	ReceiptItem      ReceiptItem `gorm:"foreignKey:ReceiptItemID" json:"-"`
	ComponentProduct *Product    `gorm:"foreignKey:ComponentProductID" json:"component_product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new usage record
func (rc *ReceiptItemComponent) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItemComponent model
func (ReceiptItemComponent) TableName() string {
	return "receipt_item_components"
}
