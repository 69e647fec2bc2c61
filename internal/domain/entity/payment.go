package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
)

// Payment is a generic money-movement record. Payments of the receipt and
// customer-payment kinds may be tagged with a receipt directly; deleting a
// receipt detaches its payments instead of deleting them so the payment
// history stays intact.
type Payment struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Type        enum.PaymentType `gorm:"default:0;index" json:"type"`
	Amount      float64          `gorm:"not null" json:"amount"`
	ReceiptID   *uuid.UUID       `gorm:"type:uuid;index" json:"receipt_id,omitempty"`
	CustomerID  *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SupplierRef *string          `gorm:"size:255" json:"supplier_ref,omitempty"`
	Notes       *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Receipt  *Receipt  `gorm:"foreignKey:ReceiptID" json:"-"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// ReceiptPayment allocates part of a payment to a receipt. A single payment
// may be split across several receipts.
type ReceiptPayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID `gorm:"type:uuid;not null;index" json:"receipt_id"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index" json:"payment_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Payment Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new allocation row
func (rp *ReceiptPayment) BeforeCreate(tx *gorm.DB) error {
	if rp.ID == uuid.Nil {
		rp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptPayment model
func (ReceiptPayment) TableName() string {
	return "receipt_payments"
}
