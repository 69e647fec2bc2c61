package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
)

// Customer represents an account customer. ReceiptType, once set, locks the
// customer to that fiscal type for all future receipts.
type Customer struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Phone       *string           `gorm:"size:50" json:"phone,omitempty"`
	Address     *string           `gorm:"type:text" json:"address,omitempty"`
	ReceiptType *enum.ReceiptType `json:"receipt_type,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	JobSites []JobSite `gorm:"foreignKey:CustomerID" json:"job_sites,omitempty"`
	Receipts []Receipt `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// JobSite is a delivery/work location belonging to a customer
type JobSite struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new job site
func (j *JobSite) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the JobSite model
func (JobSite) TableName() string {
	return "job_sites"
}
