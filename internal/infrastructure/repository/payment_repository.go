package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	domainRepo "github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) List(ctx context.Context, params *pagination.PaginationParams, customerID *uuid.UUID) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) SumDirectForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("receipt_id = ? AND type IN ?", receiptID,
			[]enum.PaymentType{enum.PaymentTypeReceipt, enum.PaymentTypeCustomerPayment}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *paymentRepository) DetachFromReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("receipt_id = ?", receiptID).
		Update("receipt_id", nil).Error
}

func (r *paymentRepository) CreateAllocation(ctx context.Context, alloc *entity.ReceiptPayment) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *paymentRepository) SumAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&entity.ReceiptPayment{}).
		Where("receipt_id = ?", receiptID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *paymentRepository) DeleteAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ReceiptPayment{}, "receipt_id = ?", receiptID).Error
}

func (r *paymentRepository) ListAllAllocations(ctx context.Context) ([]entity.ReceiptPayment, error) {
	var allocs []entity.ReceiptPayment
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&allocs).Error
	return allocs, err
}

func (r *paymentRepository) PaymentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
