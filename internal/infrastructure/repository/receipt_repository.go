package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	domainRepo "github.com/BassamAA/mawad-api/internal/domain/repository"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	// Items are inserted separately so the coordinator can verify counts
	return r.db.WithContext(ctx).Omit("Items").Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("JobSite").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("receipt_items.position ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Components").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByNumber(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).First(&receipt, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) LatestByPrefix(ctx context.Context, prefix string, withPrefix bool) (*entity.Receipt, error) {
	var receipt entity.Receipt
	query := r.db.WithContext(ctx).Model(&entity.Receipt{})
	if withPrefix {
		query = query.Where("receipt_no ILIKE ?", prefix+"%")
	} else {
		query = query.Where("receipt_no NOT ILIKE ?", prefix+"%")
	}
	err := query.Order("created_at DESC").First(&receipt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer", "JobSite").Save(receipt).Error
}

func (r *receiptRepository) UpdateNumber(ctx context.Context, id uuid.UUID, receiptNo string) error {
	return r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("id = ?", id).
		Update("receipt_no", receiptNo).Error
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Receipt{}, "id = ?", id).Error
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{})

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ? OR walk_in_name ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Unpaid {
		query = query.Where("is_paid = ?", false)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

func (r *receiptRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("receipt_items.position ASC")
		}).
		Preload("Items.Product").
		Order("created_at ASC").
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) ListAll(ctx context.Context) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) CreateItems(ctx context.Context, items []entity.ReceiptItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Components", "Product").Create(&items).Error
}

func (r *receiptRepository) CountItems(ctx context.Context, receiptID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ReceiptItem{}).
		Where("receipt_id = ?", receiptID).
		Count(&count).Error
	return count, err
}

func (r *receiptRepository) GetItems(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	var items []entity.ReceiptItem
	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Preload("Components").
		Order("position ASC").
		Find(&items).Error
	return items, err
}

func (r *receiptRepository) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.ReceiptItem, error) {
	var item entity.ReceiptItem
	err := r.db.WithContext(ctx).Preload("Components").First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *receiptRepository) UpdateItem(ctx context.Context, item *entity.ReceiptItem) error {
	return r.db.WithContext(ctx).Omit("Components", "Product").Save(item).Error
}

func (r *receiptRepository) DeleteItems(ctx context.Context, receiptID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ReceiptItem{}, "receipt_id = ?", receiptID).Error
}

func (r *receiptRepository) CreateItemComponents(ctx context.Context, components []entity.ReceiptItemComponent) error {
	if len(components) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&components).Error
}

func (r *receiptRepository) DeleteItemComponents(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ReceiptItemComponent{}, "receipt_item_id = ?", itemID).Error
}
