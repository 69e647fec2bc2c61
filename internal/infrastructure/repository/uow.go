package repository

import (
	"context"

	"gorm.io/gorm"

	domainRepo "github.com/BassamAA/mawad-api/internal/domain/repository"
)

type gormUnitOfWork struct {
	db    *gorm.DB
	store *domainRepo.Store
}

// NewUnitOfWork creates a unit of work over a GORM connection. Do wraps fn
// in one database transaction; the Store it passes to fn is bound to that
// transaction, so every repository call inside fn commits or rolls back
// together.
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &gormUnitOfWork{db: db, store: newStore(db)}
}

func newStore(db *gorm.DB) *domainRepo.Store {
	return &domainRepo.Store{
		Receipts:       NewReceiptRepository(db),
		Products:       NewProductRepository(db),
		Customers:      NewCustomerRepository(db),
		Payments:       NewPaymentRepository(db),
		StockMovements: NewStockMovementRepository(db),
		AuditLogs:      NewAuditLogRepository(db),
		Users:          NewUserRepository(db),
	}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s *domainRepo.Store) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newStore(tx))
	})
}

func (u *gormUnitOfWork) Store() *domainRepo.Store {
	return u.store
}
