package repository

import "context"

// Store bundles the repositories bound to one database handle. Inside a
// unit of work every repository operates on the same transaction, so a
// multi-entity mutation commits or rolls back as a whole.
type Store struct {
	Receipts       ReceiptRepository
	Products       ProductRepository
	Customers      CustomerRepository
	Payments       PaymentRepository
	StockMovements StockMovementRepository
	AuditLogs      AuditLogRepository
	Users          UserRepository
}

// UnitOfWork runs a function against a transaction-scoped Store. If fn
// returns an error the transaction rolls back wholesale; no partial writes
// survive.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, s *Store) error) error
	// Store returns a non-transactional store for plain reads
	Store() *Store
}
