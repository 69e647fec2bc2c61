package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	domainRepo "github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// memStore is an in-memory stand-in for the database-backed store. It keeps
// the same observable behavior the services rely on: generated IDs, the
// unique receipt number constraint, oldest-first orderings and nil results
// for missing rows.
type memStore struct {
	mu   sync.Mutex
	tick int64

	receipts       map[uuid.UUID]*entity.Receipt
	items          map[uuid.UUID]*entity.ReceiptItem
	itemComponents map[uuid.UUID]*entity.ReceiptItemComponent
	products       map[uuid.UUID]*entity.Product
	customers      map[uuid.UUID]*entity.Customer
	jobSites       map[uuid.UUID]*entity.JobSite
	payments       map[uuid.UUID]*entity.Payment
	allocations    map[uuid.UUID]*entity.ReceiptPayment
	movements      []entity.StockMovement
	audits         []entity.AuditLog
	users          map[uuid.UUID]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		receipts:       make(map[uuid.UUID]*entity.Receipt),
		items:          make(map[uuid.UUID]*entity.ReceiptItem),
		itemComponents: make(map[uuid.UUID]*entity.ReceiptItemComponent),
		products:       make(map[uuid.UUID]*entity.Product),
		customers:      make(map[uuid.UUID]*entity.Customer),
		jobSites:       make(map[uuid.UUID]*entity.JobSite),
		payments:       make(map[uuid.UUID]*entity.Payment),
		allocations:    make(map[uuid.UUID]*entity.ReceiptPayment),
		users:          make(map[uuid.UUID]*entity.User),
	}
}

// next returns a strictly increasing timestamp so creation order is
// recoverable from CreatedAt
func (m *memStore) next() time.Time {
	m.tick++
	return time.Unix(0, m.tick)
}

func (m *memStore) store() *domainRepo.Store {
	return &domainRepo.Store{
		Receipts:       &memReceiptRepo{m},
		Products:       &memProductRepo{m},
		Customers:      &memCustomerRepo{m},
		Payments:       &memPaymentRepo{m},
		StockMovements: &memMovementRepo{m},
		AuditLogs:      &memAuditRepo{m},
		Users:          &memUserRepo{m},
	}
}

// memUnitOfWork satisfies repository.UnitOfWork over the in-memory store.
// Rollback is not simulated; tests assert on failure paths that validate
// before writing.
type memUnitOfWork struct{ m *memStore }

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, s *domainRepo.Store) error) error {
	return fn(ctx, u.m.store())
}

func (u *memUnitOfWork) Store() *domainRepo.Store {
	return u.m.store()
}

func newTestStore() (*memStore, *memUnitOfWork) {
	m := newMemStore()
	return m, &memUnitOfWork{m}
}

// --- receipts ---

type memReceiptRepo struct{ m *memStore }

func (r *memReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.receipts {
		if existing.ReceiptNo == receipt.ReceiptNo {
			return gorm.ErrDuplicatedKey
		}
	}
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	receipt.CreatedAt = r.m.next()
	stored := *receipt
	stored.Items = nil
	r.m.receipts[receipt.ID] = &stored
	return nil
}

func (r *memReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.receipts[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}

func (r *memReceiptRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.receipts[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	copy.Items = r.itemsForLocked(id)
	if copy.CustomerID != nil {
		if customer, ok := r.m.customers[*copy.CustomerID]; ok {
			c := *customer
			copy.Customer = &c
		}
	}
	return &copy, nil
}

func (r *memReceiptRepo) GetByNumber(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, stored := range r.m.receipts {
		if stored.ReceiptNo == receiptNo {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memReceiptRepo) LatestByPrefix(ctx context.Context, prefix string, withPrefix bool) (*entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var latest *entity.Receipt
	for _, stored := range r.m.receipts {
		has := len(stored.ReceiptNo) >= len(prefix) &&
			strings.EqualFold(stored.ReceiptNo[:len(prefix)], prefix)
		if has != withPrefix {
			continue
		}
		if latest == nil || stored.CreatedAt.After(latest.CreatedAt) {
			latest = stored
		}
	}
	if latest == nil {
		return nil, nil
	}
	copy := *latest
	return &copy, nil
}

func (r *memReceiptRepo) Update(ctx context.Context, receipt *entity.Receipt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.receipts[receipt.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *receipt
	updated.Items = nil
	updated.CreatedAt = stored.CreatedAt
	r.m.receipts[receipt.ID] = &updated
	return nil
}

func (r *memReceiptRepo) UpdateNumber(ctx context.Context, id uuid.UUID, receiptNo string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.receipts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.ReceiptNo = receiptNo
	return nil
}

func (r *memReceiptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.receipts, id)
	return nil
}

func (r *memReceiptRepo) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.Receipt, 0)
	for _, stored := range r.m.receipts {
		if params.CustomerID != nil && (stored.CustomerID == nil || *stored.CustomerID != *params.CustomerID) {
			continue
		}
		if params.Type != nil && stored.Type != *params.Type {
			continue
		}
		if params.Unpaid && stored.IsPaid {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, int64(len(matched)), nil
}

func (r *memReceiptRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.Receipt, 0)
	for _, stored := range r.m.receipts {
		if stored.CustomerID == nil || *stored.CustomerID != customerID {
			continue
		}
		copy := *stored
		copy.Items = r.itemsForLocked(stored.ID)
		matched = append(matched, copy)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *memReceiptRepo) ListAll(ctx context.Context) ([]entity.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	all := make([]entity.Receipt, 0, len(r.m.receipts))
	for _, stored := range r.m.receipts {
		all = append(all, *stored)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (r *memReceiptRepo) CreateItems(ctx context.Context, items []entity.ReceiptItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = r.m.next()
		stored := items[i]
		stored.Components = nil
		r.m.items[stored.ID] = &stored
	}
	return nil
}

func (r *memReceiptRepo) CountItems(ctx context.Context, receiptID uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, item := range r.m.items {
		if item.ReceiptID == receiptID {
			count++
		}
	}
	return count, nil
}

func (r *memReceiptRepo) GetItems(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.itemsForLocked(receiptID), nil
}

func (r *memReceiptRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*entity.ReceiptItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.items[itemID]
	if !ok {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}

func (r *memReceiptRepo) UpdateItem(ctx context.Context, item *entity.ReceiptItem) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.items[item.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *item
	updated.Components = nil
	updated.CreatedAt = stored.CreatedAt
	r.m.items[item.ID] = &updated
	return nil
}

func (r *memReceiptRepo) DeleteItems(ctx context.Context, receiptID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, item := range r.m.items {
		if item.ReceiptID == receiptID {
			delete(r.m.items, id)
		}
	}
	return nil
}

func (r *memReceiptRepo) CreateItemComponents(ctx context.Context, components []entity.ReceiptItemComponent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range components {
		if components[i].ID == uuid.Nil {
			components[i].ID = uuid.New()
		}
		components[i].CreatedAt = r.m.next()
		stored := components[i]
		r.m.itemComponents[stored.ID] = &stored
	}
	return nil
}

func (r *memReceiptRepo) DeleteItemComponents(ctx context.Context, itemID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, usage := range r.m.itemComponents {
		if usage.ReceiptItemID == itemID {
			delete(r.m.itemComponents, id)
		}
	}
	return nil
}

// itemsForLocked assembles a receipt's items with usage records, sorted by
// position. Caller holds the lock.
func (r *memReceiptRepo) itemsForLocked(receiptID uuid.UUID) []entity.ReceiptItem {
	items := make([]entity.ReceiptItem, 0)
	for _, item := range r.m.items {
		if item.ReceiptID != receiptID {
			continue
		}
		copy := *item
		for _, usage := range r.m.itemComponents {
			if usage.ReceiptItemID == item.ID {
				copy.Components = append(copy.Components, *usage)
			}
		}
		items = append(items, copy)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
	return items
}

// --- products ---

type memProductRepo struct{ m *memStore }

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	for i := range product.Components {
		if product.Components[i].ID == uuid.Nil {
			product.Components[i].ID = uuid.New()
		}
		product.Components[i].ProductID = product.ID
	}
	product.CreatedAt = r.m.next()
	stored := *product
	stored.Components = append([]entity.ProductComponent(nil), product.Components...)
	r.m.products[product.ID] = &stored
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.copyLocked(id), nil
}

func (r *memProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	products := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if copy := r.copyLocked(id); copy != nil {
			products = append(products, *copy)
		}
	}
	return products, nil
}

func (r *memProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, stored := range r.m.products {
		if strings.EqualFold(stored.Name, name) {
			return r.copyLocked(id), nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *product
	updated.CreatedAt = stored.CreatedAt
	updated.Components = stored.Components
	r.m.products[product.ID] = &updated
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.products, id)
	return nil
}

func (r *memProductRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Product, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.Product, 0)
	for id, stored := range r.m.products {
		if search != "" && !strings.Contains(strings.ToLower(stored.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *r.copyLocked(id))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, int64(len(matched)), nil
}

func (r *memProductRepo) ReplaceComponents(ctx context.Context, productID uuid.UUID, components []entity.ProductComponent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	replaced := make([]entity.ProductComponent, len(components))
	for i := range components {
		replaced[i] = components[i]
		if replaced[i].ID == uuid.Nil {
			replaced[i].ID = uuid.New()
		}
		replaced[i].ProductID = productID
	}
	stored.Components = replaced
	return nil
}

func (r *memProductRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta float64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.StockQty += delta
	return nil
}

func (r *memProductRepo) copyLocked(id uuid.UUID) *entity.Product {
	stored, ok := r.m.products[id]
	if !ok {
		return nil
	}
	copy := *stored
	copy.Components = append([]entity.ProductComponent(nil), stored.Components...)
	sort.Slice(copy.Components, func(i, j int) bool {
		return copy.Components[i].Position < copy.Components[j].Position
	})
	return &copy
}

// --- customers ---

type memCustomerRepo struct{ m *memStore }

func (r *memCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = r.m.next()
	stored := *customer
	r.m.customers[customer.ID] = &stored
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.customers[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	for _, site := range r.m.jobSites {
		if site.CustomerID == id {
			copy.JobSites = append(copy.JobSites, *site)
		}
	}
	return &copy, nil
}

func (r *memCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.customers[customer.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *customer
	updated.JobSites = nil
	updated.CreatedAt = stored.CreatedAt
	r.m.customers[customer.ID] = &updated
	return nil
}

func (r *memCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.customers, id)
	return nil
}

func (r *memCustomerRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.Customer, 0)
	for _, stored := range r.m.customers {
		if search != "" && !strings.Contains(strings.ToLower(stored.Name), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, int64(len(matched)), nil
}

func (r *memCustomerRepo) GetJobSite(ctx context.Context, id uuid.UUID) (*entity.JobSite, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.jobSites[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}

func (r *memCustomerRepo) CreateJobSite(ctx context.Context, site *entity.JobSite) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	site.CreatedAt = r.m.next()
	stored := *site
	r.m.jobSites[site.ID] = &stored
	return nil
}

func (r *memCustomerRepo) DeleteJobSite(ctx context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.jobSites, id)
	return nil
}

// --- payments ---

type memPaymentRepo struct{ m *memStore }

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = r.m.next()
	stored := *payment
	r.m.payments[payment.ID] = &stored
	return nil
}

func (r *memPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.payments[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}

func (r *memPaymentRepo) List(ctx context.Context, params *pagination.PaginationParams, customerID *uuid.UUID) ([]entity.Payment, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.Payment, 0)
	for _, stored := range r.m.payments {
		if customerID != nil && (stored.CustomerID == nil || *stored.CustomerID != *customerID) {
			continue
		}
		matched = append(matched, *stored)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, int64(len(matched)), nil
}

func (r *memPaymentRepo) SumDirectForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sum := 0.0
	for _, stored := range r.m.payments {
		if stored.ReceiptID == nil || *stored.ReceiptID != receiptID {
			continue
		}
		if stored.Type != enum.PaymentTypeReceipt && stored.Type != enum.PaymentTypeCustomerPayment {
			continue
		}
		sum += stored.Amount
	}
	return sum, nil
}

func (r *memPaymentRepo) DetachFromReceipt(ctx context.Context, receiptID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, stored := range r.m.payments {
		if stored.ReceiptID != nil && *stored.ReceiptID == receiptID {
			stored.ReceiptID = nil
		}
	}
	return nil
}

func (r *memPaymentRepo) CreateAllocation(ctx context.Context, alloc *entity.ReceiptPayment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if alloc.ID == uuid.Nil {
		alloc.ID = uuid.New()
	}
	alloc.CreatedAt = r.m.next()
	stored := *alloc
	r.m.allocations[alloc.ID] = &stored
	return nil
}

func (r *memPaymentRepo) SumAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) (float64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sum := 0.0
	for _, stored := range r.m.allocations {
		if stored.ReceiptID == receiptID {
			sum += stored.Amount
		}
	}
	return sum, nil
}

func (r *memPaymentRepo) DeleteAllocationsForReceipt(ctx context.Context, receiptID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, stored := range r.m.allocations {
		if stored.ReceiptID == receiptID {
			delete(r.m.allocations, id)
		}
	}
	return nil
}

func (r *memPaymentRepo) ListAllAllocations(ctx context.Context) ([]entity.ReceiptPayment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	all := make([]entity.ReceiptPayment, 0, len(r.m.allocations))
	for _, stored := range r.m.allocations {
		all = append(all, *stored)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (r *memPaymentRepo) PaymentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.payments[id]
	return ok, nil
}

// --- stock movements ---

type memMovementRepo struct{ m *memStore }

func (r *memMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	movement.CreatedAt = r.m.next()
	r.m.movements = append(r.m.movements, *movement)
	return nil
}

func (r *memMovementRepo) ListByReceipt(ctx context.Context, receiptID uuid.UUID) ([]entity.StockMovement, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.StockMovement, 0)
	for _, movement := range r.m.movements {
		if movement.ReceiptID != nil && *movement.ReceiptID == receiptID {
			matched = append(matched, movement)
		}
	}
	return matched, nil
}

func (r *memMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]entity.StockMovement, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	matched := make([]entity.StockMovement, 0)
	for _, movement := range r.m.movements {
		if movement.ProductID == productID {
			matched = append(matched, movement)
		}
	}
	return matched, nil
}

func (r *memMovementRepo) SumByProduct(ctx context.Context, productID uuid.UUID) (float64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sum := 0.0
	for _, movement := range r.m.movements {
		if movement.ProductID == productID {
			sum += movement.Quantity
		}
	}
	return sum, nil
}

// --- audit logs ---

type memAuditRepo struct{ m *memStore }

func (r *memAuditRepo) Create(ctx context.Context, entry *entity.AuditLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = r.m.next()
	r.m.audits = append(r.m.audits, *entry)
	return nil
}

// --- users ---

type memUserRepo struct{ m *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.m.next()
	stored := *user
	r.m.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	copy := *stored
	return &copy, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, stored := range r.m.users {
		if strings.EqualFold(stored.Email, email) {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.users[user.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	updated := *user
	updated.CreatedAt = stored.CreatedAt
	r.m.users[user.ID] = &updated
	return nil
}

// --- shared fixtures ---

func ptrFloat(v float64) *float64 { return &v }
func ptrString(v string) *string  { return &v }
func ptrType(t enum.ReceiptType) *enum.ReceiptType {
	return &t
}

func seedProduct(m *memStore, name string, stock float64, price *float64) *entity.Product {
	product := &entity.Product{Name: name, Unit: "pcs", UnitPrice: price, StockQty: stock}
	_ = (&memProductRepo{m}).Create(context.Background(), product)
	return product
}

func seedCustomer(m *memStore, name string, receiptType *enum.ReceiptType) *entity.Customer {
	customer := &entity.Customer{Name: name, ReceiptType: receiptType}
	_ = (&memCustomerRepo{m}).Create(context.Background(), customer)
	return customer
}

func seedReceipt(m *memStore, no string, receiptType enum.ReceiptType, customerID *uuid.UUID, total float64) *entity.Receipt {
	receipt := &entity.Receipt{
		ReceiptNo:  no,
		Type:       receiptType,
		CustomerID: customerID,
		Total:      total,
	}
	if customerID == nil {
		receipt.WalkInName = ptrString("walk-in")
	}
	_ = (&memReceiptRepo{m}).Create(context.Background(), receipt)
	return receipt
}
