package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
	"github.com/BassamAA/mawad-api/pkg/money"
)

// maxSequenceRetries bounds the create retry loop when a concurrent writer
// claims the computed receipt number first
const maxSequenceRetries = 5

// ReceiptService coordinates atomic receipt mutation: number sequencing,
// item persistence and stock/composite posting all commit or roll back as
// one transaction.
type ReceiptService struct {
	uow     repository.UnitOfWork
	seq     *SequenceService
	stock   *StockService
	tvaRate float64
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	uow repository.UnitOfWork,
	seq *SequenceService,
	stock *StockService,
	tvaRate float64,
) *ReceiptService {
	return &ReceiptService{
		uow:     uow,
		seq:     seq,
		stock:   stock,
		tvaRate: tvaRate,
	}
}

// ReceiptItemInput is one line of a receipt mutation
type ReceiptItemInput struct {
	ProductID       uuid.UUID
	Quantity        float64
	UnitPrice       *float64
	DisplayQuantity *float64
	DisplayUnit     *string
}

// CreateReceiptInput is the input for receipt creation
type CreateReceiptInput struct {
	ReceiptNo  string
	Type       *enum.ReceiptType
	CustomerID *uuid.UUID
	WalkInName *string
	JobSiteID  *uuid.UUID
	AmountPaid *float64
	IsPaid     bool
	Tehmil     bool
	Tenzil     bool
	Items      []ReceiptItemInput
}

// UpdateReceiptInput is the input for receipt update. Nil fields are left
// untouched; a non-nil Items slice replaces the whole item set.
type UpdateReceiptInput struct {
	WalkInName *string
	JobSiteID  *uuid.UUID
	AmountPaid *float64
	IsPaid     *bool
	Tehmil     *bool
	Tenzil     *bool
	Items      *[]ReceiptItemInput
}

// Create validates the input, resolves the receipt number and type, and
// persists the receipt with its items and stock effects in one transaction.
// When no explicit number was supplied, a duplicate-number race retries the
// whole transaction with a freshly computed number.
func (s *ReceiptService) Create(ctx context.Context, actorID *uuid.UUID, input *CreateReceiptInput) (*entity.Receipt, error) {
	walkInName, err := normalizeParty(input.CustomerID, input.WalkInName)
	if err != nil {
		return nil, err
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	providedNo := strings.TrimSpace(input.ReceiptNo)

	store := s.uow.Store()
	customer, err := s.resolveCustomer(ctx, store, input.CustomerID, input.JobSiteID)
	if err != nil {
		return nil, err
	}

	receiptType, err := s.resolveType(input.Type, customer, providedNo)
	if err != nil {
		return nil, err
	}

	products, err := s.loadProducts(ctx, store, input.Items)
	if err != nil {
		return nil, err
	}

	total := s.computeTotal(receiptType, input.Items)

	if input.IsPaid {
		for _, item := range input.Items {
			if item.UnitPrice == nil {
				return nil, apperror.NewBadRequestError("Cannot mark a receipt paid while items are still unpriced")
			}
		}
	}
	amountPaid := 0.0
	if input.IsPaid {
		amountPaid = total
	} else if input.AmountPaid != nil {
		amountPaid = *input.AmountPaid
		if amountPaid < 0 {
			return nil, apperror.NewBadRequestError("Amount paid cannot be negative")
		}
		if amountPaid > total {
			amountPaid = total
		}
	}
	isPaid := money.GTE(amountPaid, total)
	if !isPaid && input.CustomerID == nil {
		return nil, apperror.NewBadRequestError("Walk-in receipts must be paid in full; credit requires a customer account")
	}

	var created *entity.Receipt
	attempts := 1
	if providedNo == "" {
		attempts = maxSequenceRetries
	}
	for attempt := 0; attempt < attempts; attempt++ {
		created = nil
		err = s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
			receiptNo, err := s.seq.Require(ctx, store, receiptType, providedNo)
			if err != nil {
				return err
			}

			receipt := &entity.Receipt{
				ReceiptNo:  receiptNo,
				Type:       receiptType,
				CustomerID: input.CustomerID,
				WalkInName: walkInName,
				JobSiteID:  input.JobSiteID,
				Total:      total,
				AmountPaid: amountPaid,
				IsPaid:     isPaid,
				Tehmil:     input.Tehmil,
				Tenzil:     input.Tenzil,
			}
			if err := store.Receipts.Create(ctx, receipt); err != nil {
				return err
			}
			if err := s.insertItems(ctx, store, receipt.ID, input.Items, products); err != nil {
				return err
			}
			created = receipt
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if providedNo != "" {
				next, nerr := s.seq.NextNumber(ctx, s.uow.Store(), receiptType)
				if nerr != nil {
					return nil, nerr
				}
				return nil, apperror.NewSequenceConflictError(
					fmt.Sprintf("Receipt number %s already exists", providedNo), next)
			}
			continue
		}
		return nil, err
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("Could not assign a receipt number, please retry")
		}
		return nil, err
	}

	s.audit(ctx, actorID, "receipt.create", created.ID,
		fmt.Sprintf("Created receipt %s with %d items", created.ReceiptNo, len(input.Items)))

	return s.uow.Store().Receipts.GetWithItems(ctx, created.ID)
}

// Update patches receipt fields and optionally replaces the whole item set
// (reversing then reposting stock effects). amountPaid is recomputed as the
// larger of the caller's value, the allocation sum and the prior stored
// value, clamped to the new total; setting it below the allocated sum is an
// invariant violation.
func (s *ReceiptService) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, input *UpdateReceiptInput) (*entity.Receipt, error) {
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		receipt, err := store.Receipts.GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}

		if input.Items != nil {
			for i := range receipt.Items {
				if err := s.stock.ReverseItem(ctx, store, &receipt.Items[i]); err != nil {
					return err
				}
			}
			if err := store.Receipts.DeleteItems(ctx, receipt.ID); err != nil {
				return err
			}

			products, err := s.loadProducts(ctx, store, *input.Items)
			if err != nil {
				return err
			}
			if err := s.insertItems(ctx, store, receipt.ID, *input.Items, products); err != nil {
				return err
			}
			receipt.Total = s.computeTotal(receipt.Type, *input.Items)
		}

		if input.WalkInName != nil {
			if receipt.CustomerID != nil {
				return apperror.NewBadRequestError("Cannot set a walk-in name on a customer receipt")
			}
			trimmed := strings.TrimSpace(*input.WalkInName)
			if trimmed == "" {
				return apperror.NewBadRequestError("Walk-in name cannot be empty")
			}
			receipt.WalkInName = &trimmed
		}
		if input.JobSiteID != nil {
			if receipt.CustomerID == nil {
				return apperror.NewBadRequestError("Job sites apply to customer receipts only")
			}
			site, err := store.Customers.GetJobSite(ctx, *input.JobSiteID)
			if err != nil {
				return err
			}
			if site == nil || site.CustomerID != *receipt.CustomerID {
				return apperror.NewBadRequestError("Job site does not belong to the receipt's customer")
			}
			receipt.JobSiteID = input.JobSiteID
		}
		if input.Tehmil != nil {
			receipt.Tehmil = *input.Tehmil
		}
		if input.Tenzil != nil {
			receipt.Tenzil = *input.Tenzil
		}

		allocated, err := store.Payments.SumAllocationsForReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}

		paid := receipt.AmountPaid
		if input.AmountPaid != nil {
			if *input.AmountPaid < allocated && !money.Eq(*input.AmountPaid, allocated) {
				return apperror.NewBadRequestError(
					fmt.Sprintf("Amount paid cannot be below the %.2f already allocated to this receipt", allocated))
			}
			// Recorded payments never shrink: the prior stored value stays
			// the floor even when the caller sends a lower figure.
			if *input.AmountPaid > paid {
				paid = *input.AmountPaid
			}
		}
		if allocated > paid {
			paid = allocated
		}
		if input.IsPaid != nil && *input.IsPaid {
			paid = receipt.Total
		}
		if paid > receipt.Total {
			paid = receipt.Total
		}
		receipt.AmountPaid = paid
		receipt.IsPaid = money.GTE(paid, receipt.Total)

		return store.Receipts.Update(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "receipt.update", id, "Updated receipt")

	return s.uow.Store().Receipts.GetWithItems(ctx, id)
}

// Delete reverses all stock and composite effects, detaches generic
// payments, removes allocation rows and items, then deletes the receipt
func (s *ReceiptService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	var receiptNo string
	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		receipt, err := store.Receipts.GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		receiptNo = receipt.ReceiptNo

		for i := range receipt.Items {
			if err := s.stock.ReverseItem(ctx, store, &receipt.Items[i]); err != nil {
				return err
			}
		}
		if err := store.Receipts.DeleteItems(ctx, receipt.ID); err != nil {
			return err
		}
		// payments survive the receipt; only the link is cleared
		if err := store.Payments.DetachFromReceipt(ctx, receipt.ID); err != nil {
			return err
		}
		if err := store.Payments.DeleteAllocationsForReceipt(ctx, receipt.ID); err != nil {
			return err
		}
		return store.Receipts.Delete(ctx, receipt.ID)
	})
	if err != nil {
		return err
	}

	s.audit(ctx, actorID, "receipt.delete", id, fmt.Sprintf("Deleted receipt %s", receiptNo))
	return nil
}

// OverrideNumber replaces a stored receipt number outside the sequence
// rules. Admin-only at the HTTP layer; the prefix must still agree with the
// receipt's type.
func (s *ReceiptService) OverrideNumber(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, receiptNo string) (*entity.Receipt, error) {
	receiptNo = strings.TrimSpace(receiptNo)
	if receiptNo == "" {
		return nil, apperror.NewBadRequestError("Receipt number is required")
	}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		receipt, err := store.Receipts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if receipt == nil {
			return apperror.NewNotFoundError("Receipt")
		}
		if s.seq.TypeForNumber(receiptNo) != receipt.Type {
			return apperror.NewBadRequestError(
				fmt.Sprintf("Number %s does not match the receipt's %s type", receiptNo, receipt.Type))
		}
		existing, err := store.Receipts.GetByNumber(ctx, receiptNo)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return apperror.NewConflictError(fmt.Sprintf("Receipt number %s is already in use", receiptNo))
		}
		return store.Receipts.UpdateNumber(ctx, id, receiptNo)
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "receipt.override_number", id,
		fmt.Sprintf("Receipt number overridden to %s", receiptNo))

	return s.uow.Store().Receipts.GetWithItems(ctx, id)
}

// NextNumbers returns the preview pair for both sequences
func (s *ReceiptService) NextNumbers(ctx context.Context) (normal, tva string, err error) {
	return s.seq.NextNumbers(ctx, s.uow.Store())
}

// GetByID retrieves a receipt with items, usage records and customer
func (s *ReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.uow.Store().Receipts.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// List retrieves receipts with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	return s.uow.Store().Receipts.List(ctx, params)
}

// Movements returns the stock movement trail a receipt produced
func (s *ReceiptService) Movements(ctx context.Context, id uuid.UUID) ([]entity.StockMovement, error) {
	store := s.uow.Store()
	receipt, err := store.Receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return store.StockMovements.ListByReceipt(ctx, id)
}

func (s *ReceiptService) resolveCustomer(ctx context.Context, store *repository.Store, customerID, jobSiteID *uuid.UUID) (*entity.Customer, error) {
	if customerID == nil {
		if jobSiteID != nil {
			return nil, apperror.NewBadRequestError("Job sites apply to customer receipts only")
		}
		return nil, nil
	}
	customer, err := store.Customers.GetByID(ctx, *customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if jobSiteID != nil {
		site, err := store.Customers.GetJobSite(ctx, *jobSiteID)
		if err != nil {
			return nil, err
		}
		if site == nil || site.CustomerID != customer.ID {
			return nil, apperror.NewBadRequestError("Job site does not belong to the chosen customer")
		}
	}
	return customer, nil
}

// resolveType picks the receipt type from the explicit input, the
// customer's locked type and the provided number's prefix, rejecting any
// disagreement between them
func (s *ReceiptService) resolveType(explicit *enum.ReceiptType, customer *entity.Customer, providedNo string) (enum.ReceiptType, error) {
	var locked *enum.ReceiptType
	if customer != nil {
		locked = customer.ReceiptType
	}

	if locked != nil && explicit != nil && *explicit != *locked {
		return 0, apperror.NewBadRequestError(
			fmt.Sprintf("Customer is locked to %s receipts", *locked))
	}
	if providedNo != "" {
		implied := s.seq.TypeForNumber(providedNo)
		if locked != nil && implied != *locked {
			return 0, apperror.NewBadRequestError(
				fmt.Sprintf("Receipt number %s implies %s but the customer is locked to %s", providedNo, implied, *locked))
		}
		if explicit != nil && implied != *explicit {
			return 0, apperror.NewBadRequestError(
				fmt.Sprintf("Receipt number %s does not match the %s type", providedNo, *explicit))
		}
		return implied, nil
	}
	if explicit != nil {
		return *explicit, nil
	}
	if locked != nil {
		return *locked, nil
	}
	return enum.ReceiptTypeNormal, nil
}

// computeTotal sums the priced lines and applies the TVA rate for TVA
// receipts, rounded to 2 decimals. Unpriced lines contribute 0.
func (s *ReceiptService) computeTotal(receiptType enum.ReceiptType, items []ReceiptItemInput) float64 {
	sum := 0.0
	for _, item := range items {
		if item.UnitPrice != nil {
			sum += item.Quantity * *item.UnitPrice
		}
	}
	if receiptType == enum.ReceiptTypeTVA {
		return money.Round2(sum * (1 + s.tvaRate))
	}
	return money.Round2(sum)
}

func (s *ReceiptService) loadProducts(ctx context.Context, store *repository.Store, items []ReceiptItemInput) (map[uuid.UUID]*entity.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	products, err := store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, item := range items {
		if _, ok := byID[item.ProductID]; !ok {
			return nil, apperror.NewNotFoundError("Product")
		}
	}
	return byID, nil
}

// insertItems persists the item rows, verifies the persisted count matches
// the submitted count and posts each item's stock effects. Runs inside the
// caller's transaction.
func (s *ReceiptService) insertItems(ctx context.Context, store *repository.Store, receiptID uuid.UUID, inputs []ReceiptItemInput, products map[uuid.UUID]*entity.Product) error {
	items := make([]entity.ReceiptItem, 0, len(inputs))
	for i, input := range inputs {
		item := entity.ReceiptItem{
			ReceiptID:       receiptID,
			ProductID:       input.ProductID,
			Quantity:        input.Quantity,
			UnitPrice:       input.UnitPrice,
			DisplayQuantity: input.DisplayQuantity,
			DisplayUnit:     input.DisplayUnit,
			Position:        i,
		}
		if input.UnitPrice != nil {
			subtotal := input.Quantity * *input.UnitPrice
			item.Subtotal = &subtotal
		}
		items = append(items, item)
	}
	if err := store.Receipts.CreateItems(ctx, items); err != nil {
		return err
	}

	count, err := store.Receipts.CountItems(ctx, receiptID)
	if err != nil {
		return err
	}
	if count != int64(len(inputs)) {
		return apperror.NewAppError(http.StatusInternalServerError,
			fmt.Sprintf("Item count mismatch: submitted %d, persisted %d", len(inputs), count))
	}

	for i := range items {
		if err := s.stock.PostItem(ctx, store, &items[i], products[items[i].ProductID]); err != nil {
			return err
		}
	}
	return nil
}

// audit writes a fire-and-forget entry; failures are ignored so a logging
// problem never undoes a committed mutation
func (s *ReceiptService) audit(ctx context.Context, actorID *uuid.UUID, action string, entityID uuid.UUID, details string) {
	_ = s.uow.Store().AuditLogs.Create(ctx, &entity.AuditLog{
		UserID:     actorID,
		Action:     action,
		EntityType: "receipt",
		EntityID:   &entityID,
		Details:    &details,
	})
}

func normalizeParty(customerID *uuid.UUID, walkInName *string) (*string, error) {
	if customerID != nil {
		if walkInName != nil && strings.TrimSpace(*walkInName) != "" {
			return nil, apperror.NewBadRequestError("Provide either a customer or a walk-in name, not both")
		}
		return nil, nil
	}
	if walkInName == nil || strings.TrimSpace(*walkInName) == "" {
		return nil, apperror.NewBadRequestError("A customer or a walk-in name is required")
	}
	trimmed := strings.TrimSpace(*walkInName)
	return &trimmed, nil
}

func validateItems(items []ReceiptItemInput) error {
	if len(items) == 0 {
		return apperror.NewBadRequestError("A receipt requires at least one item")
	}
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			return apperror.NewBadRequestError(fmt.Sprintf("Item %d is missing a product", i+1))
		}
		if item.Quantity <= 0 {
			return apperror.NewBadRequestError(fmt.Sprintf("Item %d quantity must be greater than zero", i+1))
		}
		if item.UnitPrice != nil && *item.UnitPrice < 0 {
			return apperror.NewBadRequestError(fmt.Sprintf("Item %d unit price cannot be negative", i+1))
		}
	}
	return nil
}
