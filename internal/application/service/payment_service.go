package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
	"github.com/BassamAA/mawad-api/pkg/money"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// PaymentService records money movements and their allocation to receipts.
// Recording a payment against a receipt updates the receipt's paid state
// through the canonical reconciliation rule.
type PaymentService struct {
	uow   repository.UnitOfWork
	recon *ReconciliationService
}

// NewPaymentService creates a new payment service
func NewPaymentService(uow repository.UnitOfWork, recon *ReconciliationService) *PaymentService {
	return &PaymentService{uow: uow, recon: recon}
}

// AllocationInput assigns part of a payment to one receipt
type AllocationInput struct {
	ReceiptID uuid.UUID
	Amount    float64
}

// CreatePaymentInput is the input for payment creation
type CreatePaymentInput struct {
	Type        enum.PaymentType
	Amount      float64
	ReceiptID   *uuid.UUID
	CustomerID  *uuid.UUID
	SupplierRef *string
	Notes       *string
	Allocations []AllocationInput
}

// CreatePayment records a payment, optionally tagging a receipt directly
// and/or splitting the amount across receipts via allocation rows. Affected
// receipts are re-reconciled in the same transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, actorID *uuid.UUID, input *CreatePaymentInput) (*entity.Payment, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	allocated := 0.0
	for _, alloc := range input.Allocations {
		if alloc.Amount <= 0 {
			return nil, apperror.NewBadRequestError("Allocation amounts must be greater than zero")
		}
		allocated += alloc.Amount
	}
	if allocated > input.Amount && !money.Eq(allocated, input.Amount) {
		return nil, apperror.NewBadRequestError(
			fmt.Sprintf("Allocations total %.2f exceeds the payment amount %.2f", allocated, input.Amount))
	}

	payment := &entity.Payment{
		Type:        input.Type,
		Amount:      input.Amount,
		ReceiptID:   input.ReceiptID,
		CustomerID:  input.CustomerID,
		SupplierRef: input.SupplierRef,
		Notes:       input.Notes,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		if input.CustomerID != nil {
			customer, err := store.Customers.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}

		touched := make(map[uuid.UUID]bool)
		if input.ReceiptID != nil {
			receipt, err := store.Receipts.GetByID(ctx, *input.ReceiptID)
			if err != nil {
				return err
			}
			if receipt == nil {
				return apperror.NewNotFoundError("Receipt")
			}
			touched[receipt.ID] = true
		}

		if err := store.Payments.Create(ctx, payment); err != nil {
			return err
		}

		for _, alloc := range input.Allocations {
			receipt, err := store.Receipts.GetByID(ctx, alloc.ReceiptID)
			if err != nil {
				return err
			}
			if receipt == nil {
				return apperror.NewNotFoundError("Receipt")
			}
			if err := store.Payments.CreateAllocation(ctx, &entity.ReceiptPayment{
				ReceiptID: alloc.ReceiptID,
				PaymentID: payment.ID,
				Amount:    alloc.Amount,
			}); err != nil {
				return err
			}
			touched[alloc.ReceiptID] = true
		}

		// bring the touched receipts' stored paid state up to canonical
		for receiptID := range touched {
			receipt, err := store.Receipts.GetByID(ctx, receiptID)
			if err != nil {
				return err
			}
			paid, err := s.recon.CanonicalPaid(ctx, store, receipt)
			if err != nil {
				return err
			}
			if paid > receipt.Total {
				paid = receipt.Total
			}
			receipt.AmountPaid = paid
			receipt.IsPaid = money.GTE(paid, receipt.Total)
			if err := store.Receipts.Update(ctx, receipt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Recorded %s payment of %.2f", payment.Type, payment.Amount)
	id := payment.ID
	_ = s.uow.Store().AuditLogs.Create(ctx, &entity.AuditLog{
		UserID:     actorID,
		Action:     "payment.create",
		EntityType: "payment",
		EntityID:   &id,
		Details:    &details,
	})

	return payment, nil
}

// GetPayment retrieves a payment
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.uow.Store().Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments retrieves payments with pagination, optionally scoped to a
// customer
func (s *PaymentService) ListPayments(ctx context.Context, params *pagination.PaginationParams, customerID *uuid.UUID) (*pagination.PaginatedResult[entity.Payment], error) {
	payments, total, err := s.uow.Store().Payments.List(ctx, params, customerID)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(payments, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
