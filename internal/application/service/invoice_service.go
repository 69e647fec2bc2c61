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
)

// InvoiceService bundles a customer's receipts into a priced invoice
// projection. The projection is handed to the printing collaborator; no
// invoice entity is persisted here.
type InvoiceService struct {
	uow     repository.UnitOfWork
	recon   *ReconciliationService
	tvaRate float64
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(uow repository.UnitOfWork, recon *ReconciliationService, tvaRate float64) *InvoiceService {
	return &InvoiceService{uow: uow, recon: recon, tvaRate: tvaRate}
}

// PriceOverrideInput patches one receipt item's unit price before bundling
type PriceOverrideInput struct {
	ReceiptItemID uuid.UUID
	UnitPrice     float64
}

// InvoicePreviewInput selects the receipts to bundle. Exactly one selection
// mode applies: explicit IDs win over a target amount, which wins over the
// includePaid listing.
type InvoicePreviewInput struct {
	ReceiptIDs     []uuid.UUID
	TargetAmount   *float64
	IncludePaid    bool
	PriceOverrides []PriceOverrideInput
}

// InvoicePreview is the bundled projection
type InvoicePreview struct {
	CustomerID  uuid.UUID        `json:"customer_id"`
	Type        enum.ReceiptType `json:"type"`
	Subtotal    float64          `json:"subtotal"`
	VATRate     float64          `json:"vat_rate"`
	VATAmount   float64          `json:"vat_amount"`
	GrandTotal  float64          `json:"grand_total"`
	AmountPaid  float64          `json:"amount_paid"`
	Outstanding float64          `json:"outstanding"`
	OldBalance  float64          `json:"old_balance"`
	Receipts    []entity.Receipt `json:"receipts"`
}

// Preview applies any price overrides, selects the customer's receipts per
// the input and computes the bundle. Overrides persist atomically with the
// recomputed receipt totals; the selection itself mutates nothing.
func (s *InvoiceService) Preview(ctx context.Context, actorID *uuid.UUID, customerID uuid.UUID, input *InvoicePreviewInput) (*InvoicePreview, error) {
	preview := &InvoicePreview{CustomerID: customerID, Receipts: []entity.Receipt{}}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		customer, err := store.Customers.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}

		if len(input.PriceOverrides) > 0 {
			if err := s.applyOverrides(ctx, store, actorID, customerID, input.PriceOverrides); err != nil {
				return err
			}
		}

		receipts, err := store.Receipts.ListByCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		paidByID := make(map[uuid.UUID]float64, len(receipts))
		for i := range receipts {
			paid, err := s.recon.CanonicalPaid(ctx, store, &receipts[i])
			if err != nil {
				return err
			}
			paidByID[receipts[i].ID] = paid
		}

		selected, err := s.selectReceipts(receipts, paidByID, input)
		if err != nil {
			return err
		}

		if len(selected) > 0 {
			bundleType := selected[0].Type
			for i := range selected {
				if selected[i].Type != bundleType {
					return apperror.NewBadRequestError("Cannot mix NORMAL and TVA receipts in one invoice")
				}
			}
			preview.Type = bundleType
		} else if customer.ReceiptType != nil {
			preview.Type = *customer.ReceiptType
		}

		inBundle := make(map[uuid.UUID]bool, len(selected))
		for i := range selected {
			inBundle[selected[i].ID] = true
			preview.Subtotal += selected[i].Total
			preview.AmountPaid += paidByID[selected[i].ID]
		}
		preview.Subtotal = money.Round2(preview.Subtotal)
		preview.AmountPaid = money.Round2(preview.AmountPaid)

		// The rate applies on the bundle subtotal even though TVA receipt
		// totals already include receipt-level tax. Downstream consumers
		// compensate; do not change this without coordinating with them.
		if preview.Type == enum.ReceiptTypeTVA {
			preview.VATRate = s.tvaRate
			preview.VATAmount = money.Round2(preview.Subtotal * s.tvaRate)
		}
		preview.GrandTotal = money.Round2(preview.Subtotal + preview.VATAmount)

		outstanding := preview.GrandTotal - preview.AmountPaid
		if outstanding < 0 {
			outstanding = 0
		}
		preview.Outstanding = money.Round2(outstanding)

		// old balance: what the customer still owes outside this bundle
		oldBalance := 0.0
		for i := range receipts {
			if inBundle[receipts[i].ID] {
				continue
			}
			owed := receipts[i].Total - paidByID[receipts[i].ID]
			if owed > 0 {
				oldBalance += owed
			}
		}
		preview.OldBalance = money.Round2(oldBalance)

		preview.Receipts = selected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

// selectReceipts picks the bundle per the input's selection mode
func (s *InvoiceService) selectReceipts(receipts []entity.Receipt, paidByID map[uuid.UUID]float64, input *InvoicePreviewInput) ([]entity.Receipt, error) {
	if len(input.ReceiptIDs) > 0 {
		wanted := make(map[uuid.UUID]bool, len(input.ReceiptIDs))
		for _, id := range input.ReceiptIDs {
			wanted[id] = true
		}
		selected := make([]entity.Receipt, 0, len(input.ReceiptIDs))
		for i := range receipts {
			if wanted[receipts[i].ID] {
				selected = append(selected, receipts[i])
				delete(wanted, receipts[i].ID)
			}
		}
		if len(wanted) > 0 {
			for id := range wanted {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Receipt %s for this customer", id))
			}
		}
		return selected, nil
	}

	if input.TargetAmount != nil {
		// receipts arrive oldest-first; accumulate outstanding ones until
		// the running total meets the target, including the crossing receipt
		target := *input.TargetAmount
		selected := make([]entity.Receipt, 0)
		running := 0.0
		for i := range receipts {
			if money.GTE(paidByID[receipts[i].ID], receipts[i].Total) {
				continue
			}
			selected = append(selected, receipts[i])
			running += receipts[i].Total
			if money.GTE(running, target) {
				break
			}
		}
		return selected, nil
	}

	selected := make([]entity.Receipt, 0, len(receipts))
	for i := range receipts {
		paid := money.GTE(paidByID[receipts[i].ID], receipts[i].Total)
		if input.IncludePaid || !paid {
			selected = append(selected, receipts[i])
		}
	}
	return selected, nil
}

// applyOverrides patches item unit prices and recomputes each affected
// receipt's total and paid state, one audit entry per modified receipt
func (s *InvoiceService) applyOverrides(ctx context.Context, store *repository.Store, actorID *uuid.UUID, customerID uuid.UUID, overrides []PriceOverrideInput) error {
	touched := make(map[uuid.UUID]bool)

	for _, override := range overrides {
		if override.UnitPrice < 0 {
			return apperror.NewBadRequestError("Override unit price cannot be negative")
		}
		item, err := store.Receipts.GetItem(ctx, override.ReceiptItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Receipt item")
		}
		receipt, err := store.Receipts.GetByID(ctx, item.ReceiptID)
		if err != nil {
			return err
		}
		if receipt == nil || receipt.CustomerID == nil || *receipt.CustomerID != customerID {
			return apperror.NewBadRequestError("Receipt item does not belong to this customer")
		}

		price := override.UnitPrice
		subtotal := item.Quantity * price
		item.UnitPrice = &price
		item.Subtotal = &subtotal
		if err := store.Receipts.UpdateItem(ctx, item); err != nil {
			return err
		}
		touched[item.ReceiptID] = true
	}

	for receiptID := range touched {
		receipt, err := store.Receipts.GetByID(ctx, receiptID)
		if err != nil {
			return err
		}
		items, err := store.Receipts.GetItems(ctx, receiptID)
		if err != nil {
			return err
		}

		sum := 0.0
		for i := range items {
			if items[i].Subtotal != nil {
				sum += *items[i].Subtotal
			}
		}
		if receipt.Type == enum.ReceiptTypeTVA {
			sum = money.Round2(sum * (1 + s.tvaRate))
		} else {
			sum = money.Round2(sum)
		}
		receipt.Total = sum

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

		details := fmt.Sprintf("Repriced receipt %s during invoicing, new total %.2f", receipt.ReceiptNo, receipt.Total)
		id := receipt.ID
		if err := store.AuditLogs.Create(ctx, &entity.AuditLog{
			UserID:     actorID,
			Action:     "receipt.reprice",
			EntityType: "receipt",
			EntityID:   &id,
			Details:    &details,
		}); err != nil {
			return err
		}
	}
	return nil
}
