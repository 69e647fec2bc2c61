package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/money"
)

// driftTolerance is the reporting threshold for stored-vs-canonical paid
// amounts; sub-cent noise is not worth flagging.
const driftTolerance = 0.01

// ReconciliationService computes the canonical paid state of receipts from
// the three historical recording paths (allocation rows, directly tagged
// payments, the stored amountPaid/isPaid fields) and detects or repairs
// drift between them. The maximum across sources is authoritative: the
// paths disagree for old data and none of them may be discarded.
type ReconciliationService struct {
	uow repository.UnitOfWork
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(uow repository.UnitOfWork) *ReconciliationService {
	return &ReconciliationService{uow: uow}
}

// CanonicalPaid returns the authoritative amount paid on a receipt:
// max(allocation sum, direct payment sum, stored amountPaid, total when the
// isPaid flag is set).
func (s *ReconciliationService) CanonicalPaid(ctx context.Context, store *repository.Store, receipt *entity.Receipt) (float64, error) {
	allocated, err := store.Payments.SumAllocationsForReceipt(ctx, receipt.ID)
	if err != nil {
		return 0, err
	}
	direct, err := store.Payments.SumDirectForReceipt(ctx, receipt.ID)
	if err != nil {
		return 0, err
	}

	paid := allocated
	if direct > paid {
		paid = direct
	}
	if receipt.AmountPaid > paid {
		paid = receipt.AmountPaid
	}
	if receipt.IsPaid && receipt.Total > paid {
		paid = receipt.Total
	}
	return paid, nil
}

// ReceiptDrift describes one receipt whose stored paid state disagrees with
// the canonical computation
type ReceiptDrift struct {
	ReceiptID       uuid.UUID `json:"receipt_id"`
	ReceiptNo       string    `json:"receipt_no"`
	Total           float64   `json:"total"`
	StoredPaid      float64   `json:"stored_paid"`
	CanonicalPaid   float64   `json:"canonical_paid"`
	StoredIsPaid    bool      `json:"stored_is_paid"`
	CanonicalIsPaid bool      `json:"canonical_is_paid"`
}

// OrphanAllocation is an allocation row whose receipt or payment no longer
// exists. Surfaced for operator review, never auto-deleted.
type OrphanAllocation struct {
	AllocationID   uuid.UUID `json:"allocation_id"`
	ReceiptID      uuid.UUID `json:"receipt_id"`
	PaymentID      uuid.UUID `json:"payment_id"`
	Amount         float64   `json:"amount"`
	MissingReceipt bool      `json:"missing_receipt"`
	MissingPayment bool      `json:"missing_payment"`
}

// HealthReport is the output of the diagnostic sweep
type HealthReport struct {
	CheckedAt         time.Time          `json:"checked_at"`
	ReceiptsScanned   int                `json:"receipts_scanned"`
	Drifted           []ReceiptDrift     `json:"drifted"`
	OrphanAllocations []OrphanAllocation `json:"orphan_allocations"`
}

// Health scans all receipts and allocation rows and reports drift and
// orphans without mutating anything
func (s *ReconciliationService) Health(ctx context.Context) (*HealthReport, error) {
	store := s.uow.Store()

	receipts, err := store.Receipts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &HealthReport{
		CheckedAt:         time.Now(),
		ReceiptsScanned:   len(receipts),
		Drifted:           []ReceiptDrift{},
		OrphanAllocations: []OrphanAllocation{},
	}

	seen := make(map[uuid.UUID]bool, len(receipts))
	for i := range receipts {
		receipt := &receipts[i]
		seen[receipt.ID] = true

		canonical, err := s.CanonicalPaid(ctx, store, receipt)
		if err != nil {
			return nil, err
		}
		canonicalIsPaid := money.GTE(canonical, receipt.Total)

		diff := receipt.AmountPaid - canonical
		if diff < 0 {
			diff = -diff
		}
		if diff > driftTolerance || receipt.IsPaid != canonicalIsPaid {
			report.Drifted = append(report.Drifted, ReceiptDrift{
				ReceiptID:       receipt.ID,
				ReceiptNo:       receipt.ReceiptNo,
				Total:           receipt.Total,
				StoredPaid:      receipt.AmountPaid,
				CanonicalPaid:   canonical,
				StoredIsPaid:    receipt.IsPaid,
				CanonicalIsPaid: canonicalIsPaid,
			})
		}
	}

	allocations, err := store.Payments.ListAllAllocations(ctx)
	if err != nil {
		return nil, err
	}
	for _, alloc := range allocations {
		missingReceipt := !seen[alloc.ReceiptID]
		paymentExists, err := store.Payments.PaymentExists(ctx, alloc.PaymentID)
		if err != nil {
			return nil, err
		}
		if missingReceipt || !paymentExists {
			report.OrphanAllocations = append(report.OrphanAllocations, OrphanAllocation{
				AllocationID:   alloc.ID,
				ReceiptID:      alloc.ReceiptID,
				PaymentID:      alloc.PaymentID,
				Amount:         alloc.Amount,
				MissingReceipt: missingReceipt,
				MissingPayment: !paymentExists,
			})
		}
	}

	return report, nil
}

// RepairResult summarizes a mutating reconciliation pass
type RepairResult struct {
	ReceiptsScanned  int            `json:"receipts_scanned"`
	ReceiptsRepaired int            `json:"receipts_repaired"`
	Repaired         []ReceiptDrift `json:"repaired"`
}

// Repair applies canonical paid values to receipts flagged by the same
// criteria as Health. Idempotent: a second run finds nothing to repair.
func (s *ReconciliationService) Repair(ctx context.Context) (*RepairResult, error) {
	return s.applyCanonical(ctx, true)
}

// RecomputeAll rewrites amountPaid/isPaid from canonical values on every
// receipt where they differ at all, not only past the drift threshold
func (s *ReconciliationService) RecomputeAll(ctx context.Context) (*RepairResult, error) {
	return s.applyCanonical(ctx, false)
}

func (s *ReconciliationService) applyCanonical(ctx context.Context, flaggedOnly bool) (*RepairResult, error) {
	result := &RepairResult{Repaired: []ReceiptDrift{}}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		receipts, err := store.Receipts.ListAll(ctx)
		if err != nil {
			return err
		}
		result.ReceiptsScanned = len(receipts)

		for i := range receipts {
			receipt := &receipts[i]

			canonical, err := s.CanonicalPaid(ctx, store, receipt)
			if err != nil {
				return err
			}
			canonicalIsPaid := money.GTE(canonical, receipt.Total)

			diff := receipt.AmountPaid - canonical
			if diff < 0 {
				diff = -diff
			}
			if flaggedOnly {
				if diff <= driftTolerance && receipt.IsPaid == canonicalIsPaid {
					continue
				}
			} else if diff == 0 && receipt.IsPaid == canonicalIsPaid {
				continue
			}

			result.Repaired = append(result.Repaired, ReceiptDrift{
				ReceiptID:       receipt.ID,
				ReceiptNo:       receipt.ReceiptNo,
				Total:           receipt.Total,
				StoredPaid:      receipt.AmountPaid,
				CanonicalPaid:   canonical,
				StoredIsPaid:    receipt.IsPaid,
				CanonicalIsPaid: canonicalIsPaid,
			})

			receipt.AmountPaid = canonical
			receipt.IsPaid = canonicalIsPaid
			if err := store.Receipts.Update(ctx, receipt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.ReceiptsRepaired = len(result.Repaired)
	return result, nil
}
