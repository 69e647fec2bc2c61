package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
)

// SequenceService computes and validates receipt numbers. NORMAL and TVA
// receipts run independent sequences; TVA numbers carry a reserved letter
// prefix that NORMAL numbers must not have.
type SequenceService struct {
	tvaPrefix string
}

// NewSequenceService creates a new sequence service
func NewSequenceService(tvaPrefix string) *SequenceService {
	return &SequenceService{tvaPrefix: tvaPrefix}
}

// HasTVAPrefix reports whether the number carries the TVA prefix,
// case-insensitively
func (s *SequenceService) HasTVAPrefix(receiptNo string) bool {
	return len(receiptNo) >= len(s.tvaPrefix) &&
		strings.EqualFold(receiptNo[:len(s.tvaPrefix)], s.tvaPrefix)
}

// TypeForNumber infers the receipt type implied by a number's prefix
func (s *SequenceService) TypeForNumber(receiptNo string) enum.ReceiptType {
	if s.HasTVAPrefix(receiptNo) {
		return enum.ReceiptTypeTVA
	}
	return enum.ReceiptTypeNormal
}

// NextNumber returns the number that will be assigned to the next receipt
// of the given type. The latest receipt of the type is found by prefix rule,
// its numeric suffix incremented by one with leading-zero width preserved.
// The read is not serialized against concurrent writers; callers rely on the
// unique index on receipt_no and retry on a duplicate.
func (s *SequenceService) NextNumber(ctx context.Context, store *repository.Store, receiptType enum.ReceiptType) (string, error) {
	isTVA := receiptType == enum.ReceiptTypeTVA

	latest, err := store.Receipts.LatestByPrefix(ctx, s.tvaPrefix, isTVA)
	if err != nil {
		return "", err
	}
	if latest == nil {
		if isTVA {
			return s.tvaPrefix + "1", nil
		}
		return "1", nil
	}

	body := latest.ReceiptNo
	if isTVA {
		body = body[len(s.tvaPrefix):]
	}

	head, digits := splitNumericSuffix(body)
	next := head + "1"
	if digits != "" {
		n, perr := strconv.ParseUint(digits, 10, 64)
		if perr != nil {
			return "", apperror.NewAppError(http.StatusInternalServerError, fmt.Sprintf("Cannot parse receipt number %q", latest.ReceiptNo))
		}
		next = head + fmt.Sprintf("%0*d", len(digits), n+1)
	}

	if isTVA {
		next = strings.ToUpper(s.tvaPrefix) + next
	}
	return next, nil
}

// NextNumbers returns the preview pair for both sequences
func (s *SequenceService) NextNumbers(ctx context.Context, store *repository.Store) (normal, tva string, err error) {
	normal, err = s.NextNumber(ctx, store, enum.ReceiptTypeNormal)
	if err != nil {
		return "", "", err
	}
	tva, err = s.NextNumber(ctx, store, enum.ReceiptTypeTVA)
	if err != nil {
		return "", "", err
	}
	return normal, tva, nil
}

// Require resolves the number a receipt of the given type must use. An empty
// provided value yields the computed next number. An explicit value must
// carry the TVA prefix for TVA receipts and must equal the computed next
// number exactly; the conflict error carries the expected value so the
// caller can resubmit without re-deriving it.
func (s *SequenceService) Require(ctx context.Context, store *repository.Store, receiptType enum.ReceiptType, provided string) (string, error) {
	provided = strings.TrimSpace(provided)

	next, err := s.NextNumber(ctx, store, receiptType)
	if err != nil {
		return "", err
	}
	if provided == "" {
		return next, nil
	}

	if receiptType == enum.ReceiptTypeTVA && !s.HasTVAPrefix(provided) {
		return "", apperror.NewBadRequestError(
			fmt.Sprintf("TVA receipt numbers must start with %q, expected %s", s.tvaPrefix, next))
	}

	if !strings.EqualFold(provided, next) {
		return "", apperror.NewSequenceConflictError(
			fmt.Sprintf("Receipt number %s is out of sequence", provided), next)
	}
	// store the canonical casing, not the caller's
	return next, nil
}

// splitNumericSuffix splits a number body into its non-numeric head and
// trailing digit run, e.g. "A0042" -> ("A", "0042")
func splitNumericSuffix(body string) (head, digits string) {
	i := len(body)
	for i > 0 && body[i-1] >= '0' && body[i-1] <= '9' {
		i--
	}
	return body[:i], body[i:]
}
