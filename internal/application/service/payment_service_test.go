package service

import (
	"context"
	"testing"

	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/pkg/apperror"
)

func newPaymentService(uow *memUnitOfWork) *PaymentService {
	return NewPaymentService(uow, NewReconciliationService(uow))
}

func TestCreatePaymentValidation(t *testing.T) {
	m, uow := newTestStore()
	svc := newPaymentService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)

	tests := []struct {
		name  string
		input *CreatePaymentInput
	}{
		{"zero amount", &CreatePaymentInput{Type: enum.PaymentTypeCustomerPayment, Amount: 0}},
		{"negative allocation", &CreatePaymentInput{
			Type: enum.PaymentTypeCustomerPayment, Amount: 50,
			Allocations: []AllocationInput{{ReceiptID: receipt.ID, Amount: -5}},
		}},
		{"allocations exceed amount", &CreatePaymentInput{
			Type: enum.PaymentTypeCustomerPayment, Amount: 50,
			Allocations: []AllocationInput{
				{ReceiptID: receipt.ID, Amount: 30},
				{ReceiptID: receipt.ID, Amount: 30},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePayment(context.Background(), nil, tt.input)
			appErr := apperror.GetAppError(err)
			if appErr == nil || appErr.Code != 400 {
				t.Errorf("error = %v, want a 400", err)
			}
		})
	}
}

func TestCreatePaymentAllocationsUpdateReceipt(t *testing.T) {
	m, uow := newTestStore()
	svc := newPaymentService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)

	_, err := svc.CreatePayment(context.Background(), nil, &CreatePaymentInput{
		Type:        enum.PaymentTypeCustomerPayment,
		Amount:      60,
		CustomerID:  &customer.ID,
		Allocations: []AllocationInput{{ReceiptID: receipt.ID, Amount: 60}},
	})
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}

	stored, _ := m.store().Receipts.GetByID(context.Background(), receipt.ID)
	if stored.AmountPaid != 60 || stored.IsPaid {
		t.Errorf("paid state = (%v, %v), want (60, false)", stored.AmountPaid, stored.IsPaid)
	}

	_, err = svc.CreatePayment(context.Background(), nil, &CreatePaymentInput{
		Type:        enum.PaymentTypeCustomerPayment,
		Amount:      40,
		CustomerID:  &customer.ID,
		Allocations: []AllocationInput{{ReceiptID: receipt.ID, Amount: 40}},
	})
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}

	stored, _ = m.store().Receipts.GetByID(context.Background(), receipt.ID)
	if stored.AmountPaid != 100 || !stored.IsPaid {
		t.Errorf("paid state = (%v, %v), want (100, true)", stored.AmountPaid, stored.IsPaid)
	}
}

func TestCreatePaymentSplitAcrossReceipts(t *testing.T) {
	m, uow := newTestStore()
	svc := newPaymentService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	first := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	second := seedReceipt(m, "2", enum.ReceiptTypeNormal, &customer.ID, 80)

	_, err := svc.CreatePayment(context.Background(), nil, &CreatePaymentInput{
		Type:       enum.PaymentTypeCustomerPayment,
		Amount:     150,
		CustomerID: &customer.ID,
		Allocations: []AllocationInput{
			{ReceiptID: first.ID, Amount: 100},
			{ReceiptID: second.ID, Amount: 50},
		},
	})
	if err != nil {
		t.Fatalf("payment: %v", err)
	}

	firstStored, _ := m.store().Receipts.GetByID(context.Background(), first.ID)
	secondStored, _ := m.store().Receipts.GetByID(context.Background(), second.ID)
	if !firstStored.IsPaid || firstStored.AmountPaid != 100 {
		t.Errorf("first = (%v, %v), want (100, paid)", firstStored.AmountPaid, firstStored.IsPaid)
	}
	if secondStored.IsPaid || secondStored.AmountPaid != 50 {
		t.Errorf("second = (%v, %v), want (50, open)", secondStored.AmountPaid, secondStored.IsPaid)
	}
}

func TestCreatePaymentUnknownReceiptRejected(t *testing.T) {
	m, uow := newTestStore()
	svc := newPaymentService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	_ = m.store().Receipts.Delete(context.Background(), receipt.ID)

	_, err := svc.CreatePayment(context.Background(), nil, &CreatePaymentInput{
		Type:        enum.PaymentTypeCustomerPayment,
		Amount:      50,
		Allocations: []AllocationInput{{ReceiptID: receipt.ID, Amount: 50}},
	})
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 404 {
		t.Fatalf("error = %v, want a 404", err)
	}
}
