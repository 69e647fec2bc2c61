package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/pkg/apperror"
)

func newInvoiceService(uow *memUnitOfWork) *InvoiceService {
	return NewInvoiceService(uow, NewReconciliationService(uow), 0.11)
}

func TestPreviewMixedTypesRejected(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	normal := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	tva := seedReceipt(m, "T1", enum.ReceiptTypeTVA, &customer.ID, 111)

	_, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		ReceiptIDs: []uuid.UUID{normal.ID, tva.ID},
	})
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 400 {
		t.Fatalf("error = %v, want a 400", err)
	}
}

func TestPreviewTargetAmountIncludesCrossingReceipt(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	seedReceipt(m, "2", enum.ReceiptTypeNormal, &customer.ID, 100)
	seedReceipt(m, "3", enum.ReceiptTypeNormal, &customer.ID, 100)
	seedReceipt(m, "4", enum.ReceiptTypeNormal, &customer.ID, 100)

	preview, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		TargetAmount: ptrFloat(250),
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview.Receipts) != 3 {
		t.Fatalf("selected = %d, want 3 (crossing receipt included)", len(preview.Receipts))
	}
	if preview.Subtotal != 300 {
		t.Errorf("subtotal = %v, want 300", preview.Subtotal)
	}
	// oldest receipts first
	if preview.Receipts[0].ReceiptNo != "1" || preview.Receipts[2].ReceiptNo != "3" {
		t.Errorf("selection order = %q..%q, want 1..3", preview.Receipts[0].ReceiptNo, preview.Receipts[2].ReceiptNo)
	}
	if preview.OldBalance != 100 {
		t.Errorf("old balance = %v, want the unselected 100", preview.OldBalance)
	}
}

func TestPreviewTargetAmountSkipsPaidReceipts(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)

	paid := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	paid.AmountPaid = 100
	paid.IsPaid = true
	_ = m.store().Receipts.Update(context.Background(), paid)
	seedReceipt(m, "2", enum.ReceiptTypeNormal, &customer.ID, 100)

	preview, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		TargetAmount: ptrFloat(50),
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview.Receipts) != 1 || preview.Receipts[0].ReceiptNo != "2" {
		t.Fatalf("selection = %+v, want only receipt 2", preview.Receipts)
	}
}

func TestPreviewVATAppliesOnBundleSubtotal(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", ptrType(enum.ReceiptTypeTVA))
	seedReceipt(m, "T1", enum.ReceiptTypeTVA, &customer.ID, 100)
	seedReceipt(m, "T2", enum.ReceiptTypeTVA, &customer.ID, 200)

	preview, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Type != enum.ReceiptTypeTVA {
		t.Errorf("type = %v, want TVA", preview.Type)
	}
	if preview.Subtotal != 300 {
		t.Errorf("subtotal = %v, want 300", preview.Subtotal)
	}
	if preview.VATRate != 0.11 || preview.VATAmount != 33 {
		t.Errorf("vat = (%v, %v), want (0.11, 33)", preview.VATRate, preview.VATAmount)
	}
	if preview.GrandTotal != 333 {
		t.Errorf("grand total = %v, want 333", preview.GrandTotal)
	}
	if preview.Outstanding != 333 {
		t.Errorf("outstanding = %v, want 333", preview.Outstanding)
	}
}

func TestPreviewExplicitUnknownReceiptRejected(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)

	_, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		ReceiptIDs: []uuid.UUID{uuid.New()},
	})
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 404 {
		t.Fatalf("error = %v, want a 404", err)
	}
}

func TestPreviewDefaultListingSkipsPaidUnlessAsked(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)

	paid := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 100)
	paid.AmountPaid = 100
	paid.IsPaid = true
	_ = m.store().Receipts.Update(context.Background(), paid)
	seedReceipt(m, "2", enum.ReceiptTypeNormal, &customer.ID, 50)

	preview, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(preview.Receipts) != 1 {
		t.Fatalf("selection = %d, want 1 (paid excluded)", len(preview.Receipts))
	}

	all, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{IncludePaid: true})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if len(all.Receipts) != 2 {
		t.Fatalf("selection = %d, want 2 with includePaid", len(all.Receipts))
	}
	if all.AmountPaid != 100 {
		t.Errorf("amount paid = %v, want 100", all.AmountPaid)
	}
}

func TestPreviewPriceOverridePersists(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	product := seedProduct(m, "Cement 50kg", 100, nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, &customer.ID, 0)

	item := entity.ReceiptItem{ReceiptID: receipt.ID, ProductID: product.ID, Quantity: 10}
	_ = m.store().Receipts.CreateItems(context.Background(), []entity.ReceiptItem{item})
	items, _ := m.store().Receipts.GetItems(context.Background(), receipt.ID)

	preview, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		PriceOverrides: []PriceOverrideInput{{ReceiptItemID: items[0].ID, UnitPrice: 7}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Subtotal != 70 {
		t.Errorf("subtotal = %v, want 70", preview.Subtotal)
	}

	// the override is persisted on receipt and item, not just projected
	stored, _ := m.store().Receipts.GetByID(context.Background(), receipt.ID)
	if stored.Total != 70 {
		t.Errorf("stored receipt total = %v, want 70", stored.Total)
	}
	updatedItem, _ := m.store().Receipts.GetItem(context.Background(), items[0].ID)
	if updatedItem.UnitPrice == nil || *updatedItem.UnitPrice != 7 {
		t.Errorf("stored unit price = %v, want 7", updatedItem.UnitPrice)
	}
}

func TestPreviewOverrideForOtherCustomerRejected(t *testing.T) {
	m, uow := newTestStore()
	svc := newInvoiceService(uow)
	customer := seedCustomer(m, "Haddad Trading", nil)
	other := seedCustomer(m, "Najjar Bros", nil)
	product := seedProduct(m, "Cement 50kg", 100, nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, &other.ID, 0)

	item := entity.ReceiptItem{ReceiptID: receipt.ID, ProductID: product.ID, Quantity: 1}
	_ = m.store().Receipts.CreateItems(context.Background(), []entity.ReceiptItem{item})
	items, _ := m.store().Receipts.GetItems(context.Background(), receipt.ID)

	_, err := svc.Preview(context.Background(), nil, customer.ID, &InvoicePreviewInput{
		PriceOverrides: []PriceOverrideInput{{ReceiptItemID: items[0].ID, UnitPrice: 5}},
	})
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 400 {
		t.Fatalf("error = %v, want a 400", err)
	}
}
