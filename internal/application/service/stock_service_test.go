package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
)

func TestPostItemSaleDecrementsStock(t *testing.T) {
	m, _ := newTestStore()
	product := seedProduct(m, "Cement 50kg", 10, ptrFloat(8))
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, nil, 0)

	stock := NewStockService("Debris")
	item := &entity.ReceiptItem{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: product.ID, Quantity: 4}

	if err := stock.PostItem(context.Background(), m.store(), item, product); err != nil {
		t.Fatalf("PostItem: %v", err)
	}

	got, _ := m.store().Products.GetByID(context.Background(), product.ID)
	if got.StockQty != 6 {
		t.Errorf("stock = %v, want 6", got.StockQty)
	}

	movements, _ := m.store().StockMovements.ListByReceipt(context.Background(), receipt.ID)
	if len(movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movements))
	}
	if movements[0].Quantity != -4 {
		t.Errorf("movement quantity = %v, want -4", movements[0].Quantity)
	}
	if movements[0].Kind != enum.MovementKindSale {
		t.Errorf("movement kind = %v, want SALE", movements[0].Kind)
	}
}

func TestPostItemDebrisIncrementsStock(t *testing.T) {
	m, _ := newTestStore()
	product := seedProduct(m, "Debris", 0, nil)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, nil, 0)

	stock := NewStockService("Debris")
	item := &entity.ReceiptItem{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: product.ID, Quantity: 5}

	if err := stock.PostItem(context.Background(), m.store(), item, product); err != nil {
		t.Fatalf("PostItem: %v", err)
	}

	got, _ := m.store().Products.GetByID(context.Background(), product.ID)
	if got.StockQty != 5 {
		t.Errorf("stock = %v, want 5", got.StockQty)
	}
	movements, _ := m.store().StockMovements.ListByProduct(context.Background(), product.ID)
	if movements[0].Quantity != 5 || movements[0].Kind != enum.MovementKindPurchase {
		t.Errorf("movement = %+v, want +5 PURCHASE", movements[0])
	}
}

func TestDebrisMatchIsCaseInsensitive(t *testing.T) {
	stock := NewStockService("Debris")
	if !stock.IsDebris("debris") || !stock.IsDebris("DEBRIS") {
		t.Error("debris match should ignore case")
	}
	if stock.IsDebris("Debris Fine") {
		t.Error("debris match must be exact, not a prefix")
	}
}

func TestCompositePostAndReverseRoundTrip(t *testing.T) {
	m, _ := newTestStore()
	sand := seedProduct(m, "Sand", 100, nil)
	gravel := seedProduct(m, "Gravel", 50, nil)
	mix := &entity.Product{
		Name:        "Concrete Mix",
		Unit:        "m3",
		IsComposite: true,
		Components: []entity.ProductComponent{
			{ComponentProductID: sand.ID, Ratio: 2, Position: 0},
			{ComponentProductID: gravel.ID, Ratio: 0.5, Position: 1},
		},
	}
	if err := m.store().Products.Create(context.Background(), mix); err != nil {
		t.Fatalf("create mix: %v", err)
	}
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, nil, 0)

	stock := NewStockService("Debris")
	item := &entity.ReceiptItem{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: mix.ID, Quantity: 4}

	loaded, _ := m.store().Products.GetByID(context.Background(), mix.ID)
	if err := stock.PostItem(context.Background(), m.store(), item, loaded); err != nil {
		t.Fatalf("PostItem: %v", err)
	}

	sandAfter, _ := m.store().Products.GetByID(context.Background(), sand.ID)
	gravelAfter, _ := m.store().Products.GetByID(context.Background(), gravel.ID)
	mixAfter, _ := m.store().Products.GetByID(context.Background(), mix.ID)
	if sandAfter.StockQty != 92 {
		t.Errorf("sand stock = %v, want 92", sandAfter.StockQty)
	}
	if gravelAfter.StockQty != 48 {
		t.Errorf("gravel stock = %v, want 48", gravelAfter.StockQty)
	}
	if mixAfter.StockQty != 0 {
		t.Errorf("composite stock = %v, want untouched 0", mixAfter.StockQty)
	}

	// usage rows persisted for literal reversal
	withUsage := &entity.ReceiptItem{
		ID: item.ID, ReceiptID: receipt.ID, ProductID: mix.ID, Quantity: 4,
	}
	usage := collectUsage(m, item.ID)
	if len(usage) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(usage))
	}
	withUsage.Components = usage

	if err := stock.ReverseItem(context.Background(), m.store(), withUsage); err != nil {
		t.Fatalf("ReverseItem: %v", err)
	}

	sandAfter, _ = m.store().Products.GetByID(context.Background(), sand.ID)
	gravelAfter, _ = m.store().Products.GetByID(context.Background(), gravel.ID)
	if sandAfter.StockQty != 100 || gravelAfter.StockQty != 50 {
		t.Errorf("stock after round trip = (%v, %v), want (100, 50)", sandAfter.StockQty, gravelAfter.StockQty)
	}
	if remaining := collectUsage(m, item.ID); len(remaining) != 0 {
		t.Errorf("usage rows after reversal = %d, want 0", len(remaining))
	}

	sandSum, _ := m.store().StockMovements.SumByProduct(context.Background(), sand.ID)
	gravelSum, _ := m.store().StockMovements.SumByProduct(context.Background(), gravel.ID)
	if sandSum != 0 || gravelSum != 0 {
		t.Errorf("movement sums = (%v, %v), want (0, 0)", sandSum, gravelSum)
	}
}

func TestCompositeWithEmptyRecipePostsNothing(t *testing.T) {
	m, _ := newTestStore()
	mix := &entity.Product{Name: "Hollow Mix", Unit: "m3", IsComposite: true}
	_ = m.store().Products.Create(context.Background(), mix)
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, nil, 0)

	stock := NewStockService("Debris")
	item := &entity.ReceiptItem{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: mix.ID, Quantity: 3}
	if err := stock.PostItem(context.Background(), m.store(), item, mix); err != nil {
		t.Fatalf("PostItem: %v", err)
	}
	movements, _ := m.store().StockMovements.ListByReceipt(context.Background(), receipt.ID)
	if len(movements) != 0 {
		t.Errorf("movements = %d, want 0", len(movements))
	}
	if err := stock.ReverseItem(context.Background(), m.store(), item); err != nil {
		t.Fatalf("ReverseItem: %v", err)
	}
}

func TestReverseItemNonComposite(t *testing.T) {
	m, _ := newTestStore()
	product := seedProduct(m, "Rebar 12mm", 20, ptrFloat(3))
	receipt := seedReceipt(m, "1", enum.ReceiptTypeNormal, nil, 0)

	stock := NewStockService("Debris")
	item := &entity.ReceiptItem{ID: uuid.New(), ReceiptID: receipt.ID, ProductID: product.ID, Quantity: 7}
	if err := stock.PostItem(context.Background(), m.store(), item, product); err != nil {
		t.Fatalf("PostItem: %v", err)
	}
	if err := stock.ReverseItem(context.Background(), m.store(), item); err != nil {
		t.Fatalf("ReverseItem: %v", err)
	}

	got, _ := m.store().Products.GetByID(context.Background(), product.ID)
	if got.StockQty != 20 {
		t.Errorf("stock = %v, want 20", got.StockQty)
	}
	movements, _ := m.store().StockMovements.ListByProduct(context.Background(), product.ID)
	if len(movements) != 2 {
		t.Fatalf("movements = %d, want 2", len(movements))
	}
	// the reversal keeps the original kind, only the sign flips
	if movements[1].Kind != enum.MovementKindSale || movements[1].Quantity != 7 {
		t.Errorf("reversal movement = %+v, want +7 SALE", movements[1])
	}
}

func collectUsage(m *memStore, itemID uuid.UUID) []entity.ReceiptItemComponent {
	m.mu.Lock()
	defer m.mu.Unlock()
	usage := make([]entity.ReceiptItemComponent, 0)
	for _, row := range m.itemComponents {
		if row.ReceiptItemID == itemID {
			usage = append(usage, *row)
		}
	}
	return usage
}
