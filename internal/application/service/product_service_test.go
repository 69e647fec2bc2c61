package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/pkg/apperror"
)

func TestCreateProductRecipeValidation(t *testing.T) {
	m, uow := newTestStore()
	svc := NewProductService(uow)
	sand := seedProduct(m, "Sand", 100, nil)
	mix := seedProduct(m, "Old Mix", 0, nil)
	mix.IsComposite = true
	_ = m.store().Products.Update(context.Background(), mix)

	tests := []struct {
		name     string
		input    *CreateProductInput
		wantCode int
	}{
		{"composite and manufactured", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true, IsManufactured: true,
			Components: []ComponentInput{{ComponentProductID: sand.ID, Ratio: 1}},
		}, 400},
		{"components on plain product", &CreateProductInput{
			Name: "Bad", Unit: "pcs",
			Components: []ComponentInput{{ComponentProductID: sand.ID, Ratio: 1}},
		}, 400},
		{"composite without components", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true,
		}, 400},
		{"nonpositive ratio", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true,
			Components: []ComponentInput{{ComponentProductID: sand.ID, Ratio: 0}},
		}, 400},
		{"duplicate component", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true,
			Components: []ComponentInput{
				{ComponentProductID: sand.ID, Ratio: 1},
				{ComponentProductID: sand.ID, Ratio: 2},
			},
		}, 400},
		{"missing component", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true,
			Components: []ComponentInput{{ComponentProductID: uuid.New(), Ratio: 1}},
		}, 404},
		{"nested composite", &CreateProductInput{
			Name: "Bad", Unit: "pcs", IsComposite: true,
			Components: []ComponentInput{{ComponentProductID: mix.ID, Ratio: 1}},
		}, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.input)
			appErr := apperror.GetAppError(err)
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Errorf("error = %v, want a %d", err, tt.wantCode)
			}

			// a rejected create must not leave a product row behind
			leftover, _ := m.store().Products.GetByName(context.Background(), "Bad")
			if leftover != nil {
				t.Errorf("product %q was persisted despite the rejected recipe", leftover.Name)
			}
		})
	}
}

func TestCreateProductDuplicateNameRejected(t *testing.T) {
	m, uow := newTestStore()
	svc := NewProductService(uow)
	seedProduct(m, "Cement 50kg", 0, nil)

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{Name: "cement 50KG", Unit: "bag"})
	appErr := apperror.GetAppError(err)
	if appErr == nil || appErr.Code != 409 {
		t.Fatalf("error = %v, want a 409", err)
	}
}

func TestCreateCompositeProduct(t *testing.T) {
	m, uow := newTestStore()
	svc := NewProductService(uow)
	sand := seedProduct(m, "Sand", 100, nil)
	gravel := seedProduct(m, "Gravel", 50, nil)

	product, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:        "Concrete Mix",
		Unit:        "m3",
		IsComposite: true,
		Components: []ComponentInput{
			{ComponentProductID: sand.ID, Ratio: 2},
			{ComponentProductID: gravel.ID, Ratio: 0.5},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(product.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(product.Components))
	}
	if product.Components[0].ComponentProductID != sand.ID || product.Components[0].Ratio != 2 {
		t.Errorf("first component = %+v, want sand at ratio 2", product.Components[0])
	}
}

func TestImportProducts(t *testing.T) {
	m, uow := newTestStore()
	svc := NewProductService(uow)
	seedProduct(m, "Cement 50kg", 0, nil)

	result, err := svc.ImportProducts(context.Background(), []ImportProductRow{
		{Name: "Rebar 12mm", Unit: "pc", UnitPrice: ptrFloat(3.5), StockQty: 40},
		{Name: "Cement 50kg", Unit: "bag"},                    // already in the catalog
		{Name: "", Unit: "pc"},                                // missing name
		{Name: "Gravel", Unit: "m3", UnitPrice: ptrFloat(-1)}, // negative price
		{Name: "Sand", Unit: "m3", StockQty: 12},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.TotalRows != 5 {
		t.Errorf("total = %d, want 5", result.TotalRows)
	}
	if result.Successful != 2 {
		t.Errorf("successful = %d, want 2", result.Successful)
	}
	if result.Failed != 3 {
		t.Errorf("failed = %d, want 3", result.Failed)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("errors = %d, want 3", len(result.Errors))
	}

	imported, _ := m.store().Products.GetByName(context.Background(), "Sand")
	if imported == nil || imported.StockQty != 12 {
		t.Errorf("imported product = %+v, want Sand with stock 12", imported)
	}
}
