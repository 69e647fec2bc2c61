package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// ProductService handles catalog operations, including composite recipe
// management. Recipes are flat: a component may not itself be composite.
type ProductService struct {
	uow repository.UnitOfWork
}

// NewProductService creates a new product service
func NewProductService(uow repository.UnitOfWork) *ProductService {
	return &ProductService{uow: uow}
}

// ComponentInput declares one component line of a composite recipe
type ComponentInput struct {
	ComponentProductID uuid.UUID
	Ratio              float64
}

// CreateProductInput is the input for product creation
type CreateProductInput struct {
	Name           string
	Unit           string
	UnitPrice      *float64
	IsComposite    bool
	IsManufactured bool
	StockQty       float64
	Components     []ComponentInput
}

// UpdateProductInput is the input for product update; nil fields are left
// untouched. A non-nil Components slice replaces the recipe.
type UpdateProductInput struct {
	Name           *string
	Unit           *string
	UnitPrice      *float64
	IsComposite    *bool
	IsManufactured *bool
	Components     *[]ComponentInput
}

// CreateProduct creates a product, validating the composite recipe when one
// is declared
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.IsComposite && input.IsManufactured {
		return nil, apperror.NewBadRequestError("A product cannot be both composite and manufactured")
	}
	if !input.IsComposite && len(input.Components) > 0 {
		return nil, apperror.NewBadRequestError("Only composite products declare components")
	}

	store := s.uow.Store()
	existing, err := store.Products.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError(fmt.Sprintf("Product %q already exists", name))
	}

	product := &entity.Product{
		Name:           name,
		Unit:           strings.TrimSpace(input.Unit),
		UnitPrice:      input.UnitPrice,
		IsComposite:    input.IsComposite,
		IsManufactured: input.IsManufactured,
		StockQty:       input.StockQty,
	}

	err = s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		// validate the recipe before the product row exists, so a bad
		// recipe leaves nothing behind
		var components []entity.ProductComponent
		if input.IsComposite {
			var err error
			components, err = s.buildComponents(ctx, store, uuid.Nil, input.Components)
			if err != nil {
				return err
			}
		}
		if err := store.Products.Create(ctx, product); err != nil {
			return err
		}
		if input.IsComposite {
			for i := range components {
				components[i].ProductID = product.ID
			}
			return store.Products.ReplaceComponents(ctx, product.ID, components)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.ID)
}

// GetProduct retrieves a product with its recipe
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.uow.Store().Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts retrieves products with pagination and search
func (s *ProductService) ListProducts(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.uow.Store().Products.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(products, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateProduct patches product fields and optionally replaces the recipe
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		product, err := store.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return apperror.NewBadRequestError("Product name cannot be empty")
			}
			existing, err := store.Products.GetByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != product.ID {
				return apperror.NewConflictError(fmt.Sprintf("Product %q already exists", name))
			}
			product.Name = name
		}
		if input.Unit != nil {
			product.Unit = strings.TrimSpace(*input.Unit)
		}
		if input.UnitPrice != nil {
			product.UnitPrice = input.UnitPrice
		}
		if input.IsComposite != nil {
			product.IsComposite = *input.IsComposite
		}
		if input.IsManufactured != nil {
			product.IsManufactured = *input.IsManufactured
		}
		if product.IsComposite && product.IsManufactured {
			return apperror.NewBadRequestError("A product cannot be both composite and manufactured")
		}

		if input.Components != nil {
			if !product.IsComposite {
				return apperror.NewBadRequestError("Only composite products declare components")
			}
			components, err := s.buildComponents(ctx, store, product.ID, *input.Components)
			if err != nil {
				return err
			}
			if err := store.Products.ReplaceComponents(ctx, product.ID, components); err != nil {
				return err
			}
		}

		product.Components = nil
		return store.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	store := s.uow.Store()
	product, err := store.Products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return store.Products.Delete(ctx, id)
}

// Movements returns a product's stock movement trail with its signed sum
func (s *ProductService) Movements(ctx context.Context, id uuid.UUID) ([]entity.StockMovement, float64, error) {
	store := s.uow.Store()
	product, err := store.Products.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, apperror.NewNotFoundError("Product")
	}
	movements, err := store.StockMovements.ListByProduct(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	sum, err := store.StockMovements.SumByProduct(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return movements, sum, nil
}

// buildComponents validates a recipe and materializes the component rows.
// Components must exist, must not be composite themselves and must not
// reference the parent.
func (s *ProductService) buildComponents(ctx context.Context, store *repository.Store, productID uuid.UUID, inputs []ComponentInput) ([]entity.ProductComponent, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewBadRequestError("A composite product requires at least one component")
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, input := range inputs {
		if input.ComponentProductID == productID {
			return nil, apperror.NewBadRequestError("A product cannot be a component of itself")
		}
		if input.Ratio <= 0 {
			return nil, apperror.NewBadRequestError("Component ratios must be greater than zero")
		}
		if seen[input.ComponentProductID] {
			return nil, apperror.NewBadRequestError("Duplicate component in recipe")
		}
		seen[input.ComponentProductID] = true
		ids = append(ids, input.ComponentProductID)
	}

	products, err := store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	components := make([]entity.ProductComponent, 0, len(inputs))
	for i, input := range inputs {
		component, ok := byID[input.ComponentProductID]
		if !ok {
			return nil, apperror.NewNotFoundError("Component product")
		}
		if component.IsComposite {
			return nil, apperror.NewBadRequestError(
				fmt.Sprintf("Component %q is itself composite; nested recipes are not allowed", component.Name))
		}
		components = append(components, entity.ProductComponent{
			ProductID:          productID,
			ComponentProductID: input.ComponentProductID,
			Ratio:              input.Ratio,
			Position:           i,
		})
	}
	return components, nil
}

// ImportProductRow is one parsed row from an uploaded product sheet
type ImportProductRow struct {
	Name      string
	Unit      string
	UnitPrice *float64
	StockQty  float64
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import
// rows. Composite flags cannot be set through import; recipes need the
// regular endpoints.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	// Track names seen in this batch to catch in-file duplicates
	seenNames := make(map[string]int) // lowercased name -> row number

	var valid []entity.Product
	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header, data starts at row 2

		name := strings.TrimSpace(row.Name)
		if name == "" {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}
		key := strings.ToLower(name)
		if prevRow, exists := seenNames[key]; exists {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     rowNum,
				Field:   "name",
				Message: fmt.Sprintf("Duplicate name %q (same as row %d)", name, prevRow),
			})
			continue
		}
		seenNames[key] = rowNum

		existing, err := s.uow.Store().Products.GetByName(ctx, name)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "name", Message: "Error checking name: " + err.Error()})
			continue
		}
		if existing != nil {
			result.Errors = append(result.Errors, ImportRowError{
				Row:     rowNum,
				Field:   "name",
				Message: fmt.Sprintf("Product %q already exists", name),
			})
			continue
		}
		if row.UnitPrice != nil && *row.UnitPrice < 0 {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "unit_price", Message: "Unit price cannot be negative"})
			continue
		}

		valid = append(valid, entity.Product{
			Name:      name,
			Unit:      strings.TrimSpace(row.Unit),
			UnitPrice: row.UnitPrice,
			StockQty:  row.StockQty,
		})
	}

	err := s.uow.Do(ctx, func(ctx context.Context, store *repository.Store) error {
		for i := range valid {
			if err := store.Products.Create(ctx, &valid[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Successful = len(valid)
	result.Failed = result.TotalRows - result.Successful
	return result, nil
}
