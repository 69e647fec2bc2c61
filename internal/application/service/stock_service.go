package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/domain/entity"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/pkg/apperror"
)

// StockService posts and reverses the stock effects of receipt items. A
// sale line decrements the product's stock; a line on the distinguished
// debris product increments it (inbound material). Composite products touch
// only their components' stock, with a usage record per component so the
// posting can be reversed exactly later.
type StockService struct {
	debrisProductName string
}

// NewStockService creates a new stock service
func NewStockService(debrisProductName string) *StockService {
	return &StockService{debrisProductName: debrisProductName}
}

// IsDebris matches the debris intake product by exact case-insensitive name
func (s *StockService) IsDebris(productName string) bool {
	return strings.EqualFold(productName, s.debrisProductName)
}

// signedQuantity applies the debris inversion rule: sales post negative,
// debris intake posts positive
func (s *StockService) signedQuantity(productName string, quantity float64) (float64, enum.MovementKind) {
	if s.IsDebris(productName) {
		return quantity, enum.MovementKindPurchase
	}
	return -quantity, enum.MovementKindSale
}

// PostItem posts the stock effects of one persisted receipt item. The
// product must carry its components. Must run inside the same transaction
// that created the item.
func (s *StockService) PostItem(ctx context.Context, store *repository.Store, item *entity.ReceiptItem, product *entity.Product) error {
	if !product.IsComposite {
		return s.postMovement(ctx, store, product.ID, product.Name, item.Quantity, &item.ReceiptID)
	}

	// Composite products have no stock of their own; only the components
	// move. Each consumption is recorded on the item for literal reversal.
	if len(product.Components) == 0 {
		return nil
	}

	componentIDs := make([]uuid.UUID, 0, len(product.Components))
	for _, comp := range product.Components {
		componentIDs = append(componentIDs, comp.ComponentProductID)
	}
	components, err := store.Products.GetByIDs(ctx, componentIDs)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(components))
	for i := range components {
		byID[components[i].ID] = &components[i]
	}

	usage := make([]entity.ReceiptItemComponent, 0, len(product.Components))
	for _, comp := range product.Components {
		componentProduct, ok := byID[comp.ComponentProductID]
		if !ok {
			return apperror.NewAppError(http.StatusInternalServerError,
				fmt.Sprintf("Component product %s of %s no longer exists", comp.ComponentProductID, product.Name))
		}
		consumed := comp.Ratio * item.Quantity
		if err := s.postMovement(ctx, store, componentProduct.ID, componentProduct.Name, consumed, &item.ReceiptID); err != nil {
			return err
		}
		usage = append(usage, entity.ReceiptItemComponent{
			ReceiptItemID:      item.ID,
			ComponentProductID: comp.ComponentProductID,
			Quantity:           consumed,
		})
	}
	return store.Receipts.CreateItemComponents(ctx, usage)
}

// ReverseItem undoes the stock effects of an item before it is removed or
// replaced. Component reversals replay the persisted usage records rather
// than the product's current recipe, so edits to the recipe after the fact
// cannot skew the inverse. Deletes the usage records once reversed.
func (s *StockService) ReverseItem(ctx context.Context, store *repository.Store, item *entity.ReceiptItem) error {
	if len(item.Components) > 0 {
		componentIDs := make([]uuid.UUID, 0, len(item.Components))
		for _, usage := range item.Components {
			componentIDs = append(componentIDs, usage.ComponentProductID)
		}
		components, err := store.Products.GetByIDs(ctx, componentIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*entity.Product, len(components))
		for i := range components {
			byID[components[i].ID] = &components[i]
		}

		for _, usage := range item.Components {
			componentProduct, ok := byID[usage.ComponentProductID]
			if !ok {
				// component product deleted since posting; nothing to adjust
				continue
			}
			if err := s.reverseMovement(ctx, store, componentProduct.ID, componentProduct.Name, usage.Quantity, &item.ReceiptID); err != nil {
				return err
			}
		}
		return store.Receipts.DeleteItemComponents(ctx, item.ID)
	}

	product, err := store.Products.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil || product.IsComposite {
		// deleted product or a composite that posted nothing at creation
		return nil
	}
	return s.reverseMovement(ctx, store, product.ID, product.Name, item.Quantity, &item.ReceiptID)
}

func (s *StockService) postMovement(ctx context.Context, store *repository.Store, productID uuid.UUID, productName string, quantity float64, receiptID *uuid.UUID) error {
	signed, kind := s.signedQuantity(productName, quantity)
	movement := &entity.StockMovement{
		ProductID: productID,
		Quantity:  signed,
		Kind:      kind,
		ReceiptID: receiptID,
	}
	if err := store.StockMovements.Create(ctx, movement); err != nil {
		return err
	}
	return store.Products.AdjustStock(ctx, productID, signed)
}

// reverseMovement posts the exact negation of a prior posting, keeping the
// original kind so the trail reads as a reversal of that event
func (s *StockService) reverseMovement(ctx context.Context, store *repository.Store, productID uuid.UUID, productName string, quantity float64, receiptID *uuid.UUID) error {
	signed, kind := s.signedQuantity(productName, quantity)
	movement := &entity.StockMovement{
		ProductID: productID,
		Quantity:  -signed,
		Kind:      kind,
		ReceiptID: receiptID,
	}
	if err := store.StockMovements.Create(ctx, movement); err != nil {
		return err
	}
	return store.Products.AdjustStock(ctx, productID, -signed)
}
