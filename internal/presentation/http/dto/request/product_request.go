package request

import "github.com/google/uuid"

// ProductComponentRequest declares one component line of a composite recipe
type ProductComponentRequest struct {
	ComponentProductID uuid.UUID `json:"component_product_id" binding:"required"`
	Ratio              float64   `json:"ratio" binding:"required,gt=0"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name           string                    `json:"name" binding:"required,min=1,max=255"`
	Unit           string                    `json:"unit" binding:"omitempty,max=50"`
	UnitPrice      *float64                  `json:"unit_price" binding:"omitempty,min=0"`
	IsComposite    bool                      `json:"is_composite"`
	IsManufactured bool                      `json:"is_manufactured"`
	StockQty       float64                   `json:"stock_qty"`
	Components     []ProductComponentRequest `json:"components" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a product update request; omitted fields
// are left untouched
type UpdateProductRequest struct {
	Name           *string                    `json:"name" binding:"omitempty,min=1,max=255"`
	Unit           *string                    `json:"unit" binding:"omitempty,max=50"`
	UnitPrice      *float64                   `json:"unit_price" binding:"omitempty,min=0"`
	IsComposite    *bool                      `json:"is_composite"`
	IsManufactured *bool                      `json:"is_manufactured"`
	Components     *[]ProductComponentRequest `json:"components" binding:"omitempty,dive"`
}

// ProductFilterRequest represents product list filter parameters
type ProductFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
