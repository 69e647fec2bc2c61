package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/request"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/response"
	"github.com/BassamAA/mawad-api/pkg/excel"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct handles product creation
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param request body request.CreateProductRequest true "Product data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		Name:           req.Name,
		Unit:           req.Unit,
		UnitPrice:      req.UnitPrice,
		IsComposite:    req.IsComposite,
		IsManufactured: req.IsManufactured,
		StockQty:       req.StockQty,
		Components:     toComponentInputs(req.Components),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created", product)
}

// GetProduct retrieves a product by ID
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved", product)
}

// ListProducts retrieves products with pagination and search
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var req request.ProductFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	params.Validate()

	result, err := h.productService.ListProducts(c.Request.Context(), params, req.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved", result)
}

// UpdateProduct handles product update
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body request.UpdateProductRequest true "Product patch"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateProductInput{
		Name:           req.Name,
		Unit:           req.Unit,
		UnitPrice:      req.UnitPrice,
		IsComposite:    req.IsComposite,
		IsManufactured: req.IsManufactured,
	}
	if req.Components != nil {
		components := toComponentInputs(*req.Components)
		input.Components = &components
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated", product)
}

// DeleteProduct handles product deletion
// @Summary Delete product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted", nil)
}

// Movements returns a product's stock movement trail
// @Summary Product stock movements
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id}/movements [get]
func (h *ProductHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	movements, sum, err := h.productService.Movements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movements retrieved", gin.H{
		"movements": movements,
		"net":       sum,
	})
}

// ImportProducts bulk-creates products from an uploaded XLSX workbook
// @Summary Import products
// @Description Upload an XLSX file with name/unit/price/stock columns
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /products/import [post]
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "An XLSX file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	rows, err := excel.ParseProductSheet(file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	imports := make([]service.ImportProductRow, 0, len(rows))
	for _, row := range rows {
		imports = append(imports, service.ImportProductRow{
			Name:      row.Name,
			Unit:      row.Unit,
			UnitPrice: row.UnitPrice,
			StockQty:  row.StockQty,
		})
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), imports)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import finished", result)
}

func toComponentInputs(components []request.ProductComponentRequest) []service.ComponentInput {
	inputs := make([]service.ComponentInput, 0, len(components))
	for _, component := range components {
		inputs = append(inputs, service.ComponentInput{
			ComponentProductID: component.ComponentProductID,
			Ratio:              component.Ratio,
		})
	}
	return inputs
}
