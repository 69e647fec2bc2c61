package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/domain/repository"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/request"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/response"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// ReceiptHandler handles receipt-related HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// CreateReceipt handles receipt creation
// @Summary Create receipt
// @Description Create a receipt with items, stock postings and a sequenced number
// @Tags receipts
// @Accept json
// @Produce json
// @Param request body request.CreateReceiptRequest true "Receipt data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /receipts [post]
func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var req request.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateReceiptInput{
		ReceiptNo:  req.ReceiptNo,
		CustomerID: req.CustomerID,
		WalkInName: req.WalkInName,
		JobSiteID:  req.JobSiteID,
		AmountPaid: req.AmountPaid,
		IsPaid:     req.IsPaid,
		Tehmil:     req.Tehmil,
		Tenzil:     req.Tenzil,
		Items:      toItemInputs(req.Items),
	}
	if req.Type != nil {
		receiptType, ok := enum.ParseReceiptType(*req.Type)
		if !ok {
			response.BadRequest(c, "Unknown receipt type")
			return
		}
		input.Type = &receiptType
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created", receipt)
}

// GetReceipt retrieves a receipt by ID
// @Summary Get receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt retrieved", receipt)
}

// ListReceipts retrieves receipts with filtering and pagination
// @Summary List receipts
// @Tags receipts
// @Produce json
// @Param search query string false "Search by receipt number or walk-in name"
// @Param type query string false "Receipt type (NORMAL or TVA)"
// @Param customer_id query string false "Customer ID"
// @Param unpaid query bool false "Only unpaid receipts"
// @Success 200 {object} response.APIResponse
// @Router /receipts [get]
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	var req request.ReceiptFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	params.Validate()

	filter := &repository.ReceiptFilterParams{
		Pagination: params,
		Search:     req.Search,
		Unpaid:     req.Unpaid,
	}
	if req.Type != "" {
		receiptType, ok := enum.ParseReceiptType(req.Type)
		if !ok {
			response.BadRequest(c, "Unknown receipt type")
			return
		}
		filter.Type = &receiptType
	}
	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		filter.CustomerID = &customerID
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(receipts, pagination.NewPagination(params.Page, params.PerPage, total))
	response.SuccessWithPagination(c, 200, "Receipts retrieved", result)
}

// UpdateReceipt handles receipt update
// @Summary Update receipt
// @Description Patch receipt fields and optionally replace the item set
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param request body request.UpdateReceiptRequest true "Receipt patch"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /receipts/{id} [put]
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdateReceiptInput{
		WalkInName: req.WalkInName,
		JobSiteID:  req.JobSiteID,
		AmountPaid: req.AmountPaid,
		IsPaid:     req.IsPaid,
		Tehmil:     req.Tehmil,
		Tenzil:     req.Tenzil,
	}
	if req.Items != nil {
		items := toItemInputs(*req.Items)
		input.Items = &items
	}

	receipt, err := h.receiptService.Update(c.Request.Context(), GetUserID(c), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated", receipt)
}

// DeleteReceipt handles receipt deletion
// @Summary Delete receipt
// @Description Reverse stock effects, detach payments and delete the receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /receipts/{id} [delete]
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), GetUserID(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt deleted", nil)
}

// NextNumber returns the next number preview for both sequences
// @Summary Next receipt numbers
// @Tags receipts
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /receipts/next-number [get]
func (h *ReceiptHandler) NextNumber(c *gin.Context) {
	normal, tva, err := h.receiptService.NextNumbers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Next numbers computed", gin.H{
		"normal": normal,
		"tva":    tva,
	})
}

// OverrideNumber replaces a stored receipt number (admin only)
// @Summary Override receipt number
// @Tags receipts
// @Accept json
// @Produce json
// @Param id path string true "Receipt ID"
// @Param request body request.OverrideReceiptNumberRequest true "New number"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /receipts/{id}/number [patch]
func (h *ReceiptHandler) OverrideNumber(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req request.OverrideReceiptNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.receiptService.OverrideNumber(c.Request.Context(), GetUserID(c), id, req.ReceiptNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt number updated", receipt)
}

// Movements returns the stock movement trail a receipt produced
// @Summary Receipt stock movements
// @Tags receipts
// @Produce json
// @Param id path string true "Receipt ID"
// @Success 200 {object} response.APIResponse
// @Router /receipts/{id}/movements [get]
func (h *ReceiptHandler) Movements(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receipt ID")
		return
	}

	movements, err := h.receiptService.Movements(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Movements retrieved", movements)
}

func toItemInputs(items []request.ReceiptItemRequest) []service.ReceiptItemInput {
	inputs := make([]service.ReceiptItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.ReceiptItemInput{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DisplayQuantity: item.DisplayQuantity,
			DisplayUnit:     item.DisplayUnit,
		})
	}
	return inputs
}
