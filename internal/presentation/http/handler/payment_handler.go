package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/domain/enum"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/request"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/response"
	"github.com/BassamAA/mawad-api/pkg/pagination"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePayment records a payment, optionally allocated across receipts
// @Summary Create payment
// @Tags payments
// @Accept json
// @Produce json
// @Param request body request.CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req request.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentType, ok := enum.ParsePaymentType(req.Type)
	if !ok {
		response.BadRequest(c, "Unknown payment type")
		return
	}

	input := &service.CreatePaymentInput{
		Type:        paymentType,
		Amount:      req.Amount,
		ReceiptID:   req.ReceiptID,
		CustomerID:  req.CustomerID,
		SupplierRef: req.SupplierRef,
		Notes:       req.Notes,
	}
	for _, alloc := range req.Allocations {
		input.Allocations = append(input.Allocations, service.AllocationInput{
			ReceiptID: alloc.ReceiptID,
			Amount:    alloc.Amount,
		})
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded", payment)
}

// GetPayment retrieves a payment by ID
// @Summary Get payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved", payment)
}

// ListPayments retrieves payments with pagination
// @Summary List payments
// @Tags payments
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Success 200 {object} response.APIResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var req request.PaymentFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	params.Validate()

	var customerID *uuid.UUID
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		customerID = &id
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params, customerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved", result)
}
