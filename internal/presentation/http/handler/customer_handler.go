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

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer handles customer creation
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body request.CreateCustomerRequest true "Customer data"
// @Success 201 {object} response.APIResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.ReceiptType != nil {
		receiptType, ok := enum.ParseReceiptType(*req.ReceiptType)
		if !ok {
			response.BadRequest(c, "Unknown receipt type")
			return
		}
		input.ReceiptType = &receiptType
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created", customer)
}

// GetCustomer retrieves a customer by ID
// @Summary Get customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved", customer)
}

// ListCustomers retrieves customers with pagination and search
// @Summary List customers
// @Tags customers
// @Produce json
// @Param search query string false "Search by name or phone"
// @Success 200 {object} response.APIResponse
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var req request.CustomerFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	params.Validate()

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, req.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved", result)
}

// UpdateCustomer handles customer update
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body request.UpdateCustomerRequest true "Customer patch"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &service.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated", customer)
}

// DeleteCustomer handles customer deletion
// @Summary Delete customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted", nil)
}

// Balance reports the customer's outstanding position
// @Summary Customer balance
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id}/balance [get]
func (h *CustomerHandler) Balance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	balance, err := h.customerService.Balance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance computed", balance)
}

// AddJobSite attaches a job site to a customer
// @Summary Add job site
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body request.CreateJobSiteRequest true "Job site data"
// @Success 201 {object} response.APIResponse
// @Router /customers/{id}/job-sites [post]
func (h *CustomerHandler) AddJobSite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.CreateJobSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	site, err := h.customerService.AddJobSite(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Job site added", site)
}

// RemoveJobSite detaches a job site from a customer
// @Summary Remove job site
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Param siteId path string true "Job site ID"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id}/job-sites/{siteId} [delete]
func (h *CustomerHandler) RemoveJobSite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}
	siteID, err := uuid.Parse(c.Param("siteId"))
	if err != nil {
		response.BadRequest(c, "Invalid job site ID")
		return
	}

	if err := h.customerService.RemoveJobSite(c.Request.Context(), id, siteID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Job site removed", nil)
}
