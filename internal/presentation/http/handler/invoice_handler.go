package handler

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/request"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice bundling HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	customerService *service.CustomerService
	printerService  *service.PrinterService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService *service.InvoiceService,
	customerService *service.CustomerService,
	printerService *service.PrinterService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		customerService: customerService,
		printerService:  printerService,
	}
}

// Preview bundles a customer's receipts into an invoice projection
// @Summary Invoice preview
// @Description Select and aggregate receipts into a priced invoice projection
// @Tags invoices
// @Accept json
// @Produce json
// @Param customerId path string true "Customer ID"
// @Param request body request.InvoicePreviewRequest true "Selection"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /receipts/customers/{customerId}/invoice-preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.InvoicePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.InvoicePreviewInput{
		ReceiptIDs:   req.ReceiptIDs,
		TargetAmount: req.TargetAmount,
		IncludePaid:  req.IncludePaid,
	}
	for _, override := range req.PriceOverrides {
		input.PriceOverrides = append(input.PriceOverrides, service.PriceOverrideInput{
			ReceiptItemID: override.ReceiptItemID,
			UnitPrice:     override.UnitPrice,
		})
	}

	preview, err := h.invoiceService.Preview(c.Request.Context(), GetUserID(c), customerID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Print {
		customer, err := h.customerService.GetCustomer(c.Request.Context(), customerID)
		if err == nil {
			if perr := h.printerService.PrintInvoice(c.Request.Context(), customer.Name, preview); perr != nil {
				// the projection is still returned; printing is best-effort
				log.Printf("invoice print failed: %v", perr)
			}
		}
	}

	response.OK(c, "Invoice preview computed", preview)
}
