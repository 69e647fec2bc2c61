package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BassamAA/mawad-api/internal/application/service"
	"github.com/BassamAA/mawad-api/internal/presentation/http/dto/response"
)

// DebugHandler exposes the reconciliation diagnostics and repair passes
type DebugHandler struct {
	reconService *service.ReconciliationService
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(reconService *service.ReconciliationService) *DebugHandler {
	return &DebugHandler{reconService: reconService}
}

// ReceivablesHealth reports paid-state drift and orphan allocations
// @Summary Receivables health
// @Description Scan all receipts for drift between stored and canonical paid state
// @Tags debug
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /debug/receivables-health [get]
func (h *DebugHandler) ReceivablesHealth(c *gin.Context) {
	report, err := h.reconService.Health(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receivables health computed", report)
}

// RecomputeReceiptBalances rewrites stored paid state from canonical values
// on every receipt
// @Summary Recompute receipt balances
// @Tags debug
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /debug/recompute-receipt-balances [post]
func (h *DebugHandler) RecomputeReceiptBalances(c *gin.Context) {
	result, err := h.reconService.RecomputeAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt balances recomputed", result)
}

// ReceivablesRepair applies canonical values to drifted receipts only
// @Summary Repair receivables
// @Tags debug
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /debug/receivables-repair [post]
func (h *DebugHandler) ReceivablesRepair(c *gin.Context) {
	result, err := h.reconService.Repair(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receivables repaired", result)
}
